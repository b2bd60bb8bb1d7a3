// Package branch define los estados válidos de notificaciones y traslados entre sucursales.
package branch

import (
	"fmt"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

var notificationTransitions = map[string][]string{
	entity.NotificationPending:      {entity.NotificationAcknowledged, entity.NotificationAccepted, entity.NotificationRejected},
	entity.NotificationAcknowledged: {entity.NotificationAccepted, entity.NotificationRejected},
	entity.NotificationAccepted:     {entity.NotificationCompleted},
}

var transferTransitions = map[string][]string{
	entity.TransferPending:   {entity.TransferInTransit},
	entity.TransferInTransit: {entity.TransferReceived},
}

func allowed(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionNotification indica si la notificación puede pasar de from a to.
func CanTransitionNotification(from, to string) bool {
	return allowed(notificationTransitions, from, to)
}

// CanTransitionTransfer indica si el traslado puede pasar de from a to.
func CanTransitionTransfer(from, to string) bool {
	return allowed(transferTransitions, from, to)
}

// MoveNotification cambia el estado o devuelve ErrInvalidTransition.
func MoveNotification(n *entity.BranchNotification, to string) error {
	if !CanTransitionNotification(n.Status, to) {
		return fmt.Errorf("%w: notificación %s de %s a %s", domain.ErrInvalidTransition, n.ID, n.Status, to)
	}
	n.Status = to
	return nil
}

// MoveTransfer cambia el estado o devuelve ErrInvalidTransition.
func MoveTransfer(t *entity.BranchStockTransfer, to string) error {
	if !CanTransitionTransfer(t.Status, to) {
		return fmt.Errorf("%w: traslado %s de %s a %s", domain.ErrInvalidTransition, t.ID, t.Status, to)
	}
	t.Status = to
	return nil
}

// StatusForResponse estado destino de la notificación según la respuesta.
func StatusForResponse(responseType string) (string, error) {
	switch responseType {
	case entity.ResponseAccept, entity.ResponsePartialAccept:
		return entity.NotificationAccepted, nil
	case entity.ResponseReject:
		return entity.NotificationRejected, nil
	default:
		return "", fmt.Errorf("%w: tipo de respuesta %q", domain.ErrInvalidInput, responseType)
	}
}
