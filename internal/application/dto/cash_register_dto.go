package dto

import (
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain/cash"
	"github.com/shopspring/decimal"
)

// CashRegisterResponse caja con su desglose.
type CashRegisterResponse struct {
	ID          string          `json:"id"`
	WarehouseID string          `json:"warehouse_id"`
	UserID      string          `json:"user_id"`
	Location    string          `json:"location"`
	Balance     decimal.Decimal `json:"balance"`
	Breakdown   cash.Breakdown  `json:"breakdown"`
	Total       decimal.Decimal `json:"breakdown_total"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CashMovementRequest body para depósitos y retiros.
type CashMovementRequest struct {
	Breakdown cash.Breakdown `json:"breakdown"`
	Reference string         `json:"reference" validate:"max=200"`
}

// ReconcileRequest conteo físico declarado por el cajero.
type ReconcileRequest struct {
	Declared cash.Breakdown `json:"declared"`
	Notes    string         `json:"notes" validate:"max=500"`
}

// ReconcileResponse resultado del arqueo. Difference = declarado - sistema.
type ReconcileResponse struct {
	RegisterID    string           `json:"register_id"`
	Expected      decimal.Decimal  `json:"expected"`
	Declared      decimal.Decimal  `json:"declared"`
	Difference    decimal.Decimal  `json:"difference"`
	Denominations map[string]int64 `json:"denomination_differences"`
	Balanced      bool             `json:"balanced"`
}

// CashTransactionDTO movimiento de caja.
type CashTransactionDTO struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Breakdown cash.Breakdown  `json:"breakdown"`
	Reference string          `json:"reference,omitempty"`
	CreatedBy string          `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CashTransactionListResponse libro de caja paginado.
type CashTransactionListResponse struct {
	Items []CashTransactionDTO `json:"items"`
	Page  PageResponse         `json:"page"`
}
