package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RegisterMovementUseCase registra ajustes y devoluciones de forma transaccional,
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback, y consulta stock y kardex.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	repos    repository.Repos
	log      zerolog.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, repos repository.Repos, log zerolog.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		repos:    repos,
		log:      log,
		now:      time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento manual.
// ADJUSTMENT acepta cantidades con signo; RETURN solo positivas.
type MovementInputDTO struct {
	CompanyID   string
	UserID      string
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    decimal.Decimal
	Notes       string
}

// RegisterMovement bloquea la fila de stock, aplica el movimiento y lo guarda en el kardex.
// Una salida mayor al disponible devuelve *domain.StockShortageError.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*dto.StockDTO, error) {
	if input.Type == "" {
		input.Type = entity.MovementTypeAdjustment
	}
	switch input.Type {
	case entity.MovementTypeAdjustment:
		if input.Quantity.IsZero() {
			return nil, fmt.Errorf("%w: cantidad en cero", domain.ErrInvalidInput)
		}
	case entity.MovementTypeReturn:
		if !input.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: una devolución ingresa unidades", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: tipo %s", domain.ErrInvalidInput, input.Type)
	}
	if input.ProductID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.Stock
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		product, err := tx.Products.GetByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.CompanyID != input.CompanyID {
			return domain.ErrNotFound
		}
		wh, err := tx.Warehouses.GetByID(ctx, input.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || wh.CompanyID != input.CompanyID {
			return domain.ErrNotFound
		}

		now := uc.now()
		row, err := tx.Stock.GetForUpdate(ctx, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if input.Quantity.IsPositive() {
			err = row.Receive(input.Quantity, now)
		} else {
			err = row.Deduct(input.Quantity.Neg(), now)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return &domain.StockShortageError{Shortages: []domain.Shortage{{
					ProductID: input.ProductID,
					Requested: input.Quantity.Neg(),
					Available: row.AvailableQty,
				}}}
			}
		}
		if err != nil {
			return err
		}
		if err := tx.Stock.Upsert(ctx, row); err != nil {
			return err
		}
		out = row
		return tx.Movements.Create(ctx, &entity.StockMovement{
			ID:          uuid.New().String(),
			CompanyID:   input.CompanyID,
			ProductID:   input.ProductID,
			WarehouseID: input.WarehouseID,
			Type:        input.Type,
			Quantity:    input.Quantity,
			Reference:   input.Type + ":" + input.UserID,
			Notes:       input.Notes,
			CreatedBy:   input.UserID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", input.ProductID).
		Str("warehouse_id", input.WarehouseID).
		Str("type", input.Type).
		Str("quantity", input.Quantity.String()).
		Msg("movimiento de inventario registrado")
	res := toStockDTO(out, "")
	return &res, nil
}

// ProductStock stock del producto en cada bodega de la empresa, en orden FIFO.
func (uc *RegisterMovementUseCase) ProductStock(ctx context.Context, companyID, productID string) (*dto.ProductStockResponse, error) {
	if err := uc.checkProduct(ctx, companyID, productID); err != nil {
		return nil, err
	}
	rows, err := uc.repos.Stock.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	warehouses, err := uc.repos.Warehouses.ListByCompany(ctx, companyID, 1000, 0)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(warehouses))
	for _, w := range warehouses {
		names[w.ID] = w.Name
	}
	out := &dto.ProductStockResponse{
		ProductID:      productID,
		TotalQuantity:  decimal.Zero,
		TotalAvailable: decimal.Zero,
		Warehouses:     []dto.StockDTO{},
	}
	for _, r := range rows {
		name, ok := names[r.WarehouseID]
		if !ok {
			continue
		}
		out.TotalQuantity = out.TotalQuantity.Add(r.Quantity)
		out.TotalAvailable = out.TotalAvailable.Add(r.AvailableQty)
		out.Warehouses = append(out.Warehouses, toStockDTO(r, name))
	}
	return out, nil
}

// Movements kardex del producto, más recientes primero.
func (uc *RegisterMovementUseCase) Movements(ctx context.Context, companyID, productID string, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	if err := uc.checkProduct(ctx, companyID, productID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repos.Movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementDTO, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementDTO{
			ID:          m.ID,
			ProductID:   m.ProductID,
			WarehouseID: m.WarehouseID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Reference:   m.Reference,
			Notes:       m.Notes,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *RegisterMovementUseCase) checkProduct(ctx context.Context, companyID, productID string) error {
	p, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil || p.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

func toStockDTO(s *entity.Stock, warehouseName string) dto.StockDTO {
	return dto.StockDTO{
		ProductID:     s.ProductID,
		WarehouseID:   s.WarehouseID,
		WarehouseName: warehouseName,
		Quantity:      s.Quantity,
		ReservedQty:   s.ReservedQty,
		AvailableQty:  s.AvailableQty,
		UpdatedAt:     s.UpdatedAt,
	}
}
