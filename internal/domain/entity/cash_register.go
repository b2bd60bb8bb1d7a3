package entity

import (
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain/cash"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja.
const (
	CashTxSale           = "SALE"
	CashTxChange         = "CHANGE"
	CashTxDeposit        = "DEPOSIT"
	CashTxWithdrawal     = "WITHDRAWAL"
	CashTxReconciliation = "RECONCILIATION"
)

// CashRegister caja de un punto de venta con su desglose físico.
type CashRegister struct {
	ID          string
	CompanyID   string
	UserID      string
	WarehouseID string
	Location    string
	Balance     decimal.Decimal
	Breakdown   cash.Breakdown
	UpdatedAt   time.Time
}

// CashTransaction movimiento append-only de caja. Amount con signo.
type CashTransaction struct {
	ID         string
	RegisterID string
	Type       string
	Amount     decimal.Decimal
	Breakdown  cash.Breakdown
	Reference  string
	CreatedBy  string
	CreatedAt  time.Time
}
