package entity

import "time"

// Customer cliente de la empresa; el POS lo crea o actualiza por TaxID.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string // RFC / documento fiscal
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
