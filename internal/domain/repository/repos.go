package repository

// Repos agrupa los repositorios atados a una misma transacción (o al pool fuera de ella).
type Repos struct {
	Warehouses    WarehouseRepository
	Products      ProductRepository
	Stock         StockRepository
	Movements     StockMovementRepository
	Customers     CustomerRepository
	Orders        OrderRepository
	Payments      PaymentRepository
	Registers     CashRegisterRepository
	Notifications BranchNotificationRepository
	Transfers     BranchTransferRepository
}
