package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-pos/internal/application/branch"
	"github.com/jhoicas/Inventario-pos/internal/application/cashregister"
	"github.com/jhoicas/Inventario-pos/internal/application/inventory"
	"github.com/jhoicas/Inventario-pos/internal/application/order"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/application/usecase"
	"github.com/jhoicas/Inventario-pos/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC      *usecase.WarehouseUseCase
	ProductUC        *usecase.ProductUseCase
	CustomerUC       *usecase.CustomerUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Checkout         *pos.CheckoutUseCase
	OrderUC          *order.UseCase
	CashRegisterUC   *cashregister.UseCase
	BranchUC         *branch.UseCase
	JWTSecret        string
}

// Router registra las rutas de la API. admin pasa todas las restricciones de rol.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	cajero := RequireRole(jwt.RoleCajero)
	bodeguero := RequireRole(jwt.RoleBodeguero)
	admin := RequireRole()

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.ListActive)
	warehouses.Get("/all", admin, warehouseHandler.List)
	warehouses.Post("/", admin, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", admin, warehouseHandler.Update)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", admin, productHandler.Create)
	products.Put("/:id", admin, productHandler.Update)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", cajero, customerHandler.Create)
	customers.Put("/:id", cajero, customerHandler.Update)

	// Inventory
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Replenishment)
	invGroup.Get("/stock/:product_id", inventoryHandler.ProductStock)
	invGroup.Get("/movements/:product_id", inventoryHandler.Movements)
	invGroup.Post("/adjustments", bodeguero, inventoryHandler.Adjust)
	invGroup.Get("/replenishment-list", bodeguero, inventoryHandler.GetReplenishmentList)

	// POS
	posGroup := api.Group("/pos", cajero)
	posHandler := NewPOSHandler(deps.Checkout)
	posGroup.Post("/checkout", posHandler.Checkout)
	posGroup.Post("/change", posHandler.PreviewChange)

	// Orders
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", cajero, orderHandler.Create)
	orders.Get("/:id", orderHandler.Get)
	orders.Post("/:id/process", bodeguero, orderHandler.Process)
	orders.Post("/:id/deliver", bodeguero, orderHandler.Deliver)
	orders.Post("/:id/cancel", cajero, orderHandler.Cancel)

	// Cash registers
	registers := api.Group("/cash-registers", cajero)
	registerHandler := NewCashRegisterHandler(deps.CashRegisterUC)
	registers.Get("/:id", registerHandler.Get)
	registers.Get("/:id/transactions", registerHandler.Transactions)
	registers.Post("/:id/deposit", registerHandler.Deposit)
	registers.Post("/:id/withdraw", registerHandler.Withdraw)
	registers.Post("/:id/reconcile", registerHandler.Reconcile)

	// Branch notifications & transfers
	branchHandler := NewBranchHandler(deps.BranchUC)
	notifications := api.Group("/branch-notifications", RequireRole(jwt.RoleBodeguero, jwt.RoleCajero))
	notifications.Get("/", branchHandler.List)
	notifications.Post("/", branchHandler.Request)
	notifications.Get("/:id", branchHandler.Get)
	notifications.Post("/:id/acknowledge", bodeguero, branchHandler.Acknowledge)
	notifications.Post("/:id/respond", bodeguero, branchHandler.Respond)

	transfers := api.Group("/branch-transfers", bodeguero)
	transfers.Get("/", branchHandler.ListTransfers)
	transfers.Get("/:id", branchHandler.GetTransfer)
	transfers.Post("/:id/dispatch", branchHandler.Dispatch)
	transfers.Post("/:id/receive", branchHandler.Receive)
}
