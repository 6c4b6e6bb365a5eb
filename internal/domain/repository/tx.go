package repository

// Tx agrupa los repositorios atados a una misma transacción.
type Tx interface {
	Products() ProductRepository
	Vendors() VendorRepository
	IncomingStock() IncomingStockRepository
	Demand() DemandRepository
	WorkOrders() WorkOrderRepository
}
