package order

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

type Order struct {
	ID            uint
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	BranchID      uint
	VehicleType   string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	TotalAmount   float64
	OrderedAt     time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	ServiceLines   []*ServiceLine
	ProductLines   []*ProductLine
	ExtraWorkLines []*ExtraWorkLine
}

// ServiceLine is one selected package bound to a vehicle. At most one line
// per service-type group is active at a time.
type ServiceLine struct {
	ID            uint
	OrderID       uint
	PackageID     uint
	PackageName   string
	ServiceType   string
	VehicleType   string
	VehicleNumber string
	ArrivalDate   *string
	ArrivalTime   *string
	UnitPrice     float64
}

type ProductLine struct {
	ID          uint
	OrderID     uint
	ProductID   uint
	ProductName string
	Quantity    int
	UnitPrice   float64
}

type ExtraWorkLine struct {
	ID          uint
	OrderID     uint
	ExtraWorkID uint
	Name        string
	Price       float64
}

// HasServices reports whether the order carries work that needs a start-of-
// work inspection. Product-only orders complete straight from pending.
func (o *Order) HasServices() bool {
	return len(o.ServiceLines) > 0 || len(o.ExtraWorkLines) > 0
}

func (o *Order) IsProductOnly() bool {
	return !o.HasServices() && len(o.ProductLines) > 0
}

type OrderFilterInput struct {
	Status   *OrderStatus
	BranchID *uint
	Search   *string
	DateFrom *time.Time
	DateTo   *time.Time
}
