package extrawork

import "time"

// ExtraWork is a flat-priced add-on job (e.g. "Pet hair removal") selected
// per order with an implicit quantity of one.
type ExtraWork struct {
	ID          uint
	Name        string
	Price       *float64
	Description *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
