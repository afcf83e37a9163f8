package product

import "time"

type Product struct {
	ID          uint
	Name        string
	Price       float64
	Description *string
	IsActive    bool
	Stocks      []*BranchStock
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BranchStock is the on-hand quantity of a product at one branch.
type BranchStock struct {
	ID        uint
	ProductID uint
	BranchID  uint
	Quantity  int
}

// StockAt returns the on-hand quantity at a branch, 0 when no entry exists.
func (p *Product) StockAt(branchID uint) int {
	for _, s := range p.Stocks {
		if s.BranchID == branchID {
			return s.Quantity
		}
	}
	return 0
}
