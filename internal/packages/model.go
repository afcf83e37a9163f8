package packages

import "time"

// Package is one service package offered by the business (e.g. "Exterior
// Deluxe"). Packages sharing a ServiceType are mutually exclusive within an
// order: selecting one replaces any other selection in the same group.
type Package struct {
	ID          uint
	Name        string
	ServiceType string
	Description *string
	IsActive    bool
	Prices      []*PackagePrice
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PackagePrice is a branch-scoped price: the same package costs differently
// per branch and vehicle type.
type PackagePrice struct {
	ID          uint
	PackageID   uint
	BranchID    uint
	VehicleType string
	Price       float64
	IsActive    bool
}

// PriceFor resolves the active price entry for a branch and vehicle type.
// The second return is false when no matching entry exists.
func (p *Package) PriceFor(branchID uint, vehicleType string) (float64, bool) {
	for _, entry := range p.Prices {
		if entry.BranchID == branchID && entry.VehicleType == vehicleType && entry.IsActive {
			return entry.Price, true
		}
	}
	return 0, false
}

type PackageFilterInput struct {
	Name        *string
	ServiceType *string
}
