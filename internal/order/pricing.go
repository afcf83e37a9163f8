package order

import (
	"washworks-be/internal/extrawork"
	"washworks-be/internal/packages"
	"washworks-be/internal/product"
)

type ServiceSelection struct {
	PackageID   uint
	ArrivalDate *string
	ArrivalTime *string
}

type ProductSelection struct {
	ProductID uint
	Quantity  int
}

// ComputeTotal derives the order total from the current selections and the
// reference catalogs. Pure function; recomputed on every selection change.
// Package selections collapse to one per service-type group before summing,
// last selection wins, same as the order forms.
//
// A selected package with no active price entry for (branchID, vehicleType)
// contributes 0 to the total. That matches the console's long-standing
// behavior; callers log the lookup miss but must not change the sum.
func ComputeTotal(
	branchID uint,
	vehicleType string,
	services []ServiceSelection,
	products []ProductSelection,
	extraWorkIDs []uint,
	packageCatalog []*packages.Package,
	productCatalog []*product.Product,
	extraWorkCatalog []*extrawork.ExtraWork,
) float64 {
	pkgByID := make(map[uint]*packages.Package, len(packageCatalog))
	for _, p := range packageCatalog {
		pkgByID[p.ID] = p
	}
	prodByID := make(map[uint]*product.Product, len(productCatalog))
	for _, p := range productCatalog {
		prodByID[p.ID] = p
	}
	workByID := make(map[uint]*extrawork.ExtraWork, len(extraWorkCatalog))
	for _, w := range extraWorkCatalog {
		workByID[w.ID] = w
	}

	services = dedupeServiceGroups(services, pkgByID)

	var total float64

	for _, sel := range services {
		pkg, ok := pkgByID[sel.PackageID]
		if !ok {
			continue
		}
		if price, ok := pkg.PriceFor(branchID, vehicleType); ok {
			total += price
		}
	}

	for _, sel := range products {
		p, ok := prodByID[sel.ProductID]
		if !ok {
			continue
		}
		total += p.Price * float64(sel.Quantity)
	}

	for _, id := range extraWorkIDs {
		w, ok := workByID[id]
		if !ok {
			continue
		}
		if w.Price != nil {
			total += *w.Price
		}
	}

	return total
}
