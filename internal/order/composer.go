package order

import (
	"context"
	"strings"

	"washworks-be/internal/branch"
	"washworks-be/internal/extrawork"
	"washworks-be/internal/logger"
	"washworks-be/internal/packages"
	"washworks-be/internal/product"
	"washworks-be/internal/validation"

	"go.uber.org/zap"
)

// OfflineOrderInput is the walk-in order form: manually selected packages,
// products and extra works plus optional customer info.
type OfflineOrderInput struct {
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	BranchID      uint
	VehicleType   string
	VehicleNumber *string
	Services      []ServiceSelection
	Products      []ProductSelection
	ExtraWorkIDs  []uint
	// TotalOverride, when set, replaces the computed total verbatim.
	TotalOverride *float64
}

// Composer assembles a new offline order from catalog selections. The
// created order enters the lifecycle at PENDING and is immediately handed
// to the start-work flow by the operator.
type Composer struct {
	branches   branch.Service
	packages   packages.Service
	products   product.Service
	extraWorks extrawork.Service
}

func NewComposer(branches branch.Service, pkgs packages.Service, products product.Service, extraWorks extrawork.Service) *Composer {
	return &Composer{
		branches:   branches,
		packages:   pkgs,
		products:   products,
		extraWorks: extraWorks,
	}
}

func (c *Composer) Compose(ctx context.Context, input OfflineOrderInput) (*Order, error) {
	return c.compose(ctx, input, true)
}

// Revise rebuilds an order's lines from an edited selection set. Unlike
// Compose it does not clamp product quantities to stock, since the stock
// on hand may already have been consumed by the order being edited.
func (c *Composer) Revise(ctx context.Context, input OfflineOrderInput) (*Order, error) {
	return c.compose(ctx, input, false)
}

func (c *Composer) compose(ctx context.Context, input OfflineOrderInput, clampToStock bool) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "composer"),
		zap.Uint("branch_id", input.BranchID),
		zap.String("vehicle_type", input.VehicleType),
	)

	if input.BranchID == 0 {
		return nil, validation.Errorf("branch is required")
	}
	if input.VehicleType == "" {
		return nil, validation.Errorf("vehicle type is required")
	}
	if len(input.Services) == 0 && len(input.Products) == 0 && len(input.ExtraWorkIDs) == 0 {
		return nil, validation.Errorf("select at least one package, product or extra work")
	}
	if len(input.Services) > 0 {
		if input.VehicleNumber == nil || strings.TrimSpace(*input.VehicleNumber) == "" {
			return nil, validation.Errorf("vehicle registration number is required")
		}
	}
	for _, sel := range input.Products {
		if sel.Quantity <= 0 {
			return nil, validation.Errorf("product quantity must be greater than zero")
		}
	}

	if _, err := c.branches.GetBranch(ctx, input.BranchID); err != nil {
		return nil, err
	}

	lines, total, err := c.BuildLines(ctx, input.BranchID, input.VehicleType, input.VehicleNumber, input.Services, input.Products, input.ExtraWorkIDs, clampToStock)
	if err != nil {
		return nil, err
	}

	if input.TotalOverride != nil {
		// Operator override wins; no re-validation against the computed value.
		total = *input.TotalOverride
	}

	log.Info("offline order composed",
		zap.Int("service_lines", len(lines.Services)),
		zap.Int("product_lines", len(lines.Products)),
		zap.Int("extra_work_lines", len(lines.ExtraWorks)),
		zap.Float64("total", total),
	)

	return &Order{
		CustomerName:   input.CustomerName,
		CustomerEmail:  input.CustomerEmail,
		CustomerPhone:  input.CustomerPhone,
		BranchID:       input.BranchID,
		VehicleType:    input.VehicleType,
		Status:         StatusPending,
		PaymentStatus:  PaymentStatusUnpaid,
		TotalAmount:    total,
		ServiceLines:   lines.Services,
		ProductLines:   lines.Products,
		ExtraWorkLines: lines.ExtraWorks,
	}, nil
}

// Lines bundles the resolved order lines produced from a selection set.
type Lines struct {
	Services   []*ServiceLine
	Products   []*ProductLine
	ExtraWorks []*ExtraWorkLine
}

// BuildLines resolves catalog entries for the given selections and hands the
// resolved set to ComputeTotal for the derived total. Package selections are
// deduplicated per service-type group (radio-button semantics, last selection
// wins). When clampToStock is set, product quantities are capped at the
// branch's stock level before pricing.
func (c *Composer) BuildLines(
	ctx context.Context,
	branchID uint,
	vehicleType string,
	vehicleNumber *string,
	services []ServiceSelection,
	products []ProductSelection,
	extraWorkIDs []uint,
	clampToStock bool,
) (*Lines, float64, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "composer"))

	pkgIDs := make([]uint, 0, len(services))
	for _, sel := range services {
		pkgIDs = append(pkgIDs, sel.PackageID)
	}
	prodIDs := make([]uint, 0, len(products))
	for _, sel := range products {
		prodIDs = append(prodIDs, sel.ProductID)
	}

	pkgCatalog, err := c.packages.GetByIDs(ctx, pkgIDs)
	if err != nil {
		return nil, 0, err
	}
	prodCatalog, err := c.products.GetByIDs(ctx, prodIDs)
	if err != nil {
		return nil, 0, err
	}
	workCatalog, err := c.extraWorks.GetByIDs(ctx, extraWorkIDs)
	if err != nil {
		return nil, 0, err
	}

	pkgByID := make(map[uint]*packages.Package, len(pkgCatalog))
	for _, p := range pkgCatalog {
		pkgByID[p.ID] = p
	}
	prodByID := make(map[uint]*product.Product, len(prodCatalog))
	for _, p := range prodCatalog {
		prodByID[p.ID] = p
	}
	workByID := make(map[uint]*extrawork.ExtraWork, len(workCatalog))
	for _, w := range workCatalog {
		workByID[w.ID] = w
	}

	services = dedupeServiceGroups(services, pkgByID)

	lines := &Lines{}
	regoNumber := ""
	if vehicleNumber != nil {
		regoNumber = strings.TrimSpace(*vehicleNumber)
	}

	for _, sel := range services {
		pkg, ok := pkgByID[sel.PackageID]
		if !ok {
			return nil, 0, validation.Errorf("unknown package: %d", sel.PackageID)
		}
		price, ok := pkg.PriceFor(branchID, vehicleType)
		if !ok {
			// Missing price entry contributes 0 to the total. Known quirk,
			// kept as-is; the warn log is the only trace.
			log.Warn("no package price for branch/vehicle",
				zap.Uint("package_id", pkg.ID),
				zap.Uint("branch_id", branchID),
				zap.String("vehicle_type", vehicleType),
			)
		}
		lines.Services = append(lines.Services, &ServiceLine{
			PackageID:     pkg.ID,
			PackageName:   pkg.Name,
			ServiceType:   pkg.ServiceType,
			VehicleType:   vehicleType,
			VehicleNumber: regoNumber,
			ArrivalDate:   sel.ArrivalDate,
			ArrivalTime:   sel.ArrivalTime,
			UnitPrice:     price,
		})
	}

	for _, sel := range products {
		p, ok := prodByID[sel.ProductID]
		if !ok {
			return nil, 0, validation.Errorf("unknown product: %d", sel.ProductID)
		}
		qty := sel.Quantity
		if clampToStock {
			if stock := p.StockAt(branchID); qty > stock {
				qty = stock
			}
		}
		if qty <= 0 {
			continue
		}
		lines.Products = append(lines.Products, &ProductLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			UnitPrice:   p.Price,
		})
	}

	for _, id := range extraWorkIDs {
		w, ok := workByID[id]
		if !ok {
			return nil, 0, validation.Errorf("unknown extra work: %d", id)
		}
		price := 0.0
		if w.Price != nil {
			price = *w.Price
		}
		lines.ExtraWorks = append(lines.ExtraWorks, &ExtraWorkLine{
			ExtraWorkID: w.ID,
			Name:        w.Name,
			Price:       price,
		})
	}

	// Price the clamped quantities, not the requested ones.
	pricedProducts := make([]ProductSelection, 0, len(lines.Products))
	for _, l := range lines.Products {
		pricedProducts = append(pricedProducts, ProductSelection{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	total := ComputeTotal(branchID, vehicleType, services, pricedProducts, extraWorkIDs, pkgCatalog, prodCatalog, workCatalog)

	return lines, total, nil
}

// dedupeServiceGroups keeps the last selected package per service-type
// group, mirroring the radio-button exclusivity of the order forms.
func dedupeServiceGroups(services []ServiceSelection, pkgByID map[uint]*packages.Package) []ServiceSelection {
	lastByGroup := map[string]int{}
	for i, sel := range services {
		pkg, ok := pkgByID[sel.PackageID]
		if !ok {
			continue
		}
		lastByGroup[pkg.ServiceType] = i
	}

	keep := make(map[int]bool, len(lastByGroup))
	for _, idx := range lastByGroup {
		keep[idx] = true
	}

	out := make([]ServiceSelection, 0, len(lastByGroup))
	for i, sel := range services {
		if keep[i] {
			out = append(out, sel)
		}
	}
	return out
}
