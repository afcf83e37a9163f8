package order

import (
	"context"
	"testing"

	"washworks-be/internal/branch"
	"washworks-be/internal/extrawork"
	"washworks-be/internal/packages"
	"washworks-be/internal/product"
	"washworks-be/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Catalog mocks ---

type MockBranchService struct {
	mock.Mock
}

func (m *MockBranchService) GetBranches(ctx context.Context) ([]*branch.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*branch.Branch), args.Error(1)
}

func (m *MockBranchService) GetBranch(ctx context.Context, id uint) (*branch.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

type MockPackageService struct {
	mock.Mock
}

func (m *MockPackageService) GetPackages(ctx context.Context, filter *packages.PackageFilterInput) ([]*packages.Package, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*packages.Package), args.Error(1)
}

func (m *MockPackageService) GetByIDs(ctx context.Context, ids []uint) ([]*packages.Package, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*packages.Package), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetProducts(ctx context.Context) ([]*product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) SetStock(ctx context.Context, productID, branchID uint, qty int) error {
	args := m.Called(ctx, productID, branchID, qty)
	return args.Error(0)
}

func (m *MockProductService) DecrementStock(ctx context.Context, productID, branchID uint, qty int) error {
	args := m.Called(ctx, productID, branchID, qty)
	return args.Error(0)
}

type MockExtraWorkService struct {
	mock.Mock
}

func (m *MockExtraWorkService) GetExtraWorks(ctx context.Context) ([]*extrawork.ExtraWork, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*extrawork.ExtraWork), args.Error(1)
}

func (m *MockExtraWorkService) GetByIDs(ctx context.Context, ids []uint) ([]*extrawork.ExtraWork, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*extrawork.ExtraWork), args.Error(1)
}

// --- Fixtures ---

func strPtr(s string) *string { return &s }

func composerFixture() (*Composer, *MockBranchService, *MockPackageService, *MockProductService, *MockExtraWorkService) {
	branches := new(MockBranchService)
	pkgs := new(MockPackageService)
	products := new(MockProductService)
	extraWorks := new(MockExtraWorkService)
	return NewComposer(branches, pkgs, products, extraWorks), branches, pkgs, products, extraWorks
}

func stubCatalogs(branches *MockBranchService, pkgs *MockPackageService, products *MockProductService, extraWorks *MockExtraWorkService) {
	branches.On("GetBranch", mock.Anything, uint(1)).
		Return(&branch.Branch{ID: 1, Name: "Downtown"}, nil)
	pkgs.On("GetByIDs", mock.Anything, mock.Anything).
		Return(testPackageCatalog(), nil)
	products.On("GetByIDs", mock.Anything, mock.Anything).
		Return([]*product.Product{
			{ID: 10, Name: "Wax Bottle", Price: 15, Stocks: []*product.BranchStock{
				{ProductID: 10, BranchID: 1, Quantity: 2},
			}},
			{ID: 11, Name: "Air Freshener", Price: 10, Stocks: []*product.BranchStock{
				{ProductID: 11, BranchID: 1, Quantity: 5},
			}},
		}, nil)
	extraWorks.On("GetByIDs", mock.Anything, mock.Anything).
		Return(testExtraWorkCatalog(), nil)
}

// --- Tests ---

func TestComposer_Validation(t *testing.T) {
	composer, branches, pkgs, products, extraWorks := composerFixture()
	ctx := context.Background()

	t.Run("MissingBranch", func(t *testing.T) {
		_, err := composer.Compose(ctx, OfflineOrderInput{VehicleType: "Sedan"})
		assert.True(t, validation.IsValidation(err))
	})

	t.Run("MissingVehicleType", func(t *testing.T) {
		_, err := composer.Compose(ctx, OfflineOrderInput{BranchID: 1})
		assert.True(t, validation.IsValidation(err))
	})

	t.Run("EmptySelection", func(t *testing.T) {
		_, err := composer.Compose(ctx, OfflineOrderInput{BranchID: 1, VehicleType: "Sedan"})
		assert.True(t, validation.IsValidation(err))
	})

	// Rejected locally. No catalog mock is primed, so any lookup would fail
	// the test by itself.
	t.Run("ServicesWithoutRego", func(t *testing.T) {
		_, err := composer.Compose(ctx, OfflineOrderInput{
			BranchID:    1,
			VehicleType: "Sedan",
			Services:    []ServiceSelection{{PackageID: 1}},
		})
		assert.True(t, validation.IsValidation(err))

		_, err = composer.Compose(ctx, OfflineOrderInput{
			BranchID:      1,
			VehicleType:   "Sedan",
			VehicleNumber: strPtr("   "),
			Services:      []ServiceSelection{{PackageID: 1}},
		})
		assert.True(t, validation.IsValidation(err))
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		_, err := composer.Compose(ctx, OfflineOrderInput{
			BranchID:    1,
			VehicleType: "Sedan",
			Products:    []ProductSelection{{ProductID: 10, Quantity: 0}},
		})
		assert.True(t, validation.IsValidation(err))
	})

	branches.AssertNotCalled(t, "GetBranch", mock.Anything, mock.Anything)
	pkgs.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	products.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	extraWorks.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestComposer_Compose(t *testing.T) {
	composer, branches, pkgs, products, extraWorks := composerFixture()
	stubCatalogs(branches, pkgs, products, extraWorks)
	ctx := context.Background()

	o, err := composer.Compose(ctx, OfflineOrderInput{
		CustomerName:  strPtr("Dana"),
		BranchID:      1,
		VehicleType:   "Sedan",
		VehicleNumber: strPtr("ABC-123"),
		Services:      []ServiceSelection{{PackageID: 1}},
		Products:      []ProductSelection{{ProductID: 11, Quantity: 2}},
		ExtraWorkIDs:  []uint{20},
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentStatusUnpaid, o.PaymentStatus)
	assert.Len(t, o.ServiceLines, 1)
	assert.Equal(t, "ABC-123", o.ServiceLines[0].VehicleNumber)
	assert.Equal(t, 80.0, o.ServiceLines[0].UnitPrice)
	assert.Len(t, o.ProductLines, 1)
	assert.Len(t, o.ExtraWorkLines, 1)
	assert.Equal(t, 80.0+20.0+25.0, o.TotalAmount)
}

// Packages in the same service-type group are mutually exclusive; the last
// selection wins.
func TestComposer_ServiceGroupExclusivity(t *testing.T) {
	composer, branches, pkgs, products, extraWorks := composerFixture()
	stubCatalogs(branches, pkgs, products, extraWorks)
	ctx := context.Background()

	catalog := []*packages.Package{
		{ID: 1, Name: "Exterior Basic", ServiceType: "exterior", Prices: []*packages.PackagePrice{
			{PackageID: 1, BranchID: 1, VehicleType: "Sedan", Price: 40, IsActive: true},
		}},
		{ID: 2, Name: "Exterior Deluxe", ServiceType: "exterior", Prices: []*packages.PackagePrice{
			{PackageID: 2, BranchID: 1, VehicleType: "Sedan", Price: 80, IsActive: true},
		}},
	}
	pkgs.ExpectedCalls = nil
	pkgs.On("GetByIDs", mock.Anything, mock.Anything).Return(catalog, nil)

	o, err := composer.Compose(ctx, OfflineOrderInput{
		BranchID:      1,
		VehicleType:   "Sedan",
		VehicleNumber: strPtr("XYZ-999"),
		Services:      []ServiceSelection{{PackageID: 1}, {PackageID: 2}},
	})
	assert.NoError(t, err)
	assert.Len(t, o.ServiceLines, 1)
	assert.Equal(t, uint(2), o.ServiceLines[0].PackageID)
	assert.Equal(t, 80.0, o.TotalAmount)
}

// The composed total and the standalone calculator must agree on the same
// selection set, group exclusivity included.
func TestComposer_TotalMatchesCalculator(t *testing.T) {
	composer, branches, pkgs, products, extraWorks := composerFixture()
	stubCatalogs(branches, pkgs, products, extraWorks)
	ctx := context.Background()

	catalog := []*packages.Package{
		{ID: 1, Name: "Exterior Deluxe", ServiceType: "exterior", Prices: []*packages.PackagePrice{
			{PackageID: 1, BranchID: 1, VehicleType: "Sedan", Price: 80, IsActive: true},
		}},
		{ID: 3, Name: "Exterior Express", ServiceType: "exterior", Prices: []*packages.PackagePrice{
			{PackageID: 3, BranchID: 1, VehicleType: "Sedan", Price: 50, IsActive: true},
		}},
	}
	pkgs.ExpectedCalls = nil
	pkgs.On("GetByIDs", mock.Anything, mock.Anything).Return(catalog, nil)

	selections := []ServiceSelection{{PackageID: 1}, {PackageID: 3}}
	o, err := composer.Compose(ctx, OfflineOrderInput{
		BranchID:      1,
		VehicleType:   "Sedan",
		VehicleNumber: strPtr("XYZ-999"),
		Services:      selections,
	})
	assert.NoError(t, err)
	assert.Equal(t, 50.0, o.TotalAmount)
	assert.Equal(t, ComputeTotal(1, "Sedan", selections, nil, nil, catalog, nil, nil), o.TotalAmount)
}

func TestComposer_ClampsQuantityToStock(t *testing.T) {
	composer, branches, pkgs, products, extraWorks := composerFixture()
	stubCatalogs(branches, pkgs, products, extraWorks)
	ctx := context.Background()

	o, err := composer.Compose(ctx, OfflineOrderInput{
		BranchID:    1,
		VehicleType: "Sedan",
		Products:    []ProductSelection{{ProductID: 10, Quantity: 5}},
	})
	assert.NoError(t, err)
	assert.Len(t, o.ProductLines, 1)
	assert.Equal(t, 2, o.ProductLines[0].Quantity)
	assert.Equal(t, 30.0, o.TotalAmount)
}

// Revise keeps the requested quantities even above current stock.
func TestComposer_ReviseDoesNotClamp(t *testing.T) {
	composer, branches, pkgs, products, extraWorks := composerFixture()
	stubCatalogs(branches, pkgs, products, extraWorks)
	ctx := context.Background()

	o, err := composer.Revise(ctx, OfflineOrderInput{
		BranchID:    1,
		VehicleType: "Sedan",
		Products:    []ProductSelection{{ProductID: 10, Quantity: 5}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 5, o.ProductLines[0].Quantity)
	assert.Equal(t, 75.0, o.TotalAmount)
}

func TestComposer_TotalOverride(t *testing.T) {
	composer, branches, pkgs, products, extraWorks := composerFixture()
	stubCatalogs(branches, pkgs, products, extraWorks)
	ctx := context.Background()

	override := 100.0
	o, err := composer.Compose(ctx, OfflineOrderInput{
		BranchID:      1,
		VehicleType:   "Sedan",
		VehicleNumber: strPtr("ABC-123"),
		Services:      []ServiceSelection{{PackageID: 1}},
		TotalOverride: &override,
	})
	assert.NoError(t, err)
	assert.Equal(t, 100.0, o.TotalAmount)
}

func TestComposer_UnknownSelections(t *testing.T) {
	composer, branches, pkgs, products, extraWorks := composerFixture()
	stubCatalogs(branches, pkgs, products, extraWorks)
	ctx := context.Background()

	_, err := composer.Compose(ctx, OfflineOrderInput{
		BranchID:    1,
		VehicleType: "Sedan",
		Products:    []ProductSelection{{ProductID: 404, Quantity: 1}},
	})
	assert.True(t, validation.IsValidation(err))

	_, err = composer.Compose(ctx, OfflineOrderInput{
		BranchID:     1,
		VehicleType:  "Sedan",
		ExtraWorkIDs: []uint{404},
	})
	assert.True(t, validation.IsValidation(err))
}

func TestComposer_UnknownBranch(t *testing.T) {
	composer, branches, _, _, _ := composerFixture()
	ctx := context.Background()

	branches.On("GetBranch", mock.Anything, uint(9)).
		Return(nil, branch.ErrBranchNotFound)

	_, err := composer.Compose(ctx, OfflineOrderInput{
		BranchID:    9,
		VehicleType: "Sedan",
		Products:    []ProductSelection{{ProductID: 10, Quantity: 1}},
	})
	assert.ErrorIs(t, err, branch.ErrBranchNotFound)
}
