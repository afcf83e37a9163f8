package handler

import (
	"net/http"
	"strconv"

	"washworks-be/internal/branch"
	"washworks-be/internal/extrawork"
	"washworks-be/internal/packages"
	"washworks-be/internal/product"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read side of the catalog: branches, packages
// with their per-branch prices, products with stock, and extra works.
type CatalogHandler struct {
	branches   branch.Service
	packages   packages.Service
	products   product.Service
	extraWorks extrawork.Service
}

func NewCatalogHandler(
	branches branch.Service,
	pkgs packages.Service,
	products product.Service,
	extraWorks extrawork.Service,
) *CatalogHandler {
	return &CatalogHandler{
		branches:   branches,
		packages:   pkgs,
		products:   products,
		extraWorks: extraWorks,
	}
}

type branchResponse struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone,omitempty"`
}

func (h *CatalogHandler) GetBranches(c *gin.Context) {
	branches, err := h.branches.GetBranches(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]branchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, branchResponse{ID: b.ID, Name: b.Name, Address: b.Address, Phone: b.Phone})
	}
	c.JSON(http.StatusOK, gin.H{"branches": out})
}

type packagePriceResponse struct {
	BranchID    uint    `json:"branch_id"`
	VehicleType string  `json:"vehicle_type"`
	Price       float64 `json:"price"`
}

type packageResponse struct {
	ID          uint                   `json:"id"`
	Name        string                 `json:"name"`
	ServiceType string                 `json:"service_type"`
	Description *string                `json:"description,omitempty"`
	Prices      []packagePriceResponse `json:"prices"`
}

func (h *CatalogHandler) GetPackages(c *gin.Context) {
	var filter packages.PackageFilterInput
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}
	if serviceType := c.Query("service_type"); serviceType != "" {
		filter.ServiceType = &serviceType
	}

	pkgs, err := h.packages.GetPackages(c.Request.Context(), &filter)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]packageResponse, 0, len(pkgs))
	for _, p := range pkgs {
		resp := packageResponse{
			ID:          p.ID,
			Name:        p.Name,
			ServiceType: p.ServiceType,
			Description: p.Description,
			Prices:      make([]packagePriceResponse, 0, len(p.Prices)),
		}
		for _, price := range p.Prices {
			if !price.IsActive {
				continue
			}
			resp.Prices = append(resp.Prices, packagePriceResponse{
				BranchID:    price.BranchID,
				VehicleType: price.VehicleType,
				Price:       price.Price,
			})
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"packages": out})
}

type branchStockResponse struct {
	BranchID uint `json:"branch_id"`
	Quantity int  `json:"quantity"`
}

type productResponse struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	Price       float64               `json:"price"`
	Description *string               `json:"description,omitempty"`
	Stocks      []branchStockResponse `json:"stocks"`
}

func toProductResponse(p *product.Product) productResponse {
	resp := productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Stocks:      make([]branchStockResponse, 0, len(p.Stocks)),
	}
	for _, s := range p.Stocks {
		resp.Stocks = append(resp.Stocks, branchStockResponse{BranchID: s.BranchID, Quantity: s.Quantity})
	}
	return resp
}

func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.products.GetProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	p, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

type setStockRequest struct {
	BranchID uint `json:"branch_id" binding:"required"`
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *CatalogHandler) SetProductStock(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req setStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "branch_id and quantity are required"})
		return
	}
	if *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity must not be negative"})
		return
	}

	if err := h.products.SetStock(c.Request.Context(), id, req.BranchID, *req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stock updated"})
}

type extraWorkResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func (h *CatalogHandler) GetExtraWorks(c *gin.Context) {
	works, err := h.extraWorks.GetExtraWorks(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]extraWorkResponse, 0, len(works))
	for _, w := range works {
		out = append(out, extraWorkResponse{ID: w.ID, Name: w.Name, Price: w.Price, Description: w.Description})
	}
	c.JSON(http.StatusOK, gin.H{"extra_works": out})
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(v), true
}
