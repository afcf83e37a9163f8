package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"washworks-be/internal/inspection"
	"washworks-be/internal/order"

	"github.com/gin-gonic/gin"
)

const maxUploadMemory = 32 << 20

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type serviceSelectionRequest struct {
	PackageID   uint    `json:"package_id" binding:"required"`
	ArrivalDate *string `json:"arrival_date,omitempty"`
	ArrivalTime *string `json:"arrival_time,omitempty"`
}

type productSelectionRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type orderRequest struct {
	CustomerName  *string                   `json:"customer_name,omitempty"`
	CustomerEmail *string                   `json:"customer_email,omitempty"`
	CustomerPhone *string                   `json:"customer_phone,omitempty"`
	BranchID      uint                      `json:"branch_id"`
	VehicleType   string                    `json:"vehicle_type"`
	VehicleNumber *string                   `json:"vehicle_number,omitempty"`
	Services      []serviceSelectionRequest `json:"services"`
	Products      []productSelectionRequest `json:"products"`
	ExtraWorkIDs  []uint                    `json:"extra_work_ids"`
	TotalOverride *float64                  `json:"total_override,omitempty"`
}

func (r *orderRequest) toInput() order.OfflineOrderInput {
	input := order.OfflineOrderInput{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		BranchID:      r.BranchID,
		VehicleType:   r.VehicleType,
		VehicleNumber: r.VehicleNumber,
		ExtraWorkIDs:  r.ExtraWorkIDs,
		TotalOverride: r.TotalOverride,
	}
	for _, s := range r.Services {
		input.Services = append(input.Services, order.ServiceSelection{
			PackageID:   s.PackageID,
			ArrivalDate: s.ArrivalDate,
			ArrivalTime: s.ArrivalTime,
		})
	}
	for _, p := range r.Products {
		input.Products = append(input.Products, order.ProductSelection{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
		})
	}
	return input
}

type serviceLineResponse struct {
	ID            uint    `json:"id"`
	PackageID     uint    `json:"package_id"`
	PackageName   string  `json:"package_name"`
	ServiceType   string  `json:"service_type"`
	VehicleType   string  `json:"vehicle_type"`
	VehicleNumber string  `json:"vehicle_number"`
	ArrivalDate   *string `json:"arrival_date,omitempty"`
	ArrivalTime   *string `json:"arrival_time,omitempty"`
	UnitPrice     float64 `json:"unit_price"`
}

type productLineResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type extraWorkLineResponse struct {
	ID          uint    `json:"id"`
	ExtraWorkID uint    `json:"extra_work_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
}

type orderResponse struct {
	ID            uint                    `json:"id"`
	CustomerName  *string                 `json:"customer_name,omitempty"`
	CustomerEmail *string                 `json:"customer_email,omitempty"`
	CustomerPhone *string                 `json:"customer_phone,omitempty"`
	BranchID      uint                    `json:"branch_id"`
	VehicleType   string                  `json:"vehicle_type"`
	Status        order.OrderStatus       `json:"status"`
	PaymentStatus order.PaymentStatus     `json:"payment_status"`
	TotalAmount   float64                 `json:"total_amount"`
	OrderedAt     time.Time               `json:"ordered_at"`
	StartedAt     *time.Time              `json:"started_at,omitempty"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
	Services      []serviceLineResponse   `json:"services"`
	Products      []productLineResponse   `json:"products"`
	ExtraWorks    []extraWorkLineResponse `json:"extra_works"`
}

func toOrderResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		BranchID:      o.BranchID,
		VehicleType:   o.VehicleType,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		OrderedAt:     o.OrderedAt,
		StartedAt:     o.StartedAt,
		CompletedAt:   o.CompletedAt,
		Services:      []serviceLineResponse{},
		Products:      []productLineResponse{},
		ExtraWorks:    []extraWorkLineResponse{},
	}
	for _, l := range o.ServiceLines {
		resp.Services = append(resp.Services, serviceLineResponse{
			ID:            l.ID,
			PackageID:     l.PackageID,
			PackageName:   l.PackageName,
			ServiceType:   l.ServiceType,
			VehicleType:   l.VehicleType,
			VehicleNumber: l.VehicleNumber,
			ArrivalDate:   l.ArrivalDate,
			ArrivalTime:   l.ArrivalTime,
			UnitPrice:     l.UnitPrice,
		})
	}
	for _, l := range o.ProductLines {
		resp.Products = append(resp.Products, productLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	for _, l := range o.ExtraWorkLines {
		resp.ExtraWorks = append(resp.ExtraWorks, extraWorkLineResponse{
			ID:          l.ID,
			ExtraWorkID: l.ExtraWorkID,
			Name:        l.Name,
			Price:       l.Price,
		})
	}
	return resp
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filter order.OrderFilterInput

	if s := c.Query("status"); s != "" {
		status := order.OrderStatus(s)
		filter.Status = &status
	}
	if b := c.Query("branch_id"); b != "" {
		id, err := strconv.ParseUint(b, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid branch_id"})
			return
		}
		branchID := uint(id)
		filter.BranchID = &branchID
	}
	if q := c.Query("search"); q != "" {
		filter.Search = &q
	}
	if d := c.Query("date_from"); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date_from, expected YYYY-MM-DD"})
			return
		}
		filter.DateFrom = &t
	}
	if d := c.Query("date_to"); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date_to, expected YYYY-MM-DD"})
			return
		}
		// Inclusive upper bound for a calendar-day filter.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}

	var limit, page *int
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = &n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = &n
		}
	}

	orders, total, err := h.orders.GetOrders(c.Request.Context(), &filter, limit, page)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out, "total": total})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.GetOrderDetail(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	o, err := h.orders.CreateOffline(c.Request.Context(), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

type updateStatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "status is required"})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	o, err := h.orders.UpdateDetails(c.Request.Context(), id, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// checklistItemForm is one checklist entry as submitted by the start-work
// dialog. PhotoIndex points into the uploaded photos field; nil means the
// item was checked but no photo was attached.
type checklistItemForm struct {
	Label      string `json:"label"`
	Category   string `json:"category"`
	Notes      string `json:"notes"`
	CustomName string `json:"custom_name"`
	PhotoIndex *int   `json:"photo_index"`
}

type inspectionRecordResponse struct {
	ID          uint    `json:"id"`
	OrderID     uint    `json:"order_id"`
	Name        string  `json:"name"`
	Notes       *string `json:"notes,omitempty"`
	PhotoURL    string  `json:"photo_url"`
	Provisional bool    `json:"provisional,omitempty"`
}

func toRecordResponses(records []*inspection.Record) []inspectionRecordResponse {
	out := make([]inspectionRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, inspectionRecordResponse{
			ID:          r.ID,
			OrderID:     r.OrderID,
			Name:        r.Name,
			Notes:       r.Notes,
			PhotoURL:    r.PhotoURL,
			Provisional: r.Provisional,
		})
	}
	return out
}

// StartWork accepts the inspection checklist as multipart form data: an
// "items" JSON array plus a "photos" file field referenced by index.
func (h *OrderHandler) StartWork(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to parse multipart form"})
		return
	}

	var items []checklistItemForm
	if raw := c.PostForm("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid items payload"})
			return
		}
	}

	photos, ok := readPhotoFiles(c)
	if !ok {
		return
	}

	checklist := inspection.NewChecklist()
	for _, item := range items {
		checklist.ToggleItem(item.Label, item.Category)
		if item.Notes != "" {
			checklist.SetNotes(item.Label, item.Category, item.Notes)
		}
		if item.CustomName != "" {
			checklist.SetCustomName(item.Label, item.Category, item.CustomName)
		}
		if item.PhotoIndex != nil {
			if *item.PhotoIndex < 0 || *item.PhotoIndex >= len(photos) {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "photo_index out of range"})
				return
			}
			checklist.SetPhoto(item.Label, item.Category, photos[*item.PhotoIndex])
		}
	}

	sub, err := checklist.BuildSubmission()
	if err != nil {
		writeError(c, err)
		return
	}

	records, err := h.orders.StartWork(c.Request.Context(), id, sub)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"records":               toRecordResponses(records),
		"skipped_without_photo": sub.UnattachedCount,
	})
}

func (h *OrderHandler) GetInspections(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	records, err := h.orders.ListInspections(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inspections": toRecordResponses(records)})
}

// confirmationForm is one verified inspection as submitted by the
// complete-work dialog.
type confirmationForm struct {
	InspectionID uint   `json:"inspection_id"`
	Notes        string `json:"notes"`
	PhotoIndex   *int   `json:"photo_index"`
}

// cachedInspectionForm lets the client replay its cached records when the
// server-side fetch returns none, typically right after a start-work whose
// insert produced provisional ids.
type cachedInspectionForm struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Notes    *string `json:"notes,omitempty"`
	PhotoURL string  `json:"photo_url"`
}

// CompleteWork accepts the completion confirmations as multipart form
// data: a "confirmations" JSON array, a "photos" file field referenced by
// index, and an optional "cached_inspections" JSON array.
func (h *OrderHandler) CompleteWork(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to parse multipart form"})
		return
	}

	var confirmations []confirmationForm
	if raw := c.PostForm("confirmations"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &confirmations); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid confirmations payload"})
			return
		}
	}

	var cached []*inspection.Record
	if raw := c.PostForm("cached_inspections"); raw != "" {
		var forms []cachedInspectionForm
		if err := json.Unmarshal([]byte(raw), &forms); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid cached_inspections payload"})
			return
		}
		for _, f := range forms {
			cached = append(cached, &inspection.Record{
				ID:       f.ID,
				OrderID:  id,
				Name:     f.Name,
				Notes:    f.Notes,
				PhotoURL: f.PhotoURL,
			})
		}
	}

	photos, ok := readPhotoFiles(c)
	if !ok {
		return
	}

	fetched, err := h.orders.ListInspections(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	verifier := inspection.NewVerifier(fetched, cached)
	for _, conf := range confirmations {
		if conf.Notes != "" {
			verifier.SetNotes(conf.InspectionID, conf.Notes)
		}
		if conf.PhotoIndex != nil {
			if *conf.PhotoIndex < 0 || *conf.PhotoIndex >= len(photos) {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "photo_index out of range"})
				return
			}
			verifier.SetConfirmationPhoto(conf.InspectionID, photos[*conf.PhotoIndex])
		}
	}

	inputs, err := verifier.Validate()
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.orders.Complete(c.Request.Context(), id, inputs); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order completed"})
}

// readPhotoFiles loads every uploaded "photos" file into memory. Returns
// false after writing the error response.
func readPhotoFiles(c *gin.Context) ([]*inspection.PhotoFile, bool) {
	form := c.Request.MultipartForm
	if form == nil {
		return nil, true
	}

	var photos []*inspection.PhotoFile
	for _, fh := range form.File["photos"] {
		photo, err := readPhotoFile(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read uploaded photo"})
			return nil, false
		}
		photos = append(photos, photo)
	}
	return photos, true
}

func readPhotoFile(fh *multipart.FileHeader) (*inspection.PhotoFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &inspection.PhotoFile{Name: fh.Filename, Data: data}, nil
}
