package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/dto"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
)

// RequestHandler exposes the request lifecycle over the mobile JSON API.
type RequestHandler struct {
	requestService portssvc.RequestSvcFacade
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService portssvc.RequestSvcFacade) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// registerRequestRoutes sets up the authenticated request routes.
func registerRequestRoutes(rg *gin.RouterGroup, requestService portssvc.RequestSvcFacade) {
	h := NewRequestHandler(requestService)

	requests := rg.Group("/requests")
	{
		requests.GET("", h.List)
		requests.GET("/statistics", h.Statistics)
		requests.GET("/car-wash", h.ListCarWash)
		requests.GET("/car-inspection", h.ListCarInspection)
		requests.GET("/:id", h.Get)
		requests.POST("", h.CreateGeneric)
		requests.POST("/create-advance-payment", h.CreateAdvancePayment)
		requests.POST("/create-invoice", h.CreateInvoice)
		requests.POST("/create-car-wash", h.CreateCarWash)
		requests.POST("/create-car-inspection", h.CreateCarInspection)
		requests.POST("/:id/upload", h.Upload)
		requests.POST("/:id/upload-inspection-image", h.UploadInspectionImage)
		requests.PUT("/car-wash/:id", h.UpdateCarWash)
		requests.PUT("/car-inspection/:id", h.UpdateCarInspection)
		requests.PUT("/advance-payment/:id", h.UpdateAdvancePayment)
		requests.PUT("/invoice/:id", h.UpdateInvoice)
		requests.DELETE("/:id", h.Delete)
	}

	rg.GET("/vehicles", h.ListVehicles)
	rg.GET("/employee/liabilities", h.ListLiabilities)
	rg.GET("/employee/financial-summary", h.FinancialSummary)
}

// registerPublicRequestRoutes sets up the unauthenticated request routes.
func registerPublicRequestRoutes(r *gin.Engine, requestService portssvc.RequestSvcFacade) {
	h := NewRequestHandler(requestService)
	r.GET("/api/v1/requests/types", h.Types)
	r.GET("/api/v1/public/requests/:id", h.PublicGet)
}

func currentEmployee(c *gin.Context) (*domain.Employee, bool) {
	employee, ok := middleware.GetEmployeeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("مطلوب تسجيل الدخول", "TOKEN_MISSING"))
	}
	return employee, ok
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.Fail("معرّف غير صالح", "INVALID_ID"))
		return 0, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return page, perPage
}

// applyListFilters parses the shared list query parameters (status,
// vehicle_id, date_from, date_to) into the filter. Dates are calendar days;
// date_to is inclusive, so it maps onto the following midnight. Reports false
// after writing the error response when a value is invalid.
func applyListFilters(c *gin.Context, filter *portsrepo.RequestListFilter) bool {
	if v := strings.ToUpper(c.Query("status")); v != "" {
		status := domain.RequestStatus(v)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, dto.Fail("حالة غير معروفة", "INVALID_STATUS"))
			return false
		}
		filter.Status = &status
	}
	if v := c.Query("vehicle_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, dto.Fail("معرّف المركبة غير صالح", "INVALID_VEHICLE_ID"))
			return false
		}
		filter.VehicleID = &id
	}
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("تاريخ البداية غير صالح", "INVALID_DATE_FROM"))
			return false
		}
		filter.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("تاريخ النهاية غير صالح", "INVALID_DATE_TO"))
			return false
		}
		end := t.Add(24 * time.Hour)
		filter.DateTo = &end
	}
	return true
}

// List godoc
// @Summary List own requests
// @Description Returns the caller's requests, newest first, filtered by status and type.
// @Tags requests
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Page size (max 100)"
// @Param status query string false "Status filter"
// @Param type query string false "Type filter"
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	filter := portsrepo.RequestListFilter{OwnerID: &employee.ID}
	if v := strings.ToUpper(c.Query("type")); v != "" {
		reqType := domain.RequestType(v)
		if !reqType.Valid() {
			c.JSON(http.StatusBadRequest, dto.Fail("نوع طلب غير معروف", "INVALID_TYPE"))
			return
		}
		filter.Type = &reqType
	}
	if !applyListFilters(c, &filter) {
		return
	}

	items, total, err := h.requestService.ListRequests(c.Request.Context(), filter, page, perPage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.RequestListResponse{
		Requests:   items,
		Pagination: dto.NewPagination(page, perPage, total),
	}))
}

// listTyped serves the per-type list views with the vehicle and date filters.
func (h *RequestHandler) listTyped(c *gin.Context, reqType domain.RequestType) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	page, perPage := parsePagination(c)

	filter := portsrepo.RequestListFilter{OwnerID: &employee.ID, Type: &reqType}
	if !applyListFilters(c, &filter) {
		return
	}

	items, total, err := h.requestService.ListRequests(c.Request.Context(), filter, page, perPage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.RequestListResponse{
		Requests:   items,
		Pagination: dto.NewPagination(page, perPage, total),
	}))
}

// ListCarWash godoc
// @Summary List own car wash requests
// @Description Returns the caller's car wash requests, filterable by vehicle and date range.
// @Tags requests
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Page size (max 100)"
// @Param status query string false "Status filter"
// @Param vehicle_id query int false "Vehicle filter"
// @Param date_from query string false "Created on or after (YYYY-MM-DD)"
// @Param date_to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/car-wash [get]
func (h *RequestHandler) ListCarWash(c *gin.Context) {
	h.listTyped(c, domain.TypeCarWash)
}

// ListCarInspection godoc
// @Summary List own car inspection requests
// @Description Returns the caller's car inspection requests, filterable by vehicle and date range.
// @Tags requests
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Page size (max 100)"
// @Param status query string false "Status filter"
// @Param vehicle_id query int false "Vehicle filter"
// @Param date_from query string false "Created on or after (YYYY-MM-DD)"
// @Param date_to query string false "Created on or before (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/car-inspection [get]
func (h *RequestHandler) ListCarInspection(c *gin.Context) {
	h.listTyped(c, domain.TypeCarInspection)
}

// Get godoc
// @Summary Get one request
// @Description Returns one of the caller's requests with its extension and media. Foreign requests read as not found.
// @Tags requests
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	request, err := h.requestService.GetRequest(c.Request.Context(), id, &employee.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(request))
}

// CreateGeneric godoc
// @Summary Create a request
// @Description Creates a request of any type from a JSON payload; type-specific fields go under details.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Request payload"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests [post]
func (h *RequestHandler) CreateGeneric(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err, "بيانات الطلب غير صالحة")
		return
	}

	request, err := h.requestService.CreateGeneric(c.Request.Context(), employee, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKMessage("تم إنشاء الطلب بنجاح", request))
}

// Delete godoc
// @Summary Delete a pending request
// @Tags requests
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/{id} [delete]
func (h *RequestHandler) Delete(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.requestService.DeleteRequest(c.Request.Context(), employee, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("تم حذف الطلب", nil))
}

// Statistics godoc
// @Summary Own request counts by status
// @Tags requests
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/statistics [get]
func (h *RequestHandler) Statistics(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	stats, err := h.requestService.Statistics(c.Request.Context(), employee.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(stats))
}

// Types godoc
// @Summary Request type vocabulary
// @Description Public; returns the four request types with Arabic labels.
// @Tags requests
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /requests/types [get]
func (h *RequestHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK(dto.RequestTypes()))
}

// PublicGet godoc
// @Summary Public request lookup
// @Description Unauthenticated, sanitized view: no owner data, reviewer identity or notes.
// @Tags requests
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /public/requests/{id} [get]
func (h *RequestHandler) PublicGet(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	request, err := h.requestService.GetRequest(c.Request.Context(), id, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToPublicRequestResponse(request)))
}

// ListVehicles godoc
// @Summary List active fleet vehicles
// @Tags vehicles
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /vehicles [get]
func (h *RequestHandler) ListVehicles(c *gin.Context) {
	if _, ok := currentEmployee(c); !ok {
		return
	}
	vehicles, err := h.requestService.ListVehicles(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(vehicles))
}

// ListLiabilities godoc
// @Summary Own liabilities with totals
// @Tags employee
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /employee/liabilities [get]
func (h *RequestHandler) ListLiabilities(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	resp, err := h.requestService.ListLiabilities(c.Request.Context(), employee.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(resp))
}

// FinancialSummary godoc
// @Summary Own financial overview
// @Tags employee
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /employee/financial-summary [get]
func (h *RequestHandler) FinancialSummary(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	resp, err := h.requestService.FinancialSummary(c.Request.Context(), employee.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(resp))
}

// parseOptionalDecimal reads a decimal form field, nil when absent.
func parseOptionalDecimal(c *gin.Context, field string) (*decimal.Decimal, error) {
	v := c.PostForm(field)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseOptionalInt reads an integer form field, nil when absent.
func parseOptionalInt(c *gin.Context, field string) (*int, error) {
	v := c.PostForm(field)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
