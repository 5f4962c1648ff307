package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/dto"
)

// carWashSlotFields maps the stable multipart field names onto slots.
var carWashSlotFields = map[string]domain.MediaSlot{
	"photo_plate":      domain.SlotPlate,
	"photo_front":      domain.SlotFront,
	"photo_back":       domain.SlotBack,
	"photo_right_side": domain.SlotRight,
	"photo_left_side":  domain.SlotLeft,
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func fileInputFromHeader(fh *multipart.FileHeader) (storage.FileInput, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return storage.FileInput{}, nil, err
	}
	return storage.FileInput{Name: fh.Filename, Size: fh.Size, Reader: f}, f, nil
}

// optionalFormFile opens a named file part, returning ok=false when absent.
func optionalFormFile(c *gin.Context, field string) (storage.FileInput, io.Closer, bool, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return storage.FileInput{}, nil, false, nil
	}
	input, closer, err := fileInputFromHeader(fh)
	if err != nil {
		return storage.FileInput{}, nil, false, err
	}
	return input, closer, true, nil
}

// slotFilesFromForm collects the named car-wash photo parts.
func slotFilesFromForm(c *gin.Context) (map[domain.MediaSlot]storage.FileInput, []io.Closer, error) {
	files := map[domain.MediaSlot]storage.FileInput{}
	closers := []io.Closer{}
	for field, slot := range carWashSlotFields {
		input, closer, ok, err := optionalFormFile(c, field)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		if ok {
			files[slot] = input
			closers = append(closers, closer)
		}
	}
	return files, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, cl := range closers {
		cl.Close()
	}
}

func formDateOnly(c *gin.Context, field string) (*dto.DateOnly, error) {
	t, err := dto.ParseDateOnly(c.PostForm(field))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	return &dto.DateOnly{Time: *t}, nil
}

// CreateAdvancePayment godoc
// @Summary Create an advance-payment request
// @Description Accepts JSON or multipart; the multipart form may carry an optional supporting image part named image.
// @Tags requests
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/create-advance-payment [post]
func (h *RequestHandler) CreateAdvancePayment(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}

	var req dto.CreateAdvancePaymentRequest
	var image *storage.FileInput

	if isMultipart(c) {
		requested, err := parseOptionalDecimal(c, "requested_amount")
		if err != nil || requested == nil {
			c.JSON(http.StatusBadRequest, dto.Fail("المبلغ المطلوب غير صالح", "INVALID_PAYLOAD"))
			return
		}
		installments, err := parseOptionalInt(c, "installments")
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("عدد الأقساط غير صالح", "INVALID_PAYLOAD"))
			return
		}
		req = dto.CreateAdvancePaymentRequest{
			RequestedAmount: *requested,
			Reason:          c.PostForm("reason"),
			Installments:    installments,
		}
		input, closer, found, err := optionalFormFile(c, "image")
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if found {
			defer closer.Close()
			image = &input
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err, "بيانات الطلب غير صالحة")
		return
	}

	request, err := h.requestService.CreateAdvancePayment(c.Request.Context(), employee, req, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKMessage("تم إنشاء طلب السلفة بنجاح", request))
}

// CreateInvoice godoc
// @Summary Create an invoice request
// @Description Multipart only; requires exactly one file part named file (image or PDF).
// @Tags requests
// @Accept mpfd
// @Produce json
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/create-invoice [post]
func (h *RequestHandler) CreateInvoice(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}

	amount, err := parseOptionalDecimal(c, "amount")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("المبلغ غير صالح", "INVALID_PAYLOAD"))
		return
	}
	invoiceDate, err := formDateOnly(c, "invoice_date")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("تاريخ الفاتورة غير صالح", "INVALID_PAYLOAD"))
		return
	}
	req := dto.CreateInvoiceRequest{
		VendorName:  c.PostForm("vendor_name"),
		Amount:      amount,
		InvoiceDate: invoiceDate,
		Description: c.PostForm("description"),
	}

	input, closer, found, err := optionalFormFile(c, "file")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusBadRequest, dto.Fail("ملف الفاتورة مطلوب", "FILE_REQUIRED"))
		return
	}
	defer closer.Close()

	request, err := h.requestService.CreateInvoice(c.Request.Context(), employee, req, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKMessage("تم إنشاء طلب الفاتورة بنجاح", request))
}

// CreateCarWash godoc
// @Summary Create a car-wash request
// @Description Multipart; accepts any subset of the five slot photo parts photo_plate, photo_front, photo_back, photo_right_side, photo_left_side.
// @Tags requests
// @Accept mpfd
// @Produce json
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/create-car-wash [post]
func (h *RequestHandler) CreateCarWash(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}

	vehicleID, err := strconv.ParseInt(c.PostForm("vehicle_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("المركبة مطلوبة", "INVALID_PAYLOAD"))
		return
	}
	scheduledDate, err := formDateOnly(c, "scheduled_date")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("تاريخ الغسيل غير صالح", "INVALID_PAYLOAD"))
		return
	}
	req := dto.CreateCarWashRequest{
		VehicleID:     vehicleID,
		ServiceType:   c.PostForm("service_type"),
		ScheduledDate: scheduledDate,
		Description:   c.PostForm("description"),
	}

	slotFiles, closers, err := slotFilesFromForm(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer closeAll(closers)

	request, err := h.requestService.CreateCarWash(c.Request.Context(), employee, req, slotFiles)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKMessage("تم إنشاء طلب الغسيل بنجاح", request))
}

// CreateCarInspection godoc
// @Summary Create a car-inspection request
// @Description Creates an empty inspection; media are attached through the upload endpoints afterwards.
// @Tags requests
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/create-car-inspection [post]
func (h *RequestHandler) CreateCarInspection(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}

	var req dto.CreateCarInspectionRequest
	if isMultipart(c) || c.ContentType() == "application/x-www-form-urlencoded" {
		vehicleID, err := strconv.ParseInt(c.PostForm("vehicle_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("المركبة مطلوبة", "INVALID_PAYLOAD"))
			return
		}
		inspectionDate, err := formDateOnly(c, "inspection_date")
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("تاريخ الفحص غير صالح", "INVALID_PAYLOAD"))
			return
		}
		req = dto.CreateCarInspectionRequest{
			VehicleID:      vehicleID,
			InspectionType: c.PostForm("inspection_type"),
			InspectionDate: inspectionDate,
			Description:    c.PostForm("description"),
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err, "بيانات الطلب غير صالحة")
		return
	}

	request, err := h.requestService.CreateCarInspection(c.Request.Context(), employee, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OKMessage("تم إنشاء طلب الفحص بنجاح", request))
}
