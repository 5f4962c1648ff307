package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/dto"
)

func formMediaIDs(c *gin.Context) ([]int64, bool) {
	values := c.PostFormArray("delete_media_ids")
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("معرّفات الملفات غير صالحة", "INVALID_PAYLOAD"))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// UpdateCarWash godoc
// @Summary Edit a pending car-wash request
// @Description Patches service type and scheduled date, detaches media by id and accepts new slot photo parts.
// @Tags requests
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/car-wash/{id} [put]
func (h *RequestHandler) UpdateCarWash(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateCarWashRequest

	if isMultipart(c) {
		scheduledDate, err := formDateOnly(c, "scheduled_date")
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("تاريخ الغسيل غير صالح", "INVALID_PAYLOAD"))
			return
		}
		ids, ok := formMediaIDs(c)
		if !ok {
			return
		}
		req = dto.UpdateCarWashRequest{
			ServiceType:    c.PostForm("service_type"),
			ScheduledDate:  scheduledDate,
			DeleteMediaIDs: ids,
		}
		slotFilesMap, cl, err := slotFilesFromForm(c)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		defer closeAll(cl)

		request, err := h.requestService.UpdateCarWash(c.Request.Context(), employee, id, req, slotFilesMap)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.OKMessage("تم تحديث الطلب", request))
		return
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err, "بيانات الطلب غير صالحة")
		return
	}
	request, err := h.requestService.UpdateCarWash(c.Request.Context(), employee, id, req, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("تم تحديث الطلب", request))
}

// UpdateCarInspection godoc
// @Summary Edit a pending car-inspection request
// @Tags requests
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/car-inspection/{id} [put]
func (h *RequestHandler) UpdateCarInspection(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateCarInspectionRequest
	var files []storage.FileInput
	var closers []io.Closer

	if isMultipart(c) {
		inspectionDate, err := formDateOnly(c, "inspection_date")
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("تاريخ الفحص غير صالح", "INVALID_PAYLOAD"))
			return
		}
		ids, ok := formMediaIDs(c)
		if !ok {
			return
		}
		req = dto.UpdateCarInspectionRequest{
			InspectionType: c.PostForm("inspection_type"),
			InspectionDate: inspectionDate,
			DeleteMediaIDs: ids,
		}
		if form, err := c.MultipartForm(); err == nil {
			for _, fh := range form.File["files"] {
				input, closer, err := fileInputFromHeader(fh)
				if err != nil {
					closeAll(closers)
					respondServiceError(c, err)
					return
				}
				files = append(files, input)
				closers = append(closers, closer)
			}
		}
		defer closeAll(closers)
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err, "بيانات الطلب غير صالحة")
		return
	}

	request, err := h.requestService.UpdateCarInspection(c.Request.Context(), employee, id, req, files)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("تم تحديث الطلب", request))
}

// UpdateAdvancePayment godoc
// @Summary Edit a pending advance-payment request
// @Tags requests
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/advance-payment/{id} [put]
func (h *RequestHandler) UpdateAdvancePayment(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateAdvancePaymentRequest
	var image *storage.FileInput

	if isMultipart(c) {
		requested, err := parseOptionalDecimal(c, "requested_amount")
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("المبلغ المطلوب غير صالح", "INVALID_PAYLOAD"))
			return
		}
		installments, err := parseOptionalInt(c, "installments")
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.Fail("عدد الأقساط غير صالح", "INVALID_PAYLOAD"))
			return
		}
		req = dto.UpdateAdvancePaymentRequest{RequestedAmount: requested, Installments: installments}
		if reason, exists := c.GetPostForm("reason"); exists {
			req.Reason = &reason
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

	request, err := h.requestService.UpdateAdvancePayment(c.Request.Context(), employee, id, req, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("تم تحديث الطلب", request))
}

// UpdateInvoice godoc
// @Summary Edit a pending invoice request
// @Tags requests
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/invoice/{id} [put]
func (h *RequestHandler) UpdateInvoice(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	var file *storage.FileInput

	if isMultipart(c) {
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
		req = dto.UpdateInvoiceRequest{Amount: amount, InvoiceDate: invoiceDate}
		if vendor, exists := c.GetPostForm("vendor_name"); exists {
			req.VendorName = &vendor
		}
		input, closer, found, err := optionalFormFile(c, "file")
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if found {
			defer closer.Close()
			file = &input
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err, "بيانات الطلب غير صالحة")
		return
	}

	request, err := h.requestService.UpdateInvoice(c.Request.Context(), employee, id, req, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("تم تحديث الطلب", request))
}
