package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/dto"
)

// Upload godoc
// @Summary Attach files to a pending request
// @Description Multipart parts named files are routed per request type; invalid files are skipped silently.
// @Tags requests
// @Accept mpfd
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 413 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/{id}/upload [post]
func (h *RequestHandler) Upload(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		if isBodyTooLarge(err) {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, dto.Fail("نموذج الملفات غير صالح", "INVALID_PAYLOAD"))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["files[]"]
	}
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, dto.Fail("لم يتم إرفاق أي ملف", "FILE_REQUIRED"))
		return
	}

	files := make([]storage.FileInput, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	for _, fh := range headers {
		input, closer, err := fileInputFromHeader(fh)
		if err != nil {
			closeAll(closers)
			respondServiceError(c, err)
			return
		}
		files = append(files, input)
		closers = append(closers, closer)
	}
	defer closeAll(closers)

	descriptors, err := h.requestService.UploadFiles(c.Request.Context(), employee, id, files)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("تم رفع الملفات", gin.H{"files": descriptors}))
}

// UploadInspectionImage godoc
// @Summary Attach one image to a pending inspection
// @Tags requests
// @Accept mpfd
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /requests/{id}/upload-inspection-image [post]
func (h *RequestHandler) UploadInspectionImage(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	input, closer, found, err := optionalFormFile(c, "file")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !found {
		if input, closer, found, err = optionalFormFile(c, "image"); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	if !found {
		c.JSON(http.StatusBadRequest, dto.Fail("الصورة مطلوبة", "FILE_REQUIRED"))
		return
	}
	defer closer.Close()

	media, err := h.requestService.UploadInspectionImage(c.Request.Context(), employee, id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("تم رفع الصورة", media))
}
