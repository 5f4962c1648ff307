package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/dto"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
)

// respondServiceError maps service errors onto the envelope with a stable
// Arabic message and machine code. Status decisions live here only; the
// services never see HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail("الطلب غير موجود", "NOT_FOUND"))
	case errors.Is(err, apperrors.ErrUnknownVehicle):
		c.JSON(http.StatusBadRequest, dto.Fail("المركبة غير موجودة", "UNKNOWN_VEHICLE"))
	case errors.Is(err, apperrors.ErrUnsupportedMedia):
		c.JSON(http.StatusBadRequest, dto.Fail("نوع الملف غير مدعوم", "UNSUPPORTED_MEDIA"))
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		c.JSON(http.StatusBadRequest, dto.Fail("تم تجاوز الحد الأقصى للملفات", "QUOTA_EXCEEDED"))
	case errors.Is(err, apperrors.ErrNotEditable):
		c.JSON(http.StatusBadRequest, dto.Fail("لا يمكن تعديل الطلب بعد مراجعته", "NOT_EDITABLE"))
	case errors.Is(err, apperrors.ErrAlreadyReviewed):
		c.JSON(http.StatusBadRequest, dto.Fail("تمت مراجعة الطلب مسبقاً", "ALREADY_REVIEWED"))
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.Fail("بيانات الطلب غير صالحة", "INVALID_PAYLOAD"))
	case errors.Is(err, apperrors.ErrInactiveAccount):
		c.JSON(http.StatusUnauthorized, dto.Fail("الحساب غير نشط", "INACTIVE_ACCOUNT"))
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.Fail("بيانات الدخول غير صحيحة", "UNAUTHORIZED"))
	case isBodyTooLarge(err):
		c.JSON(http.StatusRequestEntityTooLarge, dto.Fail("حجم الملف يتجاوز الحد المسموح", "PAYLOAD_TOO_LARGE"))
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Unhandled service error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, dto.Fail("خطأ داخلي في الخادم", "INTERNAL_ERROR"))
	}
}

// respondBindingError maps a bind failure onto the envelope. Field-level
// validation failures name the offending field so mobile clients can
// highlight it without parsing the Arabic message.
func respondBindingError(c *gin.Context, err error, message string) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		message = fmt.Sprintf("%s (%s)", message, strings.ToLower(vErrs[0].Field()))
	}
	c.JSON(http.StatusBadRequest, dto.Fail(message, "INVALID_PAYLOAD"))
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
