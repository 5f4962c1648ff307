package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/dto"
)

// BearerAuthMiddleware creates a Gin middleware handler that validates the
// mobile bearer token and resolves it to the current employee row. The
// employee must still be ACTIVE at verification time.
func BearerAuthMiddleware(authSvc portssvc.AuthSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("مطلوب تسجيل الدخول", "TOKEN_MISSING"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("صيغة ترويسة التفويض غير صحيحة", "TOKEN_INVALID"))
			return
		}

		employee, err := authSvc.VerifyEmployeeToken(c.Request.Context(), parts[1])
		if err != nil {
			status := http.StatusUnauthorized
			code := "TOKEN_INVALID"
			msg := "رمز الدخول غير صالح"
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				code, msg = "TOKEN_EXPIRED", "انتهت صلاحية رمز الدخول"
			case errors.Is(err, apperrors.ErrInactiveAccount):
				code, msg = "INACTIVE_ACCOUNT", "الحساب غير نشط"
			}
			logger.Warn("Bearer token rejected", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(status, dto.Fail(msg, code))
			return
		}

		enrichedLogger := logger.With(slog.Int64("employee_id", employee.ID))
		ctx := WithEmployee(c.Request.Context(), employee)
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
