package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
)

// SessionCookieName is the console session cookie.
const SessionCookieName = "era_session"

// ConsoleSessionMiddleware authenticates staff console requests from the
// signed session cookie. Unauthenticated requests are redirected to the
// login page.
func ConsoleSessionMiddleware(authSvc portssvc.AuthSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.Redirect(http.StatusFound, "/console/login")
			c.Abort()
			return
		}

		user, err := authSvc.VerifyConsoleToken(c.Request.Context(), cookie)
		if err != nil {
			logger.Warn("Console session rejected", slog.String("error", err.Error()))
			c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/console/login")
			c.Abort()
			return
		}

		enrichedLogger := logger.With(slog.String("console_user", user.Username))
		ctx := context.WithValue(c.Request.Context(), consoleUserKey, user)
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AdminOnlyMiddleware guards review operations. The service never consults
// the caller role; the adapter enforces it here.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetConsoleUserFromContext(c)
		if !ok || !user.IsAdmin {
			c.HTML(http.StatusForbidden, "error.html", gin.H{"Message": "هذه الصفحة متاحة للمشرفين فقط"})
			c.Abort()
			return
		}
		c.Next()
	}
}
