package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/dto"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
)

// consoleSessionMaxAge bounds the session cookie lifetime in seconds. The
// embedded JWT expires on its own schedule; the cookie just mirrors it.
const consoleSessionMaxAge = 12 * 60 * 60

// ConsoleHandler renders the staff review console.
type ConsoleHandler struct {
	authService    portssvc.AuthSvcFacade
	requestService portssvc.RequestSvcFacade
}

// NewConsoleHandler creates a new ConsoleHandler.
func NewConsoleHandler(authService portssvc.AuthSvcFacade, requestService portssvc.RequestSvcFacade) *ConsoleHandler {
	return &ConsoleHandler{authService: authService, requestService: requestService}
}

// registerConsoleRoutes sets up the session-authenticated console routes.
func registerConsoleRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := NewConsoleHandler(services.Auth, services.Request)

	console := r.Group("/console")
	{
		console.GET("/login", h.LoginPage)
		console.POST("/login", middleware.RateLimit(newLoginLimiter()), h.Login)
		console.POST("/logout", h.Logout)

		authed := console.Group("", middleware.ConsoleSessionMiddleware(services.Auth))
		{
			authed.GET("/requests", h.ListRequests)
			authed.GET("/requests/:id", h.RequestDetail)

			review := authed.Group("", middleware.AdminOnlyMiddleware())
			{
				review.POST("/requests/:id/approve", h.Approve)
				review.POST("/requests/:id/reject", h.Reject)
			}
		}
	}

	r.GET("/console", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/console/requests")
	})
}

// LoginPage renders the login form.
func (h *ConsoleHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login validates the staff credentials and sets the session cookie.
func (h *ConsoleHandler) Login(c *gin.Context) {
	var req dto.ConsoleLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": "اسم المستخدم وكلمة المرور مطلوبان"})
		return
	}

	_, token, err := h.authService.LoginConsoleUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Warn("Console login failed", slog.String("username", req.Username))
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "بيانات الدخول غير صحيحة"})
		return
	}

	c.SetCookie(middleware.SessionCookieName, token, consoleSessionMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/console/requests")
}

// Logout clears the session cookie.
func (h *ConsoleHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/console/login")
}

// ListRequests renders the filterable request table.
func (h *ConsoleHandler) ListRequests(c *gin.Context) {
	user, _ := middleware.GetConsoleUserFromContext(c)
	page, perPage := parsePagination(c)

	filter := portsrepo.RequestListFilter{}
	statusQuery := strings.ToUpper(c.Query("status"))
	if statusQuery != "" {
		status := domain.RequestStatus(statusQuery)
		if status.Valid() {
			filter.Status = &status
		}
	}
	typeQuery := strings.ToUpper(c.Query("type"))
	if typeQuery != "" {
		reqType := domain.RequestType(typeQuery)
		if reqType.Valid() {
			filter.Type = &reqType
		}
	}

	items, total, err := h.requestService.ListRequests(c.Request.Context(), filter, page, perPage)
	if err != nil {
		h.renderError(c, err)
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	c.HTML(http.StatusOK, "requests.html", gin.H{
		"User":       user,
		"Requests":   items,
		"Statuses":   []domain.RequestStatus{domain.StatusPending, domain.StatusApproved, domain.StatusRejected},
		"Types":      domain.KnownRequestTypes,
		"Status":     statusQuery,
		"Type":       typeQuery,
		"Page":       page,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"TotalPages": totalPages,
		"Total":      total,
	})
}

// RequestDetail renders one request with its extension and media.
func (h *ConsoleHandler) RequestDetail(c *gin.Context) {
	user, _ := middleware.GetConsoleUserFromContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "الطلب غير موجود"})
		return
	}

	request, err := h.requestService.GetRequest(c.Request.Context(), id, nil)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "request_detail.html", gin.H{
		"User":    user,
		"Request": request,
	})
}

// Approve transitions a pending request to APPROVED.
func (h *ConsoleHandler) Approve(c *gin.Context) {
	user, _ := middleware.GetConsoleUserFromContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "الطلب غير موجود"})
		return
	}

	if _, err := h.requestService.ApproveRequest(c.Request.Context(), user.ID, id, c.PostForm("admin_notes")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/console/requests/"+strconv.FormatInt(id, 10))
}

// Reject transitions a pending request to REJECTED; the reason is mandatory.
func (h *ConsoleHandler) Reject(c *gin.Context) {
	user, _ := middleware.GetConsoleUserFromContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "الطلب غير موجود"})
		return
	}

	reason := strings.TrimSpace(c.PostForm("rejection_reason"))
	if reason == "" {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "سبب الرفض مطلوب"})
		return
	}

	if _, err := h.requestService.RejectRequest(c.Request.Context(), user.ID, id, reason); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/console/requests/"+strconv.FormatInt(id, 10))
}

func (h *ConsoleHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "الطلب غير موجود"})
	case errors.Is(err, apperrors.ErrAlreadyReviewed):
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "تمت مراجعة هذا الطلب مسبقاً"})
	case errors.Is(err, apperrors.ErrValidation):
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "البيانات المدخلة غير صالحة"})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Console request failed", slog.String("error", err.Error()))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "حدث خطأ غير متوقع"})
	}
}
