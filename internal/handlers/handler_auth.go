package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/dto"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
)

// AuthHandler handles mobile authentication.
type AuthHandler struct {
	authService portssvc.AuthSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService portssvc.AuthSvcFacade) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// loginRateLimit throttles credential guessing on the login endpoints:
// 5 attempts per minute per IP.
const loginRateLimit = "5-M"

// newLoginLimiter builds an in-memory IP limiter for a login endpoint.
func newLoginLimiter() *limiter.Limiter {
	rate, _ := limiter.NewRateFromFormatted(loginRateLimit)
	return limiter.New(memory.NewStore(), rate)
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.Auth)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.RateLimit(newLoginLimiter()), h.Login)
	}
}

// Login godoc
// @Summary Employee login
// @Description Authenticates an employee by employee code and national id and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.MobileLoginRequest true "Credential pair"
// @Success 200 {object} dto.MobileLoginResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.MobileLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err, "رقم الموظف ورقم الهوية مطلوبان")
		return
	}

	employee, token, err := h.authService.LoginEmployee(c.Request.Context(), req.EmployeeID, req.NationalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MobileLoginResponse{
		Success:  true,
		Token:    token,
		Employee: dto.ToEmployeeResponse(employee),
	})
}
