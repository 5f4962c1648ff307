package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// employeeKey is the key used to store the authenticated employee in the
// request context.
const employeeKey = contextKey("employee")

// consoleUserKey is the key used to store the authenticated console user.
const consoleUserKey = contextKey("consoleUser")

// WithEmployee stores the authenticated employee on the context.
func WithEmployee(ctx context.Context, employee *domain.Employee) context.Context {
	return context.WithValue(ctx, employeeKey, employee)
}

// GetEmployeeFromContext retrieves the authenticated employee set by
// BearerAuthMiddleware. It returns the employee and whether it was found.
func GetEmployeeFromContext(c *gin.Context) (*domain.Employee, bool) {
	emp, ok := c.Request.Context().Value(employeeKey).(*domain.Employee)
	return emp, ok && emp != nil
}

// GetConsoleUserFromContext retrieves the authenticated staff account set by
// ConsoleSessionMiddleware.
func GetConsoleUserFromContext(c *gin.Context) (*domain.ConsoleUser, bool) {
	user, ok := c.Request.Context().Value(consoleUserKey).(*domain.ConsoleUser)
	return user, ok && user != nil
}
