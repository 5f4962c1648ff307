package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
)

// capturingRequestService records the filter passed to ListRequests.
type capturingRequestService struct {
	portssvc.RequestSvcFacade
	lastFilter portsrepo.RequestListFilter
}

func (s *capturingRequestService) ListRequests(ctx context.Context, filter portsrepo.RequestListFilter, page, perPage int) ([]domain.Request, int64, error) {
	s.lastFilter = filter
	return []domain.Request{}, 0, nil
}

// newListTestRouter mounts the request routes behind a stub that injects the
// employee the way BearerAuthMiddleware does.
func newListTestRouter(service portssvc.RequestSvcFacade, employee *domain.Employee) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api/v1", func(c *gin.Context) {
		c.Request = c.Request.WithContext(middleware.WithEmployee(c.Request.Context(), employee))
		c.Next()
	})
	registerRequestRoutes(group, service)
	return r
}

func TestListCarWash_AppliesVehicleAndDateFilters(t *testing.T) {
	service := &capturingRequestService{}
	employee := &domain.Employee{ID: 7, EmployeeCode: "EMP-007", Status: domain.EmployeeActive}
	r := newListTestRouter(service, employee)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/requests/car-wash?vehicle_id=12&date_from=2026-08-01&date_to=2026-08-15&status=pending", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	f := service.lastFilter
	require.NotNil(t, f.OwnerID)
	assert.Equal(t, int64(7), *f.OwnerID)
	require.NotNil(t, f.Type)
	assert.Equal(t, domain.TypeCarWash, *f.Type)
	require.NotNil(t, f.Status)
	assert.Equal(t, domain.StatusPending, *f.Status)
	require.NotNil(t, f.VehicleID)
	assert.Equal(t, int64(12), *f.VehicleID)
	require.NotNil(t, f.DateFrom)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), f.DateFrom.UTC())
	// date_to is inclusive for the caller, exclusive in the query.
	require.NotNil(t, f.DateTo)
	assert.Equal(t, time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC), f.DateTo.UTC())
}

func TestListCarInspection_PinsRequestType(t *testing.T) {
	service := &capturingRequestService{}
	employee := &domain.Employee{ID: 7, EmployeeCode: "EMP-007", Status: domain.EmployeeActive}
	r := newListTestRouter(service, employee)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/car-inspection", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, service.lastFilter.Type)
	assert.Equal(t, domain.TypeCarInspection, *service.lastFilter.Type)
}

func TestListCarWash_RejectsBadVehicleID(t *testing.T) {
	service := &capturingRequestService{}
	employee := &domain.Employee{ID: 7, EmployeeCode: "EMP-007", Status: domain.EmployeeActive}
	r := newListTestRouter(service, employee)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests/car-wash?vehicle_id=zero", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
