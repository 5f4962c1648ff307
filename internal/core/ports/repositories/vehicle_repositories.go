package repositories

import (
	"context"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// VehicleRepositoryFacade reads the fleet-owned vehicle records.
type VehicleRepositoryFacade interface {
	FindVehicleByID(ctx context.Context, vehicleID int64) (*domain.Vehicle, error)
	ListActiveVehicles(ctx context.Context) ([]domain.Vehicle, error)
}
