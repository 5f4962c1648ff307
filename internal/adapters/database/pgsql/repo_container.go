package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository onto one pool.
func NewRepositoryProvider(db *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		RequestRepo:      newPgxRequestRepository(db),
		EmployeeRepo:     newPgxEmployeeRepository(db),
		VehicleRepo:      newPgxVehicleRepository(db),
		NotificationRepo: newPgxNotificationRepository(db),
		LiabilityRepo:    newPgxLiabilityRepository(db),
		ConsoleUserRepo:  newPgxConsoleUserRepository(db),
	}
}
