package services

import (
	"time"

	"github.com/shopspring/decimal"

	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
	portssvc "github.com/najmfleet/employee_requests_app/internal/core/ports/services"
	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/utils"
)

// ContainerConfig carries the knobs the services need beyond their
// collaborators.
type ContainerConfig struct {
	SessionSecret  string
	TokenIssuer    string
	TokenTTL       time.Duration
	ConsoleTTL     time.Duration
	AdvanceCeiling decimal.Decimal
}

// NewServiceContainer wires every service onto the repository provider and
// the storage adapters.
func NewServiceContainer(
	repos *portsrepo.RepositoryProvider,
	local storage.LocalStore,
	mirror storage.RemoteMirror,
	analytics *utils.PosthogClientWrapper,
	cfg ContainerConfig,
) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Auth:         NewAuthService(repos.EmployeeRepo, repos.ConsoleUserRepo, cfg.SessionSecret, cfg.TokenIssuer, cfg.TokenTTL, cfg.ConsoleTTL),
		Request:      NewRequestService(repos, local, mirror, analytics, cfg.AdvanceCeiling),
		Notification: NewNotificationService(repos.NotificationRepo),
	}
}
