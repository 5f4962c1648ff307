package repositories

import (
	"context"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// ConsoleUserRepositoryFacade reads staff accounts for the web console.
type ConsoleUserRepositoryFacade interface {
	FindConsoleUserByUsername(ctx context.Context, username string) (*domain.ConsoleUser, error)
	FindConsoleUserByID(ctx context.Context, id int64) (*domain.ConsoleUser, error)
}
