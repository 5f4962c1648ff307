package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
)

// ConsoleUserRepository reads staff accounts for the web console.
type ConsoleUserRepository struct {
	db *pgxpool.Pool
}

func newPgxConsoleUserRepository(db *pgxpool.Pool) *ConsoleUserRepository {
	return &ConsoleUserRepository{db: db}
}

var _ portsrepo.ConsoleUserRepositoryFacade = (*ConsoleUserRepository)(nil)

func scanConsoleUser(row pgx.Row) (*domain.ConsoleUser, error) {
	var u domain.ConsoleUser
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan console user: %w", err)
	}
	return &u, nil
}

func (r *ConsoleUserRepository) FindConsoleUserByUsername(ctx context.Context, username string) (*domain.ConsoleUser, error) {
	query := `SELECT id, username, password_hash, display_name, is_admin, created_at FROM console_users WHERE username = $1;`
	return scanConsoleUser(r.db.QueryRow(ctx, query, username))
}

func (r *ConsoleUserRepository) FindConsoleUserByID(ctx context.Context, id int64) (*domain.ConsoleUser, error) {
	query := `SELECT id, username, password_hash, display_name, is_admin, created_at FROM console_users WHERE id = $1;`
	return scanConsoleUser(r.db.QueryRow(ctx, query, id))
}
