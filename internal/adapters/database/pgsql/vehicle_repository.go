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

// VehicleRepository reads the fleet-owned vehicle table.
type VehicleRepository struct {
	db *pgxpool.Pool
}

func newPgxVehicleRepository(db *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{db: db}
}

var _ portsrepo.VehicleRepositoryFacade = (*VehicleRepository)(nil)

func (r *VehicleRepository) FindVehicleByID(ctx context.Context, vehicleID int64) (*domain.Vehicle, error) {
	query := `SELECT id, plate_number, make, model, year, is_active FROM vehicles WHERE id = $1;`
	var v domain.Vehicle
	err := r.db.QueryRow(ctx, query, vehicleID).Scan(&v.ID, &v.PlateNumber, &v.Make, &v.Model, &v.Year, &v.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	return &v, nil
}

func (r *VehicleRepository) ListActiveVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT id, plate_number, make, model, year, is_active FROM vehicles WHERE is_active ORDER BY plate_number;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.PlateNumber, &v.Make, &v.Model, &v.Year, &v.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating vehicle rows: %w", rows.Err())
	}
	return vehicles, nil
}
