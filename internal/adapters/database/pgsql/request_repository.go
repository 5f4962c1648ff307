package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	portsrepo "github.com/najmfleet/employee_requests_app/internal/core/ports/repositories"
)

const maxRequestsPerPage = 100

// RequestRepository persists the polymorphic request aggregate: the
// employee_requests row plus exactly one extension row and its media.
type RequestRepository struct {
	BaseRepository
}

func newPgxRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.RequestRepositoryWithTx = (*RequestRepository)(nil)

const requestColumns = `id, employee_id, request_type, status, title, description, amount,
	drive_folder_id, drive_folder_url, reviewed_by, reviewed_at, admin_notes, rejection_reason,
	created_at, updated_at`

func scanRequestRow(row pgx.Row, r *domain.Request) error {
	return row.Scan(
		&r.ID, &r.EmployeeID, &r.Type, &r.Status, &r.Title, &r.Description, &r.Amount,
		&r.RemoteFolderID, &r.RemoteFolderURL, &r.ReviewerID, &r.ReviewedAt, &r.AdminNotes, &r.RejectionReason,
		&r.CreatedAt, &r.UpdatedAt,
	)
}

// --- reads ---

func (r *RequestRepository) FindRequestByID(ctx context.Context, requestID int64, ownerID *int64) (*domain.Request, error) {
	return findRequest(ctx, r.Pool, requestID, ownerID, false)
}

func (r *RequestRepository) FindRequestForUpdate(ctx context.Context, tx pgx.Tx, requestID int64) (*domain.Request, error) {
	return findRequest(ctx, tx, requestID, nil, true)
}

func findRequest(ctx context.Context, q queryer, requestID int64, ownerID *int64, forUpdate bool) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM employee_requests WHERE id = $1`
	args := []any{requestID}
	if ownerID != nil {
		query += ` AND employee_id = $2`
		args = append(args, *ownerID)
	}
	if forUpdate {
		query += ` FOR UPDATE`
	}
	query += `;`

	var req domain.Request
	if err := scanRequestRow(q.QueryRow(ctx, query, args...), &req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	if err := loadExtensions(ctx, q, []*domain.Request{&req}); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) ListRequests(ctx context.Context, filter portsrepo.RequestListFilter, page, perPage int) ([]domain.Request, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > maxRequestsPerPage {
		perPage = maxRequestsPerPage
	}

	conditions := []string{}
	args := []any{}
	addCond := func(expr string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}
	if filter.OwnerID != nil {
		addCond("employee_id = $%d", *filter.OwnerID)
	}
	if filter.Status != nil {
		addCond("status = $%d", *filter.Status)
	}
	if filter.Type != nil {
		addCond("request_type = $%d", *filter.Type)
	}
	if filter.VehicleID != nil {
		addCond(`id IN (
			SELECT request_id FROM car_wash_requests WHERE vehicle_id = $%d
			UNION
			SELECT request_id FROM car_inspection_requests WHERE vehicle_id = $%[1]d)`, *filter.VehicleID)
	}
	if filter.DateFrom != nil {
		addCond("created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCond("created_at < $%d", *filter.DateTo)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM employee_requests` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	listQuery := `SELECT ` + requestColumns + ` FROM employee_requests` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.Pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.Request{}
	for rows.Next() {
		var req domain.Request
		if err := scanRequestRow(rows, &req); err != nil {
			return nil, 0, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, req)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating request rows: %w", rows.Err())
	}

	refs := make([]*domain.Request, len(requests))
	for i := range requests {
		refs[i] = &requests[i]
	}
	if err := loadExtensions(ctx, r.Pool, refs); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *RequestRepository) CountRequestsByStatus(ctx context.Context, ownerID int64) (map[domain.RequestStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM employee_requests WHERE employee_id = $1 GROUP BY status;`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}
	defer rows.Close()

	counts := map[domain.RequestStatus]int64{}
	for rows.Next() {
		var status domain.RequestStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", rows.Err())
	}
	return counts, nil
}

// SumPendingAdvances aggregates in SQL so the total is exact regardless of
// how many pending advances the employee has.
func (r *RequestRepository) SumPendingAdvances(ctx context.Context, employeeID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(a.requested_amount), 0)
		FROM employee_requests r
		JOIN advance_payment_requests a ON a.request_id = r.id
		WHERE r.employee_id = $1 AND r.status = 'PENDING';`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, employeeID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum pending advances: %w", err)
	}
	return total, nil
}

// ListRequestsWithPendingMirrors finds requests carrying at least one local
// attachment that never made it to the remote store, oldest first.
func (r *RequestRepository) ListRequestsWithPendingMirrors(ctx context.Context, limit int) ([]domain.Request, error) {
	if limit < 1 {
		limit = 50
	}
	query := `SELECT ` + requestColumns + ` FROM employee_requests er
		WHERE EXISTS (
			SELECT 1 FROM invoice_requests i
			WHERE i.request_id = er.id AND i.local_file_path IS NOT NULL AND i.drive_file_id IS NULL
			UNION ALL
			SELECT 1 FROM advance_payment_requests a
			WHERE a.request_id = er.id AND a.local_file_path IS NOT NULL AND a.drive_file_id IS NULL
			UNION ALL
			SELECT 1 FROM car_wash_requests w
			JOIN car_wash_media m ON m.wash_request_id = w.id
			WHERE w.request_id = er.id AND m.local_path IS NOT NULL AND m.drive_file_id IS NULL
			UNION ALL
			SELECT 1 FROM car_inspection_requests ci
			JOIN car_inspection_media cm ON cm.inspection_request_id = ci.id
			WHERE ci.request_id = er.id AND cm.local_path IS NOT NULL AND cm.upload_status <> 'COMPLETED'
		)
		ORDER BY er.created_at, er.id
		LIMIT $1;`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending mirrors: %w", err)
	}
	defer rows.Close()

	requests := []domain.Request{}
	for rows.Next() {
		var req domain.Request
		if err := scanRequestRow(rows, &req); err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, req)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", rows.Err())
	}

	refs := make([]*domain.Request, len(requests))
	for i := range requests {
		refs[i] = &requests[i]
	}
	if err := loadExtensions(ctx, r.Pool, refs); err != nil {
		return nil, err
	}
	return requests, nil
}

// --- eager loading ---

// loadExtensions batch-loads the matching extension row (and media) for each
// request, grouping ids by type so a list page costs a fixed number of queries.
func loadExtensions(ctx context.Context, q queryer, requests []*domain.Request) error {
	byType := map[domain.RequestType][]int64{}
	byID := map[int64]*domain.Request{}
	for _, req := range requests {
		byType[req.Type] = append(byType[req.Type], req.ID)
		byID[req.ID] = req
	}

	if ids := byType[domain.TypeInvoice]; len(ids) > 0 {
		if err := loadInvoiceExtensions(ctx, q, ids, byID); err != nil {
			return err
		}
	}
	if ids := byType[domain.TypeAdvancePayment]; len(ids) > 0 {
		if err := loadAdvanceExtensions(ctx, q, ids, byID); err != nil {
			return err
		}
	}
	if ids := byType[domain.TypeCarWash]; len(ids) > 0 {
		if err := loadCarWashExtensions(ctx, q, ids, byID); err != nil {
			return err
		}
	}
	if ids := byType[domain.TypeCarInspection]; len(ids) > 0 {
		if err := loadInspectionExtensions(ctx, q, ids, byID); err != nil {
			return err
		}
	}
	return nil
}

func loadInvoiceExtensions(ctx context.Context, q queryer, ids []int64, byID map[int64]*domain.Request) error {
	query := `
		SELECT id, request_id, vendor_name, invoice_date, local_file_path, drive_file_id, drive_view_url, file_size
		FROM invoice_requests WHERE request_id = ANY($1);`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query invoice extensions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ext domain.InvoiceExtension
		err := rows.Scan(&ext.ID, &ext.RequestID, &ext.VendorName, &ext.InvoiceDate,
			&ext.LocalImagePath, &ext.RemoteFileID, &ext.RemoteViewURL, &ext.FileSizeBytes)
		if err != nil {
			return fmt.Errorf("failed to scan invoice extension: %w", err)
		}
		if req := byID[ext.RequestID]; req != nil {
			req.Invoice = &ext
		}
	}
	return rows.Err()
}

func loadAdvanceExtensions(ctx context.Context, q queryer, ids []int64, byID map[int64]*domain.Request) error {
	query := `
		SELECT id, request_id, employee_name, employee_number, national_id, job_title, department_name,
			requested_amount, reason, installments, installment_amount, remaining_amount,
			local_file_path, drive_file_id, drive_view_url
		FROM advance_payment_requests WHERE request_id = ANY($1);`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query advance extensions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ext domain.AdvancePaymentExtension
		err := rows.Scan(&ext.ID, &ext.RequestID, &ext.EmployeeName, &ext.EmployeeCode, &ext.NationalID,
			&ext.JobTitle, &ext.DepartmentName, &ext.RequestedAmount, &ext.Reason,
			&ext.Installments, &ext.InstallmentAmount, &ext.RemainingAmount,
			&ext.LocalImagePath, &ext.RemoteFileID, &ext.RemoteViewURL)
		if err != nil {
			return fmt.Errorf("failed to scan advance extension: %w", err)
		}
		if req := byID[ext.RequestID]; req != nil {
			req.Advance = &ext
		}
	}
	return rows.Err()
}

func loadCarWashExtensions(ctx context.Context, q queryer, ids []int64, byID map[int64]*domain.Request) error {
	query := `
		SELECT id, request_id, vehicle_id, service_type, scheduled_date
		FROM car_wash_requests WHERE request_id = ANY($1);`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query car wash extensions: %w", err)
	}

	byExtID := map[int64]*domain.CarWashExtension{}
	extIDs := []int64{}
	for rows.Next() {
		var ext domain.CarWashExtension
		if err := rows.Scan(&ext.ID, &ext.RequestID, &ext.VehicleID, &ext.ServiceType, &ext.ScheduledDate); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan car wash extension: %w", err)
		}
		if req := byID[ext.RequestID]; req != nil {
			req.CarWash = &ext
			byExtID[ext.ID] = req.CarWash
			extIDs = append(extIDs, ext.ID)
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return fmt.Errorf("error iterating car wash extensions: %w", rows.Err())
	}
	if len(extIDs) == 0 {
		return nil
	}

	mediaQuery := `
		SELECT id, wash_request_id, media_type, local_path, drive_file_id, drive_view_url, file_size, uploaded_at
		FROM car_wash_media WHERE wash_request_id = ANY($1)
		ORDER BY wash_request_id, uploaded_at, id;`
	mrows, err := q.Query(ctx, mediaQuery, extIDs)
	if err != nil {
		return fmt.Errorf("failed to query car wash media: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		var m domain.CarWashMedia
		err := mrows.Scan(&m.ID, &m.WashRequestID, &m.Slot, &m.LocalPath,
			&m.RemoteFileID, &m.RemoteViewURL, &m.FileSizeBytes, &m.UploadedAt)
		if err != nil {
			return fmt.Errorf("failed to scan car wash media: %w", err)
		}
		if ext := byExtID[m.WashRequestID]; ext != nil {
			ext.Media = append(ext.Media, m)
		}
	}
	return mrows.Err()
}

func loadInspectionExtensions(ctx context.Context, q queryer, ids []int64, byID map[int64]*domain.Request) error {
	query := `
		SELECT id, request_id, vehicle_id, inspection_type, inspection_date
		FROM car_inspection_requests WHERE request_id = ANY($1);`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query inspection extensions: %w", err)
	}

	byExtID := map[int64]*domain.CarInspectionExtension{}
	extIDs := []int64{}
	for rows.Next() {
		var ext domain.CarInspectionExtension
		if err := rows.Scan(&ext.ID, &ext.RequestID, &ext.VehicleID, &ext.InspectionType, &ext.InspectionDate); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan inspection extension: %w", err)
		}
		if req := byID[ext.RequestID]; req != nil {
			req.Inspection = &ext
			byExtID[ext.ID] = req.Inspection
			extIDs = append(extIDs, ext.ID)
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return fmt.Errorf("error iterating inspection extensions: %w", rows.Err())
	}
	if len(extIDs) == 0 {
		return nil
	}

	mediaQuery := `
		SELECT id, inspection_request_id, file_type, original_filename, local_path,
			drive_file_id, drive_view_url, file_size, upload_status, upload_progress, uploaded_at
		FROM car_inspection_media WHERE inspection_request_id = ANY($1)
		ORDER BY inspection_request_id, uploaded_at, id;`
	mrows, err := q.Query(ctx, mediaQuery, extIDs)
	if err != nil {
		return fmt.Errorf("failed to query inspection media: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		var m domain.CarInspectionMedia
		err := mrows.Scan(&m.ID, &m.InspectionID, &m.Kind, &m.OriginalFilename, &m.LocalPath,
			&m.RemoteFileID, &m.RemoteViewURL, &m.FileSizeBytes, &m.UploadStatus, &m.UploadProgress, &m.UploadedAt)
		if err != nil {
			return fmt.Errorf("failed to scan inspection media: %w", err)
		}
		if ext := byExtID[m.InspectionID]; ext != nil {
			ext.Media = append(ext.Media, m)
		}
	}
	return mrows.Err()
}

// --- writes ---

func (r *RequestRepository) CreateRequest(ctx context.Context, request *domain.Request) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	insertRequest := `
		INSERT INTO employee_requests (employee_id, request_type, status, title, description, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at;`
	err = tx.QueryRow(ctx, insertRequest,
		request.EmployeeID, request.Type, request.Status, request.Title, request.Description, request.Amount,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}

	switch request.Type {
	case domain.TypeInvoice:
		err = insertInvoiceExtension(ctx, tx, request.ID, request.Invoice)
	case domain.TypeAdvancePayment:
		err = insertAdvanceExtension(ctx, tx, request.ID, request.Advance)
	case domain.TypeCarWash:
		err = insertCarWashExtension(ctx, tx, request.ID, request.CarWash)
	case domain.TypeCarInspection:
		err = insertInspectionExtension(ctx, tx, request.ID, request.Inspection)
	default:
		err = apperrors.ErrValidation
	}
	if err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertInvoiceExtension(ctx context.Context, tx pgx.Tx, requestID int64, ext *domain.InvoiceExtension) error {
	query := `
		INSERT INTO invoice_requests (request_id, vendor_name, invoice_date, local_file_path, drive_file_id, drive_view_url, file_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;`
	ext.RequestID = requestID
	err := tx.QueryRow(ctx, query, requestID, ext.VendorName, ext.InvoiceDate,
		ext.LocalImagePath, ext.RemoteFileID, ext.RemoteViewURL, ext.FileSizeBytes).Scan(&ext.ID)
	if err != nil {
		return fmt.Errorf("failed to insert invoice extension: %w", err)
	}
	return nil
}

func insertAdvanceExtension(ctx context.Context, tx pgx.Tx, requestID int64, ext *domain.AdvancePaymentExtension) error {
	query := `
		INSERT INTO advance_payment_requests
			(request_id, employee_name, employee_number, national_id, job_title, department_name,
			 requested_amount, reason, installments, installment_amount, remaining_amount,
			 local_file_path, drive_file_id, drive_view_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;`
	ext.RequestID = requestID
	err := tx.QueryRow(ctx, query, requestID, ext.EmployeeName, ext.EmployeeCode, ext.NationalID,
		ext.JobTitle, ext.DepartmentName, ext.RequestedAmount, ext.Reason,
		ext.Installments, ext.InstallmentAmount, ext.RemainingAmount,
		ext.LocalImagePath, ext.RemoteFileID, ext.RemoteViewURL).Scan(&ext.ID)
	if err != nil {
		return fmt.Errorf("failed to insert advance extension: %w", err)
	}
	return nil
}

func insertCarWashExtension(ctx context.Context, tx pgx.Tx, requestID int64, ext *domain.CarWashExtension) error {
	query := `
		INSERT INTO car_wash_requests (request_id, vehicle_id, service_type, scheduled_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id;`
	ext.RequestID = requestID
	err := tx.QueryRow(ctx, query, requestID, ext.VehicleID, ext.ServiceType, ext.ScheduledDate).Scan(&ext.ID)
	if err != nil {
		return fmt.Errorf("failed to insert car wash extension: %w", err)
	}
	for i := range ext.Media {
		ext.Media[i].WashRequestID = ext.ID
		if err := insertCarWashMediaRow(ctx, tx, &ext.Media[i]); err != nil {
			return err
		}
	}
	return nil
}

func insertInspectionExtension(ctx context.Context, tx pgx.Tx, requestID int64, ext *domain.CarInspectionExtension) error {
	query := `
		INSERT INTO car_inspection_requests (request_id, vehicle_id, inspection_type, inspection_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id;`
	ext.RequestID = requestID
	err := tx.QueryRow(ctx, query, requestID, ext.VehicleID, ext.InspectionType, ext.InspectionDate).Scan(&ext.ID)
	if err != nil {
		return fmt.Errorf("failed to insert inspection extension: %w", err)
	}
	for i := range ext.Media {
		ext.Media[i].InspectionID = ext.ID
		if err := insertInspectionMediaRow(ctx, tx, &ext.Media[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *RequestRepository) DeleteRequest(ctx context.Context, requestID int64, ownerID int64) error {
	// Extension and media rows go with the request via ON DELETE CASCADE.
	query := `DELETE FROM employee_requests WHERE id = $1 AND employee_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, requestID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const setRemoteFolderSQL = `
	UPDATE employee_requests SET drive_folder_id = $2, drive_folder_url = $3, updated_at = NOW()
	WHERE id = $1;`

func (r *RequestRepository) SetRemoteFolder(ctx context.Context, requestID int64, folderID, folderURL string) error {
	if _, err := r.Pool.Exec(ctx, setRemoteFolderSQL, requestID, folderID, folderURL); err != nil {
		return fmt.Errorf("failed to set remote folder: %w", err)
	}
	return nil
}

func (r *RequestRepository) SetRemoteFolderTx(ctx context.Context, tx pgx.Tx, requestID int64, folderID, folderURL string) error {
	if _, err := tx.Exec(ctx, setRemoteFolderSQL, requestID, folderID, folderURL); err != nil {
		return fmt.Errorf("failed to set remote folder: %w", err)
	}
	return nil
}

// --- locked-row operations ---

func (r *RequestRepository) UpdateRequestAmount(ctx context.Context, tx pgx.Tx, requestID int64, amount *decimal.Decimal) error {
	query := `UPDATE employee_requests SET amount = $2, updated_at = NOW() WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, requestID, amount)
	if err != nil {
		return fmt.Errorf("failed to update request amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) DetachCarWashMedia(ctx context.Context, tx pgx.Tx, mediaID int64, ownerID int64) (bool, error) {
	query := `
		DELETE FROM car_wash_media m
		USING car_wash_requests w, employee_requests r
		WHERE m.id = $1 AND m.wash_request_id = w.id AND w.request_id = r.id AND r.employee_id = $2;`
	tag, err := tx.Exec(ctx, query, mediaID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to detach car wash media: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RequestRepository) DetachInspectionMedia(ctx context.Context, tx pgx.Tx, mediaID int64, ownerID int64) (bool, error) {
	query := `
		DELETE FROM car_inspection_media m
		USING car_inspection_requests i, employee_requests r
		WHERE m.id = $1 AND m.inspection_request_id = i.id AND i.request_id = r.id AND r.employee_id = $2;`
	tag, err := tx.Exec(ctx, query, mediaID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to detach inspection media: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RequestRepository) UpdateCarWashFields(ctx context.Context, tx pgx.Tx, extensionID int64, serviceType domain.CarWashServiceType, scheduledDate *time.Time) error {
	query := `UPDATE car_wash_requests SET service_type = $2, scheduled_date = $3 WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, extensionID, serviceType, scheduledDate)
	if err != nil {
		return fmt.Errorf("failed to update car wash fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) UpdateInspectionFields(ctx context.Context, tx pgx.Tx, extensionID int64, inspectionType string, inspectionDate time.Time) error {
	query := `UPDATE car_inspection_requests SET inspection_type = $2, inspection_date = $3 WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, extensionID, inspectionType, inspectionDate)
	if err != nil {
		return fmt.Errorf("failed to update inspection fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) UpdateAdvanceFields(ctx context.Context, tx pgx.Tx, ext *domain.AdvancePaymentExtension) error {
	query := `
		UPDATE advance_payment_requests
		SET requested_amount = $2, reason = $3, installments = $4, installment_amount = $5, remaining_amount = $6
		WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, ext.ID,
		ext.RequestedAmount, ext.Reason, ext.Installments, ext.InstallmentAmount, ext.RemainingAmount)
	if err != nil {
		return fmt.Errorf("failed to update advance fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) UpdateInvoiceFields(ctx context.Context, tx pgx.Tx, ext *domain.InvoiceExtension) error {
	query := `UPDATE invoice_requests SET vendor_name = $2, invoice_date = $3 WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, ext.ID, ext.VendorName, ext.InvoiceDate)
	if err != nil {
		return fmt.Errorf("failed to update invoice fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) ReviewRequest(ctx context.Context, tx pgx.Tx, request *domain.Request) error {
	query := `
		UPDATE employee_requests
		SET status = $2, reviewed_by = $3, reviewed_at = $4, admin_notes = $5, rejection_reason = $6, updated_at = NOW()
		WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, request.ID,
		request.Status, request.ReviewerID, request.ReviewedAt, request.AdminNotes, request.RejectionReason)
	if err != nil {
		return fmt.Errorf("failed to review request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func insertCarWashMediaRow(ctx context.Context, q queryer, m *domain.CarWashMedia) error {
	query := `
		INSERT INTO car_wash_media (wash_request_id, media_type, local_path, drive_file_id, drive_view_url, file_size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uploaded_at;`
	err := q.QueryRow(ctx, query, m.WashRequestID, m.Slot, m.LocalPath,
		m.RemoteFileID, m.RemoteViewURL, m.FileSizeBytes).Scan(&m.ID, &m.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert car wash media: %w", err)
	}
	return nil
}

func insertInspectionMediaRow(ctx context.Context, q queryer, m *domain.CarInspectionMedia) error {
	if m.UploadStatus == "" {
		m.UploadStatus = domain.UploadPending
	}
	query := `
		INSERT INTO car_inspection_media
			(inspection_request_id, file_type, original_filename, local_path, drive_file_id, drive_view_url, file_size, upload_status, upload_progress)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, uploaded_at;`
	err := q.QueryRow(ctx, query, m.InspectionID, m.Kind, m.OriginalFilename, m.LocalPath,
		m.RemoteFileID, m.RemoteViewURL, m.FileSizeBytes, m.UploadStatus, m.UploadProgress).Scan(&m.ID, &m.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert inspection media: %w", err)
	}
	return nil
}

func (r *RequestRepository) InsertCarWashMedia(ctx context.Context, tx pgx.Tx, media *domain.CarWashMedia) error {
	return insertCarWashMediaRow(ctx, tx, media)
}

func (r *RequestRepository) InsertInspectionMedia(ctx context.Context, tx pgx.Tx, media *domain.CarInspectionMedia) error {
	return insertInspectionMediaRow(ctx, tx, media)
}

func (r *RequestRepository) UpdateCarWashMedia(ctx context.Context, tx pgx.Tx, media *domain.CarWashMedia) error {
	query := `
		UPDATE car_wash_media
		SET drive_file_id = $2, drive_view_url = $3, file_size = $4
		WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, media.ID, media.RemoteFileID, media.RemoteViewURL, media.FileSizeBytes)
	if err != nil {
		return fmt.Errorf("failed to update car wash media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) UpdateInspectionMedia(ctx context.Context, tx pgx.Tx, media *domain.CarInspectionMedia) error {
	query := `
		UPDATE car_inspection_media
		SET drive_file_id = $2, drive_view_url = $3, upload_status = $4, upload_progress = $5
		WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, media.ID,
		media.RemoteFileID, media.RemoteViewURL, media.UploadStatus, media.UploadProgress)
	if err != nil {
		return fmt.Errorf("failed to update inspection media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) UpdateInvoiceFile(ctx context.Context, tx pgx.Tx, ext *domain.InvoiceExtension) error {
	query := `
		UPDATE invoice_requests
		SET local_file_path = $2, drive_file_id = $3, drive_view_url = $4, file_size = $5
		WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, ext.ID,
		ext.LocalImagePath, ext.RemoteFileID, ext.RemoteViewURL, ext.FileSizeBytes)
	if err != nil {
		return fmt.Errorf("failed to update invoice file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) UpdateAdvanceImage(ctx context.Context, tx pgx.Tx, ext *domain.AdvancePaymentExtension) error {
	query := `
		UPDATE advance_payment_requests
		SET local_file_path = $2, drive_file_id = $3, drive_view_url = $4
		WHERE id = $1;`
	tag, err := tx.Exec(ctx, query, ext.ID, ext.LocalImagePath, ext.RemoteFileID, ext.RemoteViewURL)
	if err != nil {
		return fmt.Errorf("failed to update advance image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
