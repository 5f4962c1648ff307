package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/najmfleet/employee_requests_app/internal/core/domain"
)

// CreateRequestDetails carries the type-specific fields of the generic
// create endpoint. The service validates the subset matching the type.
type CreateRequestDetails struct {
	// invoice
	VendorName  string    `json:"vendor_name,omitempty"`
	InvoiceDate *DateOnly `json:"invoice_date,omitempty"`
	// advance_payment
	RequestedAmount *decimal.Decimal `json:"requested_amount,omitempty"`
	Reason          string           `json:"reason,omitempty"`
	Installments    *int             `json:"installments,omitempty"`
	// car_wash / car_inspection
	VehicleID      *int64    `json:"vehicle_id,omitempty"`
	ServiceType    string    `json:"service_type,omitempty"`
	ScheduledDate  *DateOnly `json:"scheduled_date,omitempty"`
	InspectionType string    `json:"inspection_type,omitempty"`
	InspectionDate *DateOnly `json:"inspection_date,omitempty"`
}

// CreateRequestRequest is the generic creation payload.
type CreateRequestRequest struct {
	Type        string               `json:"request_type" binding:"required"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Amount      *decimal.Decimal     `json:"amount"`
	Details     CreateRequestDetails `json:"details"`
}

// CreateAdvancePaymentRequest is the typed advance-payment payload. The
// optional supporting image arrives as a multipart part, not here.
type CreateAdvancePaymentRequest struct {
	RequestedAmount decimal.Decimal `json:"requested_amount" form:"requested_amount" binding:"required"`
	Reason          string          `json:"reason" form:"reason"`
	Installments    *int            `json:"installments" form:"installments"`
}

// CreateInvoiceRequest is the typed invoice payload; exactly one file part
// is required alongside it.
type CreateInvoiceRequest struct {
	VendorName  string           `json:"vendor_name" form:"vendor_name" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" form:"amount"`
	InvoiceDate *DateOnly        `json:"invoice_date" form:"invoice_date"`
	Description string           `json:"description" form:"description"`
}

// CreateCarWashRequest is the typed car-wash payload; slot photos arrive as
// multipart parts photo_plate .. photo_left_side.
type CreateCarWashRequest struct {
	VehicleID     int64     `json:"vehicle_id" form:"vehicle_id" binding:"required"`
	ServiceType   string    `json:"service_type" form:"service_type" binding:"required"`
	ScheduledDate *DateOnly `json:"scheduled_date" form:"scheduled_date"`
	Description   string    `json:"description" form:"description"`
}

// CreateCarInspectionRequest creates an empty inspection; media are attached
// through the upload endpoints afterwards.
type CreateCarInspectionRequest struct {
	VehicleID      int64     `json:"vehicle_id" form:"vehicle_id" binding:"required"`
	InspectionType string    `json:"inspection_type" form:"inspection_type" binding:"required"`
	InspectionDate *DateOnly `json:"inspection_date" form:"inspection_date"`
	Description    string    `json:"description" form:"description"`
}

// UpdateCarWashRequest is the owner edit patch for a pending car wash.
type UpdateCarWashRequest struct {
	ServiceType    string    `json:"service_type" form:"service_type"`
	ScheduledDate  *DateOnly `json:"scheduled_date" form:"scheduled_date"`
	DeleteMediaIDs []int64   `json:"delete_media_ids" form:"delete_media_ids"`
}

// UpdateCarInspectionRequest is the owner edit patch for a pending inspection.
type UpdateCarInspectionRequest struct {
	InspectionType string    `json:"inspection_type" form:"inspection_type"`
	InspectionDate *DateOnly `json:"inspection_date" form:"inspection_date"`
	DeleteMediaIDs []int64   `json:"delete_media_ids" form:"delete_media_ids"`
}

// UpdateAdvancePaymentRequest is the owner edit patch for a pending advance.
type UpdateAdvancePaymentRequest struct {
	RequestedAmount *decimal.Decimal `json:"requested_amount" form:"requested_amount"`
	Reason          *string          `json:"reason" form:"reason"`
	Installments    *int             `json:"installments" form:"installments"`
}

// UpdateInvoiceRequest is the owner edit patch for a pending invoice.
type UpdateInvoiceRequest struct {
	VendorName  *string          `json:"vendor_name" form:"vendor_name"`
	Amount      *decimal.Decimal `json:"amount" form:"amount"`
	InvoiceDate *DateOnly        `json:"invoice_date" form:"invoice_date"`
}

// ReviewRequest carries the admin review form fields.
type ReviewRequest struct {
	AdminNotes      string `json:"admin_notes" form:"admin_notes"`
	RejectionReason string `json:"rejection_reason" form:"rejection_reason"`
}

// UploadedFileDescriptor reports one successfully persisted upload.
type UploadedFileDescriptor struct {
	Kind         string  `json:"kind"`
	Slot         string  `json:"media_type,omitempty"`
	MediaID      int64   `json:"media_id,omitempty"`
	LocalPath    string  `json:"local_path"`
	RemoteFileID *string `json:"drive_file_id,omitempty"`
	RemoteURL    *string `json:"drive_view_url,omitempty"`
	SizeBytes    int64   `json:"file_size"`
}

// RequestListResponse is the paginated list payload.
type RequestListResponse struct {
	Requests   []domain.Request `json:"requests"`
	Pagination Pagination       `json:"pagination"`
}

// RequestStatisticsResponse aggregates an owner's requests per status.
type RequestStatisticsResponse struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// RequestTypeInfo describes one member of the type vocabulary.
type RequestTypeInfo struct {
	Value  string `json:"value"`
	NameAr string `json:"name_ar"`
}

// RequestTypes returns the type vocabulary with Arabic labels.
func RequestTypes() []RequestTypeInfo {
	out := make([]RequestTypeInfo, 0, len(domain.KnownRequestTypes))
	for _, t := range domain.KnownRequestTypes {
		out = append(out, RequestTypeInfo{Value: string(t), NameAr: t.DisplayNameAr()})
	}
	return out
}

// PublicRequestResponse is the sanitized unauthenticated detail view. No
// reviewer identity or admin notes are exposed.
type PublicRequestResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"request_type"`
	TypeAr    string    `json:"request_type_ar"`
	Status    string    `json:"status"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPublicRequestResponse maps a request to its public shape.
func ToPublicRequestResponse(r *domain.Request) PublicRequestResponse {
	return PublicRequestResponse{
		ID:        r.ID,
		Type:      string(r.Type),
		TypeAr:    r.Type.DisplayNameAr(),
		Status:    string(r.Status),
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
	}
}
