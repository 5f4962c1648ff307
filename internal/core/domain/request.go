package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestType discriminates the four request kinds.
type RequestType string

const (
	TypeInvoice        RequestType = "INVOICE"
	TypeCarWash        RequestType = "CAR_WASH"
	TypeCarInspection  RequestType = "CAR_INSPECTION"
	TypeAdvancePayment RequestType = "ADVANCE_PAYMENT"
)

// KnownRequestTypes lists every valid request type.
var KnownRequestTypes = []RequestType{TypeInvoice, TypeCarWash, TypeCarInspection, TypeAdvancePayment}

// Valid reports whether t is one of the four known kinds.
func (t RequestType) Valid() bool {
	switch t {
	case TypeInvoice, TypeCarWash, TypeCarInspection, TypeAdvancePayment:
		return true
	}
	return false
}

// RequestStatus indicates the review state of a request.
// Only PENDING -> APPROVED and PENDING -> REJECTED are produced by this
// subsystem; the remaining members appear in read paths and filters only.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusInReview  RequestStatus = "IN_REVIEW"
	StatusCancelled RequestStatus = "CANCELLED"
	StatusCompleted RequestStatus = "COMPLETED"
	StatusClosed    RequestStatus = "CLOSED"
)

// Valid reports whether s is a member of the status vocabulary.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusInReview, StatusCancelled, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

// Request is the aggregate root for all employee requests. Exactly one
// type-specific extension row exists per request, matching Type.
type Request struct {
	ID              int64            `json:"id"`
	EmployeeID      int64            `json:"employee_id"`
	Type            RequestType      `json:"request_type"`
	Status          RequestStatus    `json:"status"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	RemoteFolderID  *string          `json:"drive_folder_id,omitempty"`
	RemoteFolderURL *string          `json:"drive_folder_url,omitempty"`
	ReviewerID      *int64           `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	AdminNotes      *string          `json:"admin_notes,omitempty"`
	RejectionReason *string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Eagerly loaded relations.
	Invoice    *InvoiceExtension        `json:"invoice_data,omitempty"`
	Advance    *AdvancePaymentExtension `json:"advance_data,omitempty"`
	CarWash    *CarWashExtension        `json:"car_wash_data,omitempty"`
	Inspection *CarInspectionExtension  `json:"inspection_data,omitempty"`
}

// IsPending reports whether the request is still inside the pending window.
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// InvoiceExtension carries the invoice-specific payload.
type InvoiceExtension struct {
	ID             int64      `json:"id"`
	RequestID      int64      `json:"request_id"`
	VendorName     string     `json:"vendor_name"`
	InvoiceDate    *time.Time `json:"invoice_date,omitempty"`
	LocalImagePath *string    `json:"local_file_path,omitempty"`
	RemoteFileID   *string    `json:"drive_file_id,omitempty"`
	RemoteViewURL  *string    `json:"drive_view_url,omitempty"`
	FileSizeBytes  *int64     `json:"file_size,omitempty"`
}

// AdvancePaymentExtension carries the advance-payment payload together with
// a snapshot of the employee identity taken at creation time.
type AdvancePaymentExtension struct {
	ID                int64            `json:"id"`
	RequestID         int64            `json:"request_id"`
	EmployeeName      string           `json:"employee_name"`
	EmployeeCode      string           `json:"employee_number"`
	NationalID        string           `json:"national_id"`
	JobTitle          string           `json:"job_title"`
	DepartmentName    string           `json:"department_name"`
	RequestedAmount   decimal.Decimal  `json:"requested_amount"`
	Reason            *string          `json:"reason,omitempty"`
	Installments      *int             `json:"installments,omitempty"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount,omitempty"`
	RemainingAmount   decimal.Decimal  `json:"remaining_amount"`
	LocalImagePath    *string          `json:"local_file_path,omitempty"`
	RemoteFileID      *string          `json:"drive_file_id,omitempty"`
	RemoteViewURL     *string          `json:"drive_view_url,omitempty"`
}

// DeriveInstallmentAmount computes requested/installments rounded half-up to
// two digits. Any rounding residual is absorbed into the final installment at
// display time and is not stored.
func DeriveInstallmentAmount(requested decimal.Decimal, installments int) decimal.Decimal {
	return requested.DivRound(decimal.NewFromInt(int64(installments)), 2)
}

// CarWashServiceType is the allowed car-wash service vocabulary.
type CarWashServiceType string

const (
	WashNormal    CarWashServiceType = "NORMAL"
	WashPolish    CarWashServiceType = "POLISH"
	WashFullClean CarWashServiceType = "FULL_CLEAN"
)

// Valid reports whether s is an allowed service type.
func (s CarWashServiceType) Valid() bool {
	switch s {
	case WashNormal, WashPolish, WashFullClean:
		return true
	}
	return false
}

// CarWashExtension carries the car-wash payload and its five photo slots.
type CarWashExtension struct {
	ID            int64              `json:"id"`
	RequestID     int64              `json:"request_id"`
	VehicleID     int64              `json:"vehicle_id"`
	ServiceType   CarWashServiceType `json:"service_type"`
	ScheduledDate *time.Time         `json:"scheduled_date,omitempty"`
	Media         []CarWashMedia     `json:"media_files,omitempty"`
}

// MediaSlot names one of the five car-wash photo positions.
type MediaSlot string

const (
	SlotPlate MediaSlot = "PLATE"
	SlotFront MediaSlot = "FRONT"
	SlotBack  MediaSlot = "BACK"
	SlotRight MediaSlot = "RIGHT"
	SlotLeft  MediaSlot = "LEFT"
)

// SlotOrder is the canonical fill order used by the generic upload endpoint.
var SlotOrder = []MediaSlot{SlotPlate, SlotFront, SlotBack, SlotRight, SlotLeft}

// Valid reports whether m is one of the five slots.
func (m MediaSlot) Valid() bool {
	switch m {
	case SlotPlate, SlotFront, SlotBack, SlotRight, SlotLeft:
		return true
	}
	return false
}

// CarWashMedia is one photo in a named slot. At most one row per slot per request.
type CarWashMedia struct {
	ID            int64     `json:"id"`
	WashRequestID int64     `json:"wash_request_id"`
	Slot          MediaSlot `json:"media_type"`
	LocalPath     *string   `json:"local_path,omitempty"`
	RemoteFileID  *string   `json:"drive_file_id,omitempty"`
	RemoteViewURL *string   `json:"drive_view_url,omitempty"`
	FileSizeBytes *int64    `json:"file_size,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// InspectionFileKind distinguishes inspection images from videos.
type InspectionFileKind string

const (
	FileImage InspectionFileKind = "IMAGE"
	FileVideo InspectionFileKind = "VIDEO"
)

// UploadStatus tracks the remote mirror state of an inspection media row.
type UploadStatus string

const (
	UploadPending   UploadStatus = "PENDING"
	UploadCompleted UploadStatus = "COMPLETED"
	UploadFailed    UploadStatus = "FAILED"
)

// Media caps per inspection.
const (
	MaxInspectionImages = 20
	MaxInspectionVideos = 3
)

// CarInspectionExtension carries the inspection payload and its media.
type CarInspectionExtension struct {
	ID             int64                `json:"id"`
	RequestID      int64                `json:"request_id"`
	VehicleID      int64                `json:"vehicle_id"`
	InspectionType string               `json:"inspection_type"`
	InspectionDate time.Time            `json:"inspection_date"`
	Media          []CarInspectionMedia `json:"media_files,omitempty"`
}

// CountMedia returns the number of image and video rows currently attached.
func (e *CarInspectionExtension) CountMedia() (images, videos int) {
	for _, m := range e.Media {
		if m.Kind == FileVideo {
			videos++
		} else {
			images++
		}
	}
	return images, videos
}

// CarInspectionMedia is one image or video attached to an inspection.
type CarInspectionMedia struct {
	ID               int64              `json:"id"`
	InspectionID     int64              `json:"inspection_request_id"`
	Kind             InspectionFileKind `json:"file_type"`
	OriginalFilename *string            `json:"original_filename,omitempty"`
	LocalPath        *string            `json:"local_path,omitempty"`
	RemoteFileID     *string            `json:"drive_file_id,omitempty"`
	RemoteViewURL    *string            `json:"drive_view_url,omitempty"`
	FileSizeBytes    *int64             `json:"file_size,omitempty"`
	UploadStatus     UploadStatus       `json:"upload_status"`
	UploadProgress   int                `json:"upload_progress"`
	UploadedAt       time.Time          `json:"uploaded_at"`
}
