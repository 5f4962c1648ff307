package domain

// Vehicle is a read-only view of the fleet vehicle record, used to resolve
// car-wash and inspection targets and to label Drive folders.
type Vehicle struct {
	ID          int64   `json:"id"`
	PlateNumber string  `json:"plate_number"`
	Make        *string `json:"make,omitempty"`
	Model       *string `json:"model,omitempty"`
	Year        *int    `json:"year,omitempty"`
	IsActive    bool    `json:"is_active"`
}
