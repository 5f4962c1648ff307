package domain

import "time"

// EmployeeStatus is the HR-owned employment state.
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "ACTIVE"
	EmployeeInactive   EmployeeStatus = "INACTIVE"
	EmployeeOnLeave    EmployeeStatus = "ON_LEAVE"
	EmployeeTerminated EmployeeStatus = "TERMINATED"
)

// Employee is a read-only view of the HR employee record. Only ACTIVE
// employees may authenticate or create requests.
type Employee struct {
	ID               int64          `json:"id"`
	EmployeeCode     string         `json:"employee_id"`
	NationalID       string         `json:"national_id"`
	Name             string         `json:"name"`
	Email            *string        `json:"email,omitempty"`
	Mobile           *string        `json:"mobile,omitempty"`
	JobTitle         *string        `json:"job_title,omitempty"`
	DepartmentName   *string        `json:"department,omitempty"`
	ProfileImagePath *string        `json:"profile_image,omitempty"`
	Status           EmployeeStatus `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
}

// IsActive reports whether the employee may authenticate.
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeActive
}
