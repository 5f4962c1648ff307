package dto

import "github.com/najmfleet/employee_requests_app/internal/core/domain"

// MobileLoginRequest is the credential pair field employees present.
type MobileLoginRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	NationalID string `json:"national_id" binding:"required"`
}

// EmployeeResponse is the employee payload returned on login and profile reads.
type EmployeeResponse struct {
	ID           int64   `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Mobile       *string `json:"mobile,omitempty"`
	JobTitle     *string `json:"job_title,omitempty"`
	Department   *string `json:"department,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	Status       string  `json:"status"`
}

// MobileLoginResponse is the successful login payload.
type MobileLoginResponse struct {
	Success  bool             `json:"success"`
	Token    string           `json:"token"`
	Employee EmployeeResponse `json:"employee"`
}

// ToEmployeeResponse maps the domain employee to its API shape.
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeCode,
		Name:         e.Name,
		Email:        e.Email,
		Mobile:       e.Mobile,
		JobTitle:     e.JobTitle,
		Department:   e.DepartmentName,
		ProfileImage: e.ProfileImagePath,
		Status:       string(e.Status),
	}
}

// ConsoleLoginRequest is the staff console form submission.
type ConsoleLoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}
