package models

import (
	"strings"
	"time"

	"github.com/guironm/crew-center/internal/domain"
)

type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
	StatusOnLeave  EmployeeStatus = "on_leave"
)

var EmployeeStatuses = []EmployeeStatus{StatusActive, StatusInactive, StatusOnLeave}

// NormalizeStatus maps display forms such as "On Leave" onto the stored
// value. Unknown values are returned trimmed but otherwise untouched.
func NormalizeStatus(s string) string {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, st := range EmployeeStatuses {
		if string(st) == norm {
			return norm
		}
	}
	return strings.TrimSpace(s)
}

const (
	EmployeeFieldID           domain.Field = "id"
	EmployeeFieldName         domain.Field = "name"
	EmployeeFieldEmail        domain.Field = "email"
	EmployeeFieldRole         domain.Field = "role"
	EmployeeFieldDepartment   domain.Field = "department"
	EmployeeFieldDepartmentID domain.Field = "departmentId"
	EmployeeFieldSalary       domain.Field = "salary"
	EmployeeFieldPicture      domain.Field = "picture"
	EmployeeFieldHireDate     domain.Field = "hireDate"
	EmployeeFieldStatus       domain.Field = "status"
)

type Employee struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	DepartmentID string         `json:"departmentId"`
	Department   *DepartmentRef `json:"department,omitempty"`
	Salary       float64        `json:"salary"`
	Picture      *string        `json:"picture,omitempty"`
	HireDate     *time.Time     `json:"hireDate,omitempty"`
	Status       EmployeeStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// FieldValue exposes the queryable attributes to the search engine.
// "department" resolves to the referenced department's name.
func (e Employee) FieldValue(f domain.Field) any {
	switch f {
	case EmployeeFieldID:
		return e.ID
	case EmployeeFieldName:
		return e.Name
	case EmployeeFieldEmail:
		return e.Email
	case EmployeeFieldRole:
		return e.Role
	case EmployeeFieldDepartment:
		if e.Department == nil {
			return nil
		}
		return e.Department.Name
	case EmployeeFieldDepartmentID:
		if e.DepartmentID == "" {
			return nil
		}
		return e.DepartmentID
	case EmployeeFieldSalary:
		return e.Salary
	case EmployeeFieldPicture:
		if e.Picture == nil {
			return nil
		}
		return *e.Picture
	case EmployeeFieldHireDate:
		if e.HireDate == nil {
			return nil
		}
		return *e.HireDate
	case EmployeeFieldStatus:
		return string(e.Status)
	case "createdAt":
		return e.CreatedAt
	case "updatedAt":
		return e.UpdatedAt
	}
	return nil
}

// CreateEmployeeInput is the create payload. The department may be given by
// id or by name; the service resolves a name into DepartmentID before the
// payload reaches a repository.
type CreateEmployeeInput struct {
	Name         string         `json:"name" validate:"required,min=2"`
	Email        string         `json:"email" validate:"required,email"`
	Role         string         `json:"role" validate:"required"`
	DepartmentID string         `json:"departmentId" validate:"omitempty,uuid"`
	Department   string         `json:"department"`
	Salary       float64        `json:"salary" validate:"gt=0"`
	Picture      *string        `json:"picture" validate:"omitempty,url"`
	HireDate     *time.Time     `json:"hireDate"`
	Status       EmployeeStatus `json:"status" validate:"omitempty,oneof=active inactive on_leave"`
}

func (in CreateEmployeeInput) Validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if strings.TrimSpace(in.DepartmentID) == "" && strings.TrimSpace(in.Department) == "" {
		return domain.NewValidation("departmentId", "This field is required")
	}
	return nil
}

// UpdateEmployeeInput is a partial payload. Picture and HireDate are
// nullable, so an explicit null clears them.
type UpdateEmployeeInput struct {
	Name         *string                    `json:"name" validate:"omitempty,min=2"`
	Email        *string                    `json:"email" validate:"omitempty,email"`
	Role         *string                    `json:"role" validate:"omitempty,min=1"`
	DepartmentID *string                    `json:"departmentId" validate:"omitempty,uuid"`
	Department   *string                    `json:"department"`
	Salary       *float64                   `json:"salary" validate:"omitempty,gt=0"`
	Picture      domain.Optional[string]    `json:"picture"`
	HireDate     domain.Optional[time.Time] `json:"hireDate"`
	Status       *EmployeeStatus            `json:"status" validate:"omitempty,oneof=active inactive on_leave"`
}

func (in UpdateEmployeeInput) Validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.Picture.Set && !in.Picture.Null && !IsURL(in.Picture.Value) {
		return domain.NewValidation("picture", "Must be a valid URL")
	}
	return nil
}

// NewEmployee builds the stored record for a create payload.
func NewEmployee(id string, in CreateEmployeeInput, now time.Time) Employee {
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return Employee{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		DepartmentID: in.DepartmentID,
		Salary:       in.Salary,
		Picture:      in.Picture,
		HireDate:     in.HireDate,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyUpdate merges a partial payload; omitted fields keep their value.
// The department snapshot is dropped when the reference changes and is
// rehydrated by the repository on the next read.
func (e Employee) ApplyUpdate(in UpdateEmployeeInput, now time.Time) Employee {
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Email != nil {
		e.Email = *in.Email
	}
	if in.Role != nil {
		e.Role = *in.Role
	}
	if in.DepartmentID != nil && *in.DepartmentID != e.DepartmentID {
		e.DepartmentID = *in.DepartmentID
		e.Department = nil
	}
	if in.Salary != nil {
		e.Salary = *in.Salary
	}
	e.Picture = in.Picture.Apply(e.Picture)
	e.HireDate = in.HireDate.Apply(e.HireDate)
	if in.Status != nil {
		e.Status = *in.Status
	}
	e.UpdatedAt = now
	return e
}

// EmployeeStatistics backs the dashboard counters.
type EmployeeStatistics struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Inactive    int `json:"inactive"`
	OnLeave     int `json:"onLeave"`
	Departments int `json:"departments"`
}
