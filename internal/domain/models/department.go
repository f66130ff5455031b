package models

import (
	"time"

	"github.com/guironm/crew-center/internal/domain"
)

const (
	DepartmentFieldID          domain.Field = "id"
	DepartmentFieldName        domain.Field = "name"
	DepartmentFieldDescription domain.Field = "description"
)

type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FieldValue exposes the queryable attributes to the search engine.
func (d Department) FieldValue(f domain.Field) any {
	switch f {
	case DepartmentFieldID:
		return d.ID
	case DepartmentFieldName:
		return d.Name
	case DepartmentFieldDescription:
		return d.Description
	case "createdAt":
		return d.CreatedAt
	case "updatedAt":
		return d.UpdatedAt
	}
	return nil
}

// Ref is the denormalised snapshot carried on employees.
func (d Department) Ref() *DepartmentRef {
	return &DepartmentRef{ID: d.ID, Name: d.Name, Description: d.Description}
}

type DepartmentRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateDepartmentInput struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description" validate:"required,min=10,max=500"`
}

func (in CreateDepartmentInput) Validate() error {
	return validateStruct(in)
}

type UpdateDepartmentInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description" validate:"omitempty,min=10,max=500"`
}

func (in UpdateDepartmentInput) Validate() error {
	return validateStruct(in)
}

// NewDepartment builds the stored record for a create payload.
func NewDepartment(id string, in CreateDepartmentInput, now time.Time) Department {
	return Department{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyUpdate merges a partial payload; omitted fields keep their value.
func (d Department) ApplyUpdate(in UpdateDepartmentInput, now time.Time) Department {
	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	d.UpdatedAt = now
	return d
}

// RequiredDepartments must exist after seeding.
var RequiredDepartments = []CreateDepartmentInput{
	{Name: "Engineering", Description: "Software development and infrastructure"},
	{Name: "Marketing", Description: "Marketing, communications, and brand management"},
	{Name: "Sales", Description: "Client acquisition and account management"},
	{Name: "Finance", Description: "Financial operations and accounting"},
	{Name: "HR", Description: "Human resources and talent management"},
	{Name: "Design", Description: "User experience and product design"},
	{Name: "Product", Description: "Product management and strategy"},
}

// DefaultRolesByDepartment is used when generating synthetic employees.
var DefaultRolesByDepartment = map[string][]string{
	"Engineering": {"Software Engineer", "DevOps Engineer", "QA Engineer", "Engineering Manager"},
	"Marketing":   {"Marketing Specialist", "Content Writer", "SEO Specialist", "Marketing Manager"},
	"Sales":       {"Sales Representative", "Account Executive", "Sales Manager"},
	"Finance":     {"Financial Analyst", "Accountant", "Finance Manager"},
	"HR":          {"HR Specialist", "Recruiter", "HR Manager"},
	"Design":      {"UX Designer", "UI Designer", "Graphic Designer", "Design Manager"},
	"Product":     {"Product Manager", "Product Owner", "Business Analyst"},
}
