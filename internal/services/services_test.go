package services

import (
	"context"
	"errors"
	"testing"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/repositories"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	depts     *repositories.MemoryDepartmentRepository
	employees *repositories.MemoryEmployeeRepository
	deptSvc   DepartmentService
	empSvc    EmployeeService
	ids       map[string]string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	depts := repositories.NewMemoryDepartmentRepository()
	employees := repositories.NewMemoryEmployeeRepository(depts)
	f := fixture{
		depts:     depts,
		employees: employees,
		deptSvc:   DepartmentService{Repo: depts, Employees: employees},
		empSvc:    EmployeeService{Repo: employees, Departments: depts},
		ids:       map[string]string{},
	}
	for _, in := range models.RequiredDepartments {
		d, err := f.deptSvc.Create(context.Background(), in)
		if err != nil {
			t.Fatalf("seed department %s: %v", in.Name, err)
		}
		f.ids[d.Name] = d.ID
	}
	return f
}

func validEmployee(deptID string) models.CreateEmployeeInput {
	return models.CreateEmployeeInput{
		Name:         "Grace Hopper",
		Email:        "grace@example.com",
		Role:         "Software Engineer",
		DepartmentID: deptID,
		Salary:       140000,
	}
}

func TestDepartmentCreateValidationAndConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.deptSvc.Create(ctx, models.CreateDepartmentInput{Name: "X", Description: "short"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ve domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 2 {
		t.Fatalf("expected both name and description reported, got %+v", ve.Fields)
	}

	_, err = f.deptSvc.Create(ctx, models.CreateDepartmentInput{Name: "engineering", Description: "Duplicate of an existing one"})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on case-insensitive duplicate, got %v", err)
	}
}

func TestDepartmentUpdateRenameConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.deptSvc.Update(ctx, f.ids["Sales"], models.UpdateDepartmentInput{Name: strPtr("Design")}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := f.deptSvc.Update(ctx, f.ids["Sales"], models.UpdateDepartmentInput{Name: strPtr("Sales")}); err != nil {
		t.Fatalf("renaming to own name should pass, got %v", err)
	}
	if _, err := f.deptSvc.Update(ctx, "missing", models.UpdateDepartmentInput{}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDepartmentDeleteRestricted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.empSvc.Create(ctx, validEmployee(f.ids["Engineering"])); err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if err := f.deptSvc.Delete(ctx, f.ids["Engineering"]); !domain.IsConflict(err) {
		t.Fatalf("expected conflict while staffed, got %v", err)
	}
	if err := f.deptSvc.Delete(ctx, f.ids["Product"]); err != nil {
		t.Fatalf("delete empty department: %v", err)
	}
	if err := f.deptSvc.Delete(ctx, f.ids["Product"]); !domain.IsNotFound(err) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestEmployeeCreateResolvesDepartmentByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validEmployee("")
	in.Department = "  design "
	e, err := f.empSvc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.DepartmentID != f.ids["Design"] || e.Department == nil || e.Department.Name != "Design" {
		t.Fatalf("department not resolved: %+v", e)
	}
}

func TestEmployeeCreateRejectsUnknownDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validEmployee("5f1c1d1e-0000-4000-8000-000000000000")
	if _, err := f.empSvc.Create(ctx, in); !domain.IsValidation(err) {
		t.Fatalf("expected validation for unknown id, got %v", err)
	}
	in = validEmployee("")
	in.Department = "Astronomy"
	if _, err := f.empSvc.Create(ctx, in); !domain.IsValidation(err) {
		t.Fatalf("expected validation for unknown name, got %v", err)
	}
	in = validEmployee("")
	if _, err := f.empSvc.Create(ctx, in); !domain.IsValidation(err) {
		t.Fatalf("expected validation when department missing, got %v", err)
	}
}

func TestEmployeeEmailConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.empSvc.Create(ctx, validEmployee(f.ids["Engineering"]))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := validEmployee(f.ids["Sales"])
	dup.Email = "GRACE@example.com"
	if _, err := f.empSvc.Create(ctx, dup); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	other := validEmployee(f.ids["Sales"])
	other.Email = "alan@example.com"
	second, err := f.empSvc.Create(ctx, other)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if _, err := f.empSvc.Update(ctx, second.ID, models.UpdateEmployeeInput{Email: strPtr(first.Email)}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict on update, got %v", err)
	}
	if _, err := f.empSvc.Update(ctx, first.ID, models.UpdateEmployeeInput{Email: strPtr(first.Email)}); err != nil {
		t.Fatalf("keeping own email should pass, got %v", err)
	}
}

func TestEmployeeUpdateMovesDepartmentAndClearsPicture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validEmployee(f.ids["Engineering"])
	in.Picture = strPtr("https://example.com/grace.png")
	e, err := f.empSvc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	patch := models.UpdateEmployeeInput{Department: strPtr("HR"), Picture: domain.Null[string]()}
	updated, err := f.empSvc.Update(ctx, e.ID, patch)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DepartmentID != f.ids["HR"] || updated.Department.Name != "HR" {
		t.Fatalf("department not moved: %+v", updated.Department)
	}
	if updated.Picture != nil {
		t.Fatalf("picture should be cleared")
	}
	if updated.Salary != 140000 || updated.Name != "Grace Hopper" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestEmployeeUpdateAndDeleteMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.empSvc.Update(ctx, "missing", models.UpdateEmployeeInput{Name: strPtr("Nobody")}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := f.empSvc.Delete(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.empSvc.FindOne(ctx, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEmployeeFindAndStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rows := []models.CreateEmployeeInput{
		{Name: "Ann", Email: "ann@example.com", Role: "Recruiter", DepartmentID: f.ids["HR"], Salary: 70000},
		{Name: "Ben", Email: "ben@example.com", Role: "Accountant", DepartmentID: f.ids["Finance"], Salary: 80000, Status: models.StatusOnLeave},
		{Name: "Cat", Email: "cat@example.com", Role: "HR Manager", DepartmentID: f.ids["HR"], Salary: 95000, Status: models.StatusInactive},
	}
	for _, in := range rows {
		if _, err := f.empSvc.Create(ctx, in); err != nil {
			t.Fatalf("create %s: %v", in.Name, err)
		}
	}

	got, err := f.empSvc.Find(ctx, map[string]string{"department": "hr", "sortBy": "salary", "sortOrder": "desc"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Cat" || got[1].Name != "Ann" {
		t.Fatalf("unexpected result: %+v", got)
	}

	onLeave, err := f.empSvc.Find(ctx, map[string]string{"status": "On Leave"})
	if err != nil || len(onLeave) != 1 || onLeave[0].Name != "Ben" {
		t.Fatalf("status filter: %+v, %v", onLeave, err)
	}

	page, err := f.empSvc.FindPaginated(ctx, map[string]string{"limit": "2", "page": "2"})
	if err != nil {
		t.Fatalf("paginated: %v", err)
	}
	if len(page.Data) != 1 || page.Meta.TotalPages != 2 || !page.Meta.HasPreviousPage {
		t.Fatalf("unexpected page: %+v", page.Meta)
	}

	stats, err := f.empSvc.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	want := models.EmployeeStatistics{Total: 3, Active: 1, Inactive: 1, OnLeave: 1, Departments: 2}
	if stats != want {
		t.Fatalf("stats: got %+v want %+v", stats, want)
	}
}

func TestDepartmentFindPaginated(t *testing.T) {
	f := newFixture(t)
	page, err := f.deptSvc.FindPaginated(context.Background(), map[string]string{"sortBy": "name", "limit": "3"})
	if err != nil {
		t.Fatalf("paginated: %v", err)
	}
	if page.Meta.TotalItems != 7 || page.Meta.TotalPages != 3 || len(page.Data) != 3 {
		t.Fatalf("meta: %+v", page.Meta)
	}
	if page.Data[0].Name != "Design" {
		t.Fatalf("first by name should be Design, got %s", page.Data[0].Name)
	}

	found, err := f.deptSvc.Find(context.Background(), map[string]string{"query": "MANAGEMENT"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 4 {
		t.Fatalf("expected 4 departments mentioning management, got %d", len(found))
	}
}
