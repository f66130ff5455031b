package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/repositories"
)

type stubProvider struct {
	users []models.User
	err   error
	calls int
}

func (p *stubProvider) FetchUsers(ctx context.Context, count int) ([]models.User, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if count < len(p.users) {
		return p.users[:count], nil
	}
	return p.users, nil
}

func fakeUsers(n int) []models.User {
	out := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.User{
			ID:      fmt.Sprintf("00000000-0000-4000-8000-%012d", i),
			Name:    fmt.Sprintf("Person %d", i),
			Email:   fmt.Sprintf("person%d@example.com", i),
			Picture: "https://example.com/p.jpg",
		})
	}
	return out
}

func newSeeder(provider UserProvider) (Seeder, *repositories.MemoryDepartmentRepository, *repositories.MemoryEmployeeRepository) {
	depts := repositories.NewMemoryDepartmentRepository()
	employees := repositories.NewMemoryEmployeeRepository(depts)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Seeder{
		Departments: depts,
		Employees:   employees,
		Users:       provider,
		Rand:        rand.New(rand.NewPCG(1, 2)),
		Now:         func() time.Time { return now },
	}, depts, employees
}

func TestSeedDepartmentsIsIdempotent(t *testing.T) {
	s, depts, _ := newSeeder(&stubProvider{})
	ctx := context.Background()

	if _, err := depts.Create(ctx, models.CreateDepartmentInput{Name: "engineering", Description: "Pre-existing department"}); err != nil {
		t.Fatalf("pre-create: %v", err)
	}

	lookup, err := s.SeedDepartments(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if lookup.Len() != len(models.RequiredDepartments) {
		t.Fatalf("lookup size: %d", lookup.Len())
	}
	if n, _ := depts.Count(ctx); n != len(models.RequiredDepartments) {
		t.Fatalf("existing department should be reused, count=%d", n)
	}

	again, err := s.SeedDepartments(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	for _, name := range lookup.Names() {
		a, _ := lookup.ID(name)
		b, _ := again.ID(name)
		if a != b {
			t.Fatalf("%s id changed between runs", name)
		}
	}
}

func TestSeedEmployeesMapsUsers(t *testing.T) {
	provider := &stubProvider{users: fakeUsers(30)}
	s, _, employees := newSeeder(provider)
	ctx := context.Background()

	if err := s.Run(ctx, 25); err != nil {
		t.Fatalf("run: %v", err)
	}
	all, err := employees.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 25 {
		t.Fatalf("expected 25 employees, got %d", len(all))
	}

	now := s.Now()
	for _, e := range all {
		if e.Department == nil {
			t.Fatalf("%s has no department", e.Name)
		}
		roles := models.DefaultRolesByDepartment[e.Department.Name]
		found := false
		for _, r := range roles {
			found = found || r == e.Role
		}
		if !found {
			t.Fatalf("role %q does not belong to %s", e.Role, e.Department.Name)
		}
		if e.Salary < 60000 || e.Salary >= 150000 {
			t.Fatalf("salary out of range: %v", e.Salary)
		}
		if e.HireDate == nil || e.HireDate.After(now) || e.HireDate.Before(now.AddDate(-5, 0, -1)) {
			t.Fatalf("hire date out of range: %v", e.HireDate)
		}
		if err := (models.UpdateEmployeeInput{Status: &e.Status}).Validate(); err != nil {
			t.Fatalf("invalid status %q", e.Status)
		}
	}

	// a second run must not add more employees
	if err := s.Run(ctx, 25); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n, _ := employees.Count(ctx); n != 25 {
		t.Fatalf("second run added employees: %d", n)
	}
	if provider.calls != 1 {
		t.Fatalf("provider should be called once, got %d", provider.calls)
	}
}

func TestSeedEmployeesDropsDuplicateEmails(t *testing.T) {
	users := fakeUsers(3)
	users[2].Email = "PERSON0@example.com"
	s, _, employees := newSeeder(&stubProvider{users: users})
	ctx := context.Background()

	if err := s.Run(ctx, 3); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n, _ := employees.Count(ctx); n != 2 {
		t.Fatalf("duplicate email should be dropped, got %d", n)
	}
}

func TestSeedEmployeesProviderFailure(t *testing.T) {
	upstream := domain.Internal("failed to fetch random users", errors.New("boom"))
	s, _, _ := newSeeder(&stubProvider{err: upstream})
	if err := s.Run(context.Background(), 5); !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
