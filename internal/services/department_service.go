package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/querybuilder"
	"github.com/guironm/crew-center/internal/repositories"
	"github.com/guironm/crew-center/internal/utils"
)

// DepartmentService owns department use cases. Employees is consulted to
// refuse deleting a department that still has staff.
type DepartmentService struct {
	Repo      repositories.DepartmentRepository
	Employees repositories.EmployeeRepository
}

func (s DepartmentService) FindAll(ctx context.Context) ([]models.Department, error) {
	return s.Repo.FindAll(ctx)
}

func (s DepartmentService) FindOne(ctx context.Context, id string) (models.Department, error) {
	d, err := s.Repo.FindOne(ctx, id)
	if err != nil {
		return models.Department{}, err
	}
	if d == nil {
		return models.Department{}, domain.NewNotFound("Department", id)
	}
	return *d, nil
}

// Find runs a search built from raw request parameters.
func (s DepartmentService) Find(ctx context.Context, raw map[string]string) ([]models.Department, error) {
	return s.Repo.FindMany(ctx, querybuilder.Departments.Build(raw))
}

func (s DepartmentService) FindPaginated(ctx context.Context, raw map[string]string) (domain.Page[models.Department], error) {
	return s.Repo.FindManyPaginated(ctx, querybuilder.Departments.BuildPaginated(raw))
}

func (s DepartmentService) Create(ctx context.Context, in models.CreateDepartmentInput) (models.Department, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := in.Validate(); err != nil {
		return models.Department{}, err
	}
	existing, err := s.Repo.FindByName(ctx, in.Name)
	if err != nil {
		return models.Department{}, err
	}
	if existing != nil {
		return models.Department{}, domain.NewConflict("Department", fmt.Sprintf("department %q already exists", in.Name))
	}

	d, err := s.Repo.Create(ctx, in)
	if err != nil {
		return models.Department{}, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "department", "create", "id="+d.ID)
	return d, nil
}

func (s DepartmentService) Update(ctx context.Context, id string, in models.UpdateDepartmentInput) (models.Department, error) {
	if in.Name != nil {
		n := utils.NormalizeSpace(*in.Name)
		in.Name = &n
	}
	if err := in.Validate(); err != nil {
		return models.Department{}, err
	}
	if in.Name != nil {
		existing, err := s.Repo.FindByName(ctx, *in.Name)
		if err != nil {
			return models.Department{}, err
		}
		if existing != nil && existing.ID != id {
			return models.Department{}, domain.NewConflict("Department", fmt.Sprintf("department %q already exists", *in.Name))
		}
	}

	d, err := s.Repo.Update(ctx, id, in)
	if err != nil {
		return models.Department{}, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "department", "update", "id="+id)
	return d, nil
}

// Delete refuses while any employee references the department.
func (s DepartmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.FindOne(ctx, id); err != nil {
		return err
	}
	if s.Employees != nil {
		n, err := s.Employees.CountByDepartment(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.NewConflict("Department", fmt.Sprintf("department still has %d employee(s)", n))
		}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "department", "delete", "id="+id)
	return nil
}
