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

type EmployeeService struct {
	Repo        repositories.EmployeeRepository
	Departments repositories.DepartmentRepository
}

func (s EmployeeService) FindAll(ctx context.Context) ([]models.Employee, error) {
	return s.Repo.FindAll(ctx)
}

func (s EmployeeService) FindOne(ctx context.Context, id string) (models.Employee, error) {
	e, err := s.Repo.FindOne(ctx, id)
	if err != nil {
		return models.Employee{}, err
	}
	if e == nil {
		return models.Employee{}, domain.NewNotFound("Employee", id)
	}
	return *e, nil
}

// Find runs a search built from raw request parameters.
func (s EmployeeService) Find(ctx context.Context, raw map[string]string) ([]models.Employee, error) {
	return s.Repo.FindMany(ctx, querybuilder.Employees.Build(raw))
}

func (s EmployeeService) FindPaginated(ctx context.Context, raw map[string]string) (domain.Page[models.Employee], error) {
	return s.Repo.FindManyPaginated(ctx, querybuilder.Employees.BuildPaginated(raw))
}

func (s EmployeeService) Create(ctx context.Context, in models.CreateEmployeeInput) (models.Employee, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return models.Employee{}, err
	}

	deptID, err := s.resolveDepartment(ctx, in.DepartmentID, in.Department)
	if err != nil {
		return models.Employee{}, err
	}
	in.DepartmentID = deptID

	if err := s.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return models.Employee{}, err
	}

	e, err := s.Repo.Create(ctx, in)
	if err != nil {
		return models.Employee{}, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "employee", "create", "id="+e.ID)
	return e, nil
}

func (s EmployeeService) Update(ctx context.Context, id string, in models.UpdateEmployeeInput) (models.Employee, error) {
	if in.Name != nil {
		n := utils.NormalizeSpace(*in.Name)
		in.Name = &n
	}
	if in.Email != nil {
		e := strings.TrimSpace(*in.Email)
		in.Email = &e
	}
	if err := in.Validate(); err != nil {
		return models.Employee{}, err
	}
	if _, err := s.FindOne(ctx, id); err != nil {
		return models.Employee{}, err
	}

	if in.DepartmentID != nil || in.Department != nil {
		var byID, byName string
		if in.DepartmentID != nil {
			byID = *in.DepartmentID
		}
		if in.Department != nil {
			byName = *in.Department
		}
		deptID, err := s.resolveDepartment(ctx, byID, byName)
		if err != nil {
			return models.Employee{}, err
		}
		in.DepartmentID = &deptID
	}

	if in.Email != nil {
		if err := s.ensureEmailFree(ctx, *in.Email, id); err != nil {
			return models.Employee{}, err
		}
	}

	e, err := s.Repo.Update(ctx, id, in)
	if err != nil {
		return models.Employee{}, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "employee", "update", "id="+id)
	return e, nil
}

func (s EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "employee", "delete", "id="+id)
	return nil
}

// Statistics counts employees per status and the distinct departments they
// belong to.
func (s EmployeeService) Statistics(ctx context.Context) (models.EmployeeStatistics, error) {
	var (
		stats models.EmployeeStatistics
		err   error
	)
	if stats.Total, err = s.Repo.Count(ctx); err != nil {
		return stats, err
	}
	if stats.Active, err = s.Repo.CountByStatus(ctx, models.StatusActive); err != nil {
		return stats, err
	}
	if stats.Inactive, err = s.Repo.CountByStatus(ctx, models.StatusInactive); err != nil {
		return stats, err
	}
	if stats.OnLeave, err = s.Repo.CountByStatus(ctx, models.StatusOnLeave); err != nil {
		return stats, err
	}
	if stats.Departments, err = s.Repo.CountUniqueDepartments(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

// resolveDepartment returns the id of an existing department given either
// its id or its name. The id wins when both are present.
func (s EmployeeService) resolveDepartment(ctx context.Context, id, name string) (string, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id != "" {
		d, err := s.Departments.FindOne(ctx, id)
		if err != nil {
			return "", err
		}
		if d == nil {
			return "", domain.NewValidation("departmentId", fmt.Sprintf("Department with ID %s does not exist", id))
		}
		return d.ID, nil
	}
	if name == "" {
		return "", domain.NewValidation("departmentId", "This field is required")
	}
	d, err := s.Departments.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	if d == nil {
		return "", domain.NewValidation("department", fmt.Sprintf("Department %q does not exist", name))
	}
	return d.ID, nil
}

func (s EmployeeService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != ownerID {
		return domain.NewConflict("Employee", fmt.Sprintf("email %s is already in use", email))
	}
	return nil
}
