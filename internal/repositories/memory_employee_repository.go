package repositories

import (
	"context"
	"strings"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/search"
)

// departmentLister is the slice of DepartmentRepository needed to hydrate
// the department snapshot on employees.
type departmentLister interface {
	FindAll(ctx context.Context) ([]models.Department, error)
}

// MemoryEmployeeRepository keeps employees in process memory. Reads attach a
// fresh department snapshot so that "department" filters and sorts see the
// current department name.
type MemoryEmployeeRepository struct {
	store       *memoryStore[models.Employee]
	departments departmentLister
}

func NewMemoryEmployeeRepository(departments departmentLister) *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{
		store:       newMemoryStore(func(e models.Employee) string { return e.ID }),
		departments: departments,
	}
}

func (r *MemoryEmployeeRepository) hydrate(ctx context.Context, items []models.Employee) ([]models.Employee, error) {
	if items == nil {
		return []models.Employee{}, nil
	}
	if r.departments == nil {
		return items, nil
	}
	depts, err := r.departments.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Department, len(depts))
	for _, d := range depts {
		byID[d.ID] = d
	}
	for i := range items {
		if d, ok := byID[items[i].DepartmentID]; ok {
			items[i].Department = d.Ref()
		} else {
			items[i].Department = nil
		}
	}
	return items, nil
}

func (r *MemoryEmployeeRepository) hydrateOne(ctx context.Context, e models.Employee) (models.Employee, error) {
	items, err := r.hydrate(ctx, []models.Employee{e})
	if err != nil {
		return models.Employee{}, err
	}
	return items[0], nil
}

func (r *MemoryEmployeeRepository) FindAll(ctx context.Context) ([]models.Employee, error) {
	return r.hydrate(ctx, r.store.snapshot())
}

func (r *MemoryEmployeeRepository) FindOne(ctx context.Context, id string) (*models.Employee, error) {
	e, ok := r.store.get(id)
	if !ok {
		return nil, nil
	}
	e, err := r.hydrateOne(ctx, e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *MemoryEmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	email = strings.TrimSpace(email)
	e, ok := r.store.find(func(e models.Employee) bool { return strings.EqualFold(e.Email, email) })
	if !ok {
		return nil, nil
	}
	e, err := r.hydrateOne(ctx, e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *MemoryEmployeeRepository) FindMany(ctx context.Context, params domain.QueryParams) ([]models.Employee, error) {
	items, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return search.FindMany(items, params), nil
}

func (r *MemoryEmployeeRepository) FindManyPaginated(ctx context.Context, params domain.PaginatedQueryParams) (domain.Page[models.Employee], error) {
	items, err := r.FindAll(ctx)
	if err != nil {
		return domain.Page[models.Employee]{}, err
	}
	return search.FindManyPaginated(items, params), nil
}

func (r *MemoryEmployeeRepository) Create(ctx context.Context, in models.CreateEmployeeInput) (models.Employee, error) {
	e := models.NewEmployee(newID(), in, nowFunc())
	r.store.insert(e)
	return r.hydrateOne(ctx, e)
}

func (r *MemoryEmployeeRepository) AddMany(ctx context.Context, in []models.CreateEmployeeInput) ([]models.Employee, error) {
	now := nowFunc()
	items := make([]models.Employee, 0, len(in))
	for _, c := range in {
		items = append(items, models.NewEmployee(newID(), c, now))
	}
	r.store.insert(items...)
	return r.hydrate(ctx, items)
}

func (r *MemoryEmployeeRepository) Update(ctx context.Context, id string, in models.UpdateEmployeeInput) (models.Employee, error) {
	now := nowFunc()
	e, ok := r.store.update(id, func(e models.Employee) models.Employee { return e.ApplyUpdate(in, now) })
	if !ok {
		return models.Employee{}, domain.NewNotFound("Employee", id)
	}
	return r.hydrateOne(ctx, e)
}

func (r *MemoryEmployeeRepository) Delete(ctx context.Context, id string) error {
	if !r.store.remove(id) {
		return domain.NewNotFound("Employee", id)
	}
	return nil
}

func (r *MemoryEmployeeRepository) Count(ctx context.Context) (int, error) {
	return r.store.count(nil), nil
}

func (r *MemoryEmployeeRepository) CountByStatus(ctx context.Context, status models.EmployeeStatus) (int, error) {
	return r.store.count(func(e models.Employee) bool { return e.Status == status }), nil
}

func (r *MemoryEmployeeRepository) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	return r.store.count(func(e models.Employee) bool { return e.DepartmentID == departmentID }), nil
}

func (r *MemoryEmployeeRepository) CountUniqueDepartments(ctx context.Context) (int, error) {
	seen := map[string]struct{}{}
	for _, e := range r.store.snapshot() {
		if e.DepartmentID != "" {
			seen[e.DepartmentID] = struct{}{}
		}
	}
	return len(seen), nil
}

var _ EmployeeRepository = (*MemoryEmployeeRepository)(nil)
