package repositories

import (
	"context"
	"strings"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/search"
)

// MemoryDepartmentRepository keeps departments in process memory.
type MemoryDepartmentRepository struct {
	store *memoryStore[models.Department]
}

func NewMemoryDepartmentRepository() *MemoryDepartmentRepository {
	return &MemoryDepartmentRepository{
		store: newMemoryStore(func(d models.Department) string { return d.ID }),
	}
}

func (r *MemoryDepartmentRepository) FindAll(ctx context.Context) ([]models.Department, error) {
	items := r.store.snapshot()
	if items == nil {
		items = []models.Department{}
	}
	return items, nil
}

func (r *MemoryDepartmentRepository) FindOne(ctx context.Context, id string) (*models.Department, error) {
	d, ok := r.store.get(id)
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *MemoryDepartmentRepository) FindByName(ctx context.Context, name string) (*models.Department, error) {
	name = strings.TrimSpace(name)
	d, ok := r.store.find(func(d models.Department) bool { return strings.EqualFold(d.Name, name) })
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *MemoryDepartmentRepository) FindMany(ctx context.Context, params domain.QueryParams) ([]models.Department, error) {
	return search.FindMany(r.store.snapshot(), params), nil
}

func (r *MemoryDepartmentRepository) FindManyPaginated(ctx context.Context, params domain.PaginatedQueryParams) (domain.Page[models.Department], error) {
	return search.FindManyPaginated(r.store.snapshot(), params), nil
}

func (r *MemoryDepartmentRepository) Create(ctx context.Context, in models.CreateDepartmentInput) (models.Department, error) {
	d := models.NewDepartment(newID(), in, nowFunc())
	r.store.insert(d)
	return d, nil
}

func (r *MemoryDepartmentRepository) Update(ctx context.Context, id string, in models.UpdateDepartmentInput) (models.Department, error) {
	now := nowFunc()
	d, ok := r.store.update(id, func(d models.Department) models.Department { return d.ApplyUpdate(in, now) })
	if !ok {
		return models.Department{}, domain.NewNotFound("Department", id)
	}
	return d, nil
}

func (r *MemoryDepartmentRepository) Delete(ctx context.Context, id string) error {
	if !r.store.remove(id) {
		return domain.NewNotFound("Department", id)
	}
	return nil
}

func (r *MemoryDepartmentRepository) Count(ctx context.Context) (int, error) {
	return r.store.count(nil), nil
}

var _ DepartmentRepository = (*MemoryDepartmentRepository)(nil)
