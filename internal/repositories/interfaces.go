package repositories

import (
	"context"
	"time"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"

	"github.com/google/uuid"
)

// Repository is the storage contract shared by every record kind. FindOne
// returns (nil, nil) when the id is unknown; Update and Delete return a
// domain.NotFoundError instead.
type Repository[T any, C any, U any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindOne(ctx context.Context, id string) (*T, error)
	FindMany(ctx context.Context, params domain.QueryParams) ([]T, error)
	FindManyPaginated(ctx context.Context, params domain.PaginatedQueryParams) (domain.Page[T], error)
	Create(ctx context.Context, in C) (T, error)
	Update(ctx context.Context, id string, in U) (T, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type DepartmentRepository interface {
	Repository[models.Department, models.CreateDepartmentInput, models.UpdateDepartmentInput]
	FindByName(ctx context.Context, name string) (*models.Department, error)
}

// EmployeeRepository expects DepartmentID to be resolved on create and
// update payloads; the Department name field is ignored at this layer.
type EmployeeRepository interface {
	Repository[models.Employee, models.CreateEmployeeInput, models.UpdateEmployeeInput]
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	AddMany(ctx context.Context, in []models.CreateEmployeeInput) ([]models.Employee, error)
	CountByStatus(ctx context.Context, status models.EmployeeStatus) (int, error)
	CountByDepartment(ctx context.Context, departmentID string) (int, error)
	CountUniqueDepartments(ctx context.Context) (int, error)
}

// Clock and ID sources are swappable for tests.
var (
	nowFunc = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
	newID   = func() string { return uuid.NewString() }
)
