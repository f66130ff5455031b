package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

var departmentSchema = sqlSchema{
	resource: "Department",
	selects:  "d.id, d.name, d.description, d.created_at, d.updated_at",
	from:     "departments d",
	columns: map[domain.Field]column{
		models.DepartmentFieldID:          {expr: "d.id", uuid: true},
		models.DepartmentFieldName:        {expr: "d.name", text: true},
		models.DepartmentFieldDescription: {expr: "d.description", text: true},
		"createdAt":                       {expr: "d.created_at"},
		"updatedAt":                       {expr: "d.updated_at"},
	},
	tieBreak: "d.created_at ASC, d.id ASC",
}

type departmentRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r departmentRow) model() models.Department {
	return models.Department{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// SQLDepartmentRepository stores departments in a relational database.
type SQLDepartmentRepository struct {
	DB *sqlx.DB
}

func NewSQLDepartmentRepository(db *sqlx.DB) SQLDepartmentRepository {
	return SQLDepartmentRepository{DB: db}
}

func (r SQLDepartmentRepository) dialect() dialect {
	return dialectFor(r.DB.DriverName())
}

func (r SQLDepartmentRepository) query(ctx context.Context, params domain.QueryParams, page *domain.Pagination) ([]models.Department, error) {
	q, args := departmentSchema.selectSQL(departmentSchema.translate(ctx, r.dialect(), params), page)
	var rows []departmentRow
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(q), args...); err != nil {
		return nil, domain.Internal("failed to query departments", err)
	}
	out := make([]models.Department, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

func (r SQLDepartmentRepository) one(ctx context.Context, where string, arg any) (*models.Department, error) {
	q := "SELECT " + departmentSchema.selects + " FROM " + departmentSchema.from + " WHERE " + where + " LIMIT 1"
	var row departmentRow
	err := r.DB.GetContext(ctx, &row, r.DB.Rebind(q), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Internal("failed to load department", err)
	}
	d := row.model()
	return &d, nil
}

func (r SQLDepartmentRepository) FindAll(ctx context.Context) ([]models.Department, error) {
	return r.query(ctx, domain.QueryParams{}, nil)
}

func (r SQLDepartmentRepository) FindOne(ctx context.Context, id string) (*models.Department, error) {
	return r.one(ctx, "d.id = ?", id)
}

func (r SQLDepartmentRepository) FindByName(ctx context.Context, name string) (*models.Department, error) {
	return r.one(ctx, r.dialect().equalFold("d.name"), strings.TrimSpace(name))
}

func (r SQLDepartmentRepository) FindMany(ctx context.Context, params domain.QueryParams) ([]models.Department, error) {
	return r.query(ctx, params, nil)
}

func (r SQLDepartmentRepository) FindManyPaginated(ctx context.Context, params domain.PaginatedQueryParams) (domain.Page[models.Department], error) {
	t := departmentSchema.translate(ctx, r.dialect(), params.QueryParams)
	cq, cargs := departmentSchema.countSQL(t)
	var total int
	if err := r.DB.GetContext(ctx, &total, r.DB.Rebind(cq), cargs...); err != nil {
		return domain.Page[models.Department]{}, domain.Internal("failed to count departments", err)
	}
	data, err := r.query(ctx, params.QueryParams, &params.Pagination)
	if err != nil {
		return domain.Page[models.Department]{}, err
	}
	return domain.Page[models.Department]{Data: data, Meta: domain.NewPageMeta(params.Pagination, total)}, nil
}

func (r SQLDepartmentRepository) Create(ctx context.Context, in models.CreateDepartmentInput) (models.Department, error) {
	d := models.NewDepartment(newID(), in, nowFunc())
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(
		`INSERT INTO departments (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`),
		d.ID, d.Name, d.Description, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return models.Department{}, mapWriteError("Department", "create", err)
	}
	return d, nil
}

func (r SQLDepartmentRepository) Update(ctx context.Context, id string, in models.UpdateDepartmentInput) (models.Department, error) {
	current, err := r.FindOne(ctx, id)
	if err != nil {
		return models.Department{}, err
	}
	if current == nil {
		return models.Department{}, domain.NewNotFound("Department", id)
	}
	d := current.ApplyUpdate(in, nowFunc())
	_, err = r.DB.ExecContext(ctx, r.DB.Rebind(
		`UPDATE departments SET name = ?, description = ?, updated_at = ? WHERE id = ?`),
		d.Name, d.Description, d.UpdatedAt, id)
	if err != nil {
		return models.Department{}, mapWriteError("Department", "update", err)
	}
	return d, nil
}

func (r SQLDepartmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM departments WHERE id = ?`), id)
	if err != nil {
		return mapWriteError("Department", "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Internal("failed to delete Department", err)
	}
	if n == 0 {
		return domain.NewNotFound("Department", id)
	}
	return nil
}

func (r SQLDepartmentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM departments`); err != nil {
		return 0, domain.Internal("failed to count departments", err)
	}
	return n, nil
}

var _ DepartmentRepository = SQLDepartmentRepository{}
