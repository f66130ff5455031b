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

var employeeSchema = sqlSchema{
	resource: "Employee",
	selects: `e.id, e.name, e.email, e.role, e.department_id, e.salary, e.picture, e.hire_date, e.status,
		e.created_at, e.updated_at, d.id AS dept_id, d.name AS dept_name, d.description AS dept_description`,
	from: "employees e LEFT JOIN departments d ON d.id = e.department_id",
	columns: map[domain.Field]column{
		models.EmployeeFieldID:           {expr: "e.id", uuid: true},
		models.EmployeeFieldName:         {expr: "e.name", text: true},
		models.EmployeeFieldEmail:        {expr: "e.email", text: true},
		models.EmployeeFieldRole:         {expr: "e.role", text: true},
		models.EmployeeFieldDepartment:   {expr: "d.name", text: true},
		models.EmployeeFieldDepartmentID: {expr: "e.department_id", uuid: true},
		models.EmployeeFieldSalary:       {expr: "e.salary"},
		models.EmployeeFieldPicture:      {expr: "e.picture", text: true},
		models.EmployeeFieldHireDate:     {expr: "e.hire_date"},
		models.EmployeeFieldStatus:       {expr: "e.status", text: true},
		"createdAt":                      {expr: "e.created_at"},
		"updatedAt":                      {expr: "e.updated_at"},
	},
	tieBreak: "e.created_at ASC, e.id ASC",
}

type employeeRow struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Email           string         `db:"email"`
	Role            string         `db:"role"`
	DepartmentID    string         `db:"department_id"`
	Salary          float64        `db:"salary"`
	Picture         sql.NullString `db:"picture"`
	HireDate        sql.NullTime   `db:"hire_date"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	DeptID          sql.NullString `db:"dept_id"`
	DeptName        sql.NullString `db:"dept_name"`
	DeptDescription sql.NullString `db:"dept_description"`
}

func (r employeeRow) model() models.Employee {
	e := models.Employee{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		DepartmentID: r.DepartmentID,
		Salary:       r.Salary,
		Status:       models.EmployeeStatus(r.Status),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	if r.Picture.Valid {
		p := r.Picture.String
		e.Picture = &p
	}
	if r.HireDate.Valid {
		h := r.HireDate.Time.UTC()
		e.HireDate = &h
	}
	if r.DeptID.Valid {
		e.Department = &models.DepartmentRef{ID: r.DeptID.String, Name: r.DeptName.String, Description: r.DeptDescription.String}
	}
	return e
}

// SQLEmployeeRepository stores employees in a relational database and joins
// the department snapshot on every read.
type SQLEmployeeRepository struct {
	DB *sqlx.DB
}

func NewSQLEmployeeRepository(db *sqlx.DB) SQLEmployeeRepository {
	return SQLEmployeeRepository{DB: db}
}

const insertEmployeeSQL = `INSERT INTO employees
	(id, name, email, role, department_id, salary, picture, hire_date, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func employeeArgs(e models.Employee) []any {
	return []any{e.ID, e.Name, e.Email, e.Role, e.DepartmentID, e.Salary, nullable(e.Picture), nullable(e.HireDate), string(e.Status), e.CreatedAt, e.UpdatedAt}
}

// nullable turns a nil pointer into SQL NULL and dereferences the rest.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func (r SQLEmployeeRepository) dialect() dialect {
	return dialectFor(r.DB.DriverName())
}

func (r SQLEmployeeRepository) query(ctx context.Context, params domain.QueryParams, page *domain.Pagination) ([]models.Employee, error) {
	q, args := employeeSchema.selectSQL(employeeSchema.translate(ctx, r.dialect(), params), page)
	var rows []employeeRow
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(q), args...); err != nil {
		return nil, domain.Internal("failed to query employees", err)
	}
	out := make([]models.Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

func (r SQLEmployeeRepository) one(ctx context.Context, where string, arg any) (*models.Employee, error) {
	q := "SELECT " + employeeSchema.selects + " FROM " + employeeSchema.from + " WHERE " + where + " LIMIT 1"
	var row employeeRow
	err := r.DB.GetContext(ctx, &row, r.DB.Rebind(q), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Internal("failed to load employee", err)
	}
	e := row.model()
	return &e, nil
}

func (r SQLEmployeeRepository) count(ctx context.Context, q string, args ...any) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, r.DB.Rebind(q), args...); err != nil {
		return 0, domain.Internal("failed to count employees", err)
	}
	return n, nil
}

func (r SQLEmployeeRepository) FindAll(ctx context.Context) ([]models.Employee, error) {
	return r.query(ctx, domain.QueryParams{}, nil)
}

func (r SQLEmployeeRepository) FindOne(ctx context.Context, id string) (*models.Employee, error) {
	return r.one(ctx, "e.id = ?", id)
}

func (r SQLEmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return r.one(ctx, r.dialect().equalFold("e.email"), strings.TrimSpace(email))
}

func (r SQLEmployeeRepository) FindMany(ctx context.Context, params domain.QueryParams) ([]models.Employee, error) {
	return r.query(ctx, params, nil)
}

func (r SQLEmployeeRepository) FindManyPaginated(ctx context.Context, params domain.PaginatedQueryParams) (domain.Page[models.Employee], error) {
	cq, cargs := employeeSchema.countSQL(employeeSchema.translate(ctx, r.dialect(), params.QueryParams))
	total, err := r.count(ctx, cq, cargs...)
	if err != nil {
		return domain.Page[models.Employee]{}, err
	}
	data, err := r.query(ctx, params.QueryParams, &params.Pagination)
	if err != nil {
		return domain.Page[models.Employee]{}, err
	}
	return domain.Page[models.Employee]{Data: data, Meta: domain.NewPageMeta(params.Pagination, total)}, nil
}

func (r SQLEmployeeRepository) Create(ctx context.Context, in models.CreateEmployeeInput) (models.Employee, error) {
	e := models.NewEmployee(newID(), in, nowFunc())
	if _, err := r.DB.ExecContext(ctx, r.DB.Rebind(insertEmployeeSQL), employeeArgs(e)...); err != nil {
		return models.Employee{}, mapWriteError("Employee", "create", err)
	}
	return r.reload(ctx, e)
}

// AddMany inserts every payload in one transaction.
func (r SQLEmployeeRepository) AddMany(ctx context.Context, in []models.CreateEmployeeInput) ([]models.Employee, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domain.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := nowFunc()
	stmt := tx.Rebind(insertEmployeeSQL)
	out := make([]models.Employee, 0, len(in))
	for _, c := range in {
		e := models.NewEmployee(newID(), c, now)
		if _, err := tx.ExecContext(ctx, stmt, employeeArgs(e)...); err != nil {
			return nil, mapWriteError("Employee", "create", err)
		}
		out = append(out, e)
	}
	if err := tx.Commit(); err != nil {
		return nil, domain.Internal("failed to commit employees", err)
	}
	return out, nil
}

func (r SQLEmployeeRepository) Update(ctx context.Context, id string, in models.UpdateEmployeeInput) (models.Employee, error) {
	current, err := r.FindOne(ctx, id)
	if err != nil {
		return models.Employee{}, err
	}
	if current == nil {
		return models.Employee{}, domain.NewNotFound("Employee", id)
	}
	e := current.ApplyUpdate(in, nowFunc())
	_, err = r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE employees SET
		name = ?, email = ?, role = ?, department_id = ?, salary = ?, picture = ?, hire_date = ?, status = ?, updated_at = ?
		WHERE id = ?`),
		e.Name, e.Email, e.Role, e.DepartmentID, e.Salary, nullable(e.Picture), nullable(e.HireDate), string(e.Status), e.UpdatedAt, id)
	if err != nil {
		return models.Employee{}, mapWriteError("Employee", "update", err)
	}
	return r.reload(ctx, e)
}

// reload rereads e so the department snapshot reflects the stored reference.
func (r SQLEmployeeRepository) reload(ctx context.Context, e models.Employee) (models.Employee, error) {
	fresh, err := r.FindOne(ctx, e.ID)
	if err != nil {
		return models.Employee{}, err
	}
	if fresh == nil {
		return e, nil
	}
	return *fresh, nil
}

func (r SQLEmployeeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM employees WHERE id = ?`), id)
	if err != nil {
		return mapWriteError("Employee", "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Internal("failed to delete Employee", err)
	}
	if n == 0 {
		return domain.NewNotFound("Employee", id)
	}
	return nil
}

func (r SQLEmployeeRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM employees`)
}

func (r SQLEmployeeRepository) CountByStatus(ctx context.Context, status models.EmployeeStatus) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM employees WHERE status = ?`, string(status))
}

func (r SQLEmployeeRepository) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM employees WHERE department_id = ?`, departmentID)
}

func (r SQLEmployeeRepository) CountUniqueDepartments(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(DISTINCT department_id) FROM employees`)
}

var _ EmployeeRepository = SQLEmployeeRepository{}
