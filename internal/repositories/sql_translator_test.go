package repositories

import (
	"context"
	"strings"
	"testing"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestTranslateEmpty(t *testing.T) {
	got := employeeSchema.translate(context.Background(), defaultDialect, domain.QueryParams{})
	assert.Empty(t, got.where)
	assert.Empty(t, got.args)
	assert.Equal(t, "e.created_at ASC, e.id ASC", got.orderBy)
}

func TestTranslateTextSearchEscapesWildcards(t *testing.T) {
	got := employeeSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		TextSearch: &domain.TextSearch{Query: "50%_Off!", Fields: []domain.Field{"name", "email", "salary"}},
	})
	assert.Equal(t, " WHERE (LOWER(e.name) LIKE ? ESCAPE '!' OR LOWER(e.email) LIKE ? ESCAPE '!')", got.where)
	assert.Equal(t, []any{"%50!%!_off!!%", "%50!%!_off!!%"}, got.args)
}

func TestTranslateTextSearchWithoutKnownFieldsMatchesNothing(t *testing.T) {
	got := departmentSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		TextSearch: &domain.TextSearch{Query: "x", Fields: []domain.Field{"budget"}},
	})
	assert.Equal(t, " WHERE 1 = 0", got.where)
}

func TestTranslateFiltersAreSortedAndTyped(t *testing.T) {
	id := "0b7e6f0e-7a4e-4a43-9c3e-1f0b2b8c9d10"
	got := employeeSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		Filters: domain.Filters{
			models.EmployeeFieldStatus:       "on_leave",
			models.EmployeeFieldDepartment:   "Engineering",
			models.EmployeeFieldDepartmentID: strings.ToUpper(id),
			models.EmployeeFieldSalary:       90000.0,
			models.EmployeeFieldHireDate:     nil,
		},
	})
	assert.Equal(t, " WHERE LOWER(d.name) = LOWER(?) AND e.department_id = ? AND e.hire_date IS NULL"+
		" AND e.salary = ? AND LOWER(e.status) = LOWER(?)", got.where)
	assert.Equal(t, []any{"Engineering", id, 90000.0, "on_leave"}, got.args)
}

func TestTranslateMalformedUUIDFilterMatchesNothing(t *testing.T) {
	got := employeeSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		Filters: domain.Filters{models.EmployeeFieldDepartmentID: "engineering"},
	})
	assert.Equal(t, " WHERE 1 = 0", got.where)
	assert.Empty(t, got.args)
}

func TestTranslateTextSearchKeepsWhitespace(t *testing.T) {
	got := departmentSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		TextSearch: &domain.TextSearch{Query: " Ops ", Fields: []domain.Field{"name"}},
	})
	assert.Equal(t, []any{"% ops %"}, got.args)
}

func TestTranslateSQLiteFoldsAndCollatesInGo(t *testing.T) {
	got := employeeSchema.translate(context.Background(), dialectFor("sqlite"), domain.QueryParams{
		TextSearch: &domain.TextSearch{Query: "ÉMILE", Fields: []domain.Field{"name"}},
		Filters:    domain.Filters{models.EmployeeFieldDepartment: "Design"},
		Sort:       &domain.Sort{Field: models.EmployeeFieldName, Order: domain.SortAsc},
	})
	assert.Equal(t, " WHERE (crew_lower(e.name) LIKE ? ESCAPE '!') AND crew_lower(d.name) = crew_lower(?)", got.where)
	assert.Equal(t, []any{"%émile%", "Design"}, got.args)
	assert.Equal(t, "CASE WHEN e.name IS NULL THEN 0 ELSE 1 END ASC, e.name COLLATE crew_text ASC, e.created_at ASC, e.id ASC", got.orderBy)

	assert.Equal(t, defaultDialect, dialectFor("mysql"))
	assert.Equal(t, defaultDialect, dialectFor("pgx"))
}

func TestTranslateUnknownFilterMatchesNothing(t *testing.T) {
	got := employeeSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		Filters: domain.Filters{"password": "x"},
	})
	assert.Equal(t, " WHERE 1 = 0", got.where)
}

func TestTranslateSort(t *testing.T) {
	got := employeeSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		Sort: &domain.Sort{Field: models.EmployeeFieldDepartment, Order: domain.SortDesc},
	})
	assert.Equal(t, "CASE WHEN d.name IS NULL THEN 0 ELSE 1 END DESC, LOWER(d.name) DESC, e.created_at ASC, e.id ASC", got.orderBy)

	got = employeeSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		Sort: &domain.Sort{Field: models.EmployeeFieldSalary, Order: domain.SortAsc},
	})
	assert.Equal(t, "CASE WHEN e.salary IS NULL THEN 0 ELSE 1 END ASC, e.salary ASC, e.created_at ASC, e.id ASC", got.orderBy)

	got = employeeSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		Sort: &domain.Sort{Field: "shoeSize"},
	})
	assert.Equal(t, "e.created_at ASC, e.id ASC", got.orderBy)
}

func TestSelectAndCountSQL(t *testing.T) {
	tr := departmentSchema.translate(context.Background(), defaultDialect, domain.QueryParams{
		TextSearch: &domain.TextSearch{Query: "ops", Fields: []domain.Field{"name"}},
	})
	q, args := departmentSchema.selectSQL(tr, &domain.Pagination{Page: 2, Limit: 5})
	assert.True(t, strings.HasSuffix(q, "ORDER BY d.created_at ASC, d.id ASC LIMIT ? OFFSET ?"), q)
	assert.Equal(t, []any{"%ops%", 5, 5}, args)

	cq, cargs := departmentSchema.countSQL(tr)
	assert.Equal(t, "SELECT COUNT(*) FROM departments d WHERE (LOWER(d.name) LIKE ? ESCAPE '!')", cq)
	assert.Equal(t, []any{"%ops%"}, cargs)
	assert.Len(t, tr.args, 1, "selectSQL must not mutate translated args")
}
