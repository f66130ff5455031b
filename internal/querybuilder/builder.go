// Package querybuilder turns loosely-typed request parameters into a
// domain.QueryParams. It never fails: unknown or malformed input degrades to
// "no constraint", and pagination values are clamped.
package querybuilder

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Reserved parameter names; everything else is a candidate filter.
const (
	ParamQuery     = "query"
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
	ParamPage      = "page"
	ParamLimit     = "limit"
)

// FilterField maps a request parameter onto a record field. Valid, when set,
// drops values it rejects. Normalize, when set, rewrites the raw value before
// it becomes a filter.
type FilterField struct {
	Field     domain.Field
	Valid     func(string) bool
	Normalize func(string) any
}

// Schema is the per-record allow-list.
type Schema struct {
	TextSearchFields []domain.Field
	SortableFields   []domain.Field
	Filters          map[string]FilterField
}

type Builder struct {
	schema Schema
}

func New(schema Schema) Builder {
	return Builder{schema: schema}
}

var Employees = New(Schema{
	TextSearchFields: []domain.Field{models.EmployeeFieldName, models.EmployeeFieldEmail, models.EmployeeFieldRole},
	SortableFields: []domain.Field{
		models.EmployeeFieldName,
		models.EmployeeFieldEmail,
		models.EmployeeFieldRole,
		models.EmployeeFieldDepartment,
		models.EmployeeFieldSalary,
		models.EmployeeFieldStatus,
		models.EmployeeFieldHireDate,
	},
	Filters: map[string]FilterField{
		"department":   {Field: models.EmployeeFieldDepartment},
		"departmentId": {Field: models.EmployeeFieldDepartmentID, Valid: isUUID},
		"status": {Field: models.EmployeeFieldStatus, Normalize: func(s string) any {
			return models.NormalizeStatus(s)
		}},
	},
})

var Departments = New(Schema{
	TextSearchFields: []domain.Field{models.DepartmentFieldName, models.DepartmentFieldDescription},
	SortableFields:   []domain.Field{models.DepartmentFieldID, models.DepartmentFieldName, models.DepartmentFieldDescription},
})

func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}

// Build converts raw parameters into query params.
func (b Builder) Build(raw map[string]string) domain.QueryParams {
	var params domain.QueryParams

	if q := strings.TrimSpace(raw[ParamQuery]); q != "" && len(b.schema.TextSearchFields) > 0 {
		params.TextSearch = &domain.TextSearch{
			Query:  q,
			Fields: slices.Clone(b.schema.TextSearchFields),
		}
	}

	for name, ff := range b.schema.Filters {
		v := strings.TrimSpace(raw[name])
		if v == "" || (ff.Valid != nil && !ff.Valid(v)) {
			continue
		}
		if params.Filters == nil {
			params.Filters = domain.Filters{}
		}
		if ff.Normalize != nil {
			params.Filters[ff.Field] = ff.Normalize(v)
		} else {
			params.Filters[ff.Field] = v
		}
	}

	sortBy := domain.Field(strings.TrimSpace(raw[ParamSortBy]))
	if sortBy != "" && slices.Contains(b.schema.SortableFields, sortBy) {
		params.Sort = &domain.Sort{
			Field: sortBy,
			Order: domain.ParseSortOrder(strings.ToLower(strings.TrimSpace(raw[ParamSortOrder]))),
		}
	}

	return params
}

// BuildPaginated is Build plus page and limit.
func (b Builder) BuildPaginated(raw map[string]string) domain.PaginatedQueryParams {
	return domain.PaginatedQueryParams{
		QueryParams: b.Build(raw),
		Pagination: domain.Pagination{
			Page:  clampInt(raw[ParamPage], DefaultPage, 1, 0),
			Limit: clampInt(raw[ParamLimit], DefaultLimit, 1, MaxLimit),
		},
	}
}

// clampInt parses s, falling back to def when absent or malformed, and
// clamps into [lo, hi]. hi <= 0 means unbounded.
func clampInt(s string, def, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	if n < lo {
		n = lo
	}
	if hi > 0 && n > hi {
		n = hi
	}
	return n
}

// FromValues flattens a URL query, keeping the first value of each key.
func FromValues(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}
