package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	intconfig "github.com/guironm/crew-center/internal/config"
	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/domain/models"
	h "github.com/guironm/crew-center/internal/http/handlers"
	"github.com/guironm/crew-center/internal/repositories"
	"github.com/guironm/crew-center/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	ids    map[string]string
}

func newTestApp(t *testing.T, env intconfig.Env) testApp {
	t.Helper()
	depts := repositories.NewMemoryDepartmentRepository()
	employees := repositories.NewMemoryEmployeeRepository(depts)
	seeder := services.Seeder{Departments: depts, Employees: employees}
	lookup, err := seeder.SeedDepartments(context.Background())
	require.NoError(t, err)

	ids := map[string]string{}
	for _, name := range lookup.Names() {
		ids[name], _ = lookup.ID(name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	if env.StoreDriver == "" {
		env.StoreDriver = "memory"
	}
	r := NewRouter(Deps{
		Env:         env,
		Employees:   services.EmployeeService{Repo: employees, Departments: depts},
		Departments: services.DepartmentService{Repo: depts, Employees: employees},
		Export:      services.ExportService{Employees: employees},
		Auth:        services.AuthService{AdminEmail: "admin@crew.center", PasswordHash: string(hash), Secret: []byte(env.AuthJWTSecret)},
		System:      h.SystemHandler{Store: env.StoreDriver},
	})
	return testApp{router: r, ids: ids}
}

func (a testApp) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t, intconfig.Env{})

	w := app.do(t, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/db-check", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/routes", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/employees/paginated")

	w = app.do(t, http.MethodGet, "/api/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmployeeLifecycle(t *testing.T) {
	app := newTestApp(t, intconfig.Env{})

	w := app.do(t, http.MethodPost, "/api/employees", map[string]any{
		"name": "Mae Jemison", "email": "mae@example.com", "role": "Software Engineer",
		"department": "Engineering", "salary": 125000,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Employee](t, w)
	assert.Equal(t, app.ids["Engineering"], created.DepartmentID)
	assert.Equal(t, models.StatusActive, created.Status)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = app.do(t, http.MethodGet, "/api/employees/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPut, "/api/employees/"+created.ID, map[string]any{"status": "on_leave", "picture": nil}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusOnLeave, decode[models.Employee](t, w).Status)

	w = app.do(t, http.MethodGet, "/api/employees/statistics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EmployeeStatistics{Total: 1, OnLeave: 1, Departments: 1}, decode[models.EmployeeStatistics](t, w))

	w = app.do(t, http.MethodDelete, "/api/employees/"+created.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, http.MethodDelete, "/api/employees/"+created.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode[h.ErrorResponse](t, w).Code)
}

func TestEmployeeValidationAndConflict(t *testing.T) {
	app := newTestApp(t, intconfig.Env{})

	w := app.do(t, http.MethodPost, "/api/employees", map[string]any{
		"name": "X", "email": "nope", "role": "", "departmentId": app.ids["Sales"], "salary": -1,
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[struct {
		Code    string              `json:"code"`
		Details []domain.FieldError `json:"details"`
	}](t, w)
	assert.Equal(t, "validation_error", resp.Code)
	assert.Len(t, resp.Details, 4)

	body := map[string]any{"name": "Ada", "email": "ada@example.com", "role": "Analyst", "departmentId": app.ids["Finance"], "salary": 1}
	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/employees", body, nil).Code)
	assert.Equal(t, http.StatusConflict, app.do(t, http.MethodPost, "/api/employees", body, nil).Code)

	w = app.do(t, http.MethodPost, "/api/employees", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmployeeSearchAndPagination(t *testing.T) {
	app := newTestApp(t, intconfig.Env{})
	for i, name := range []string{"Cleo", "Abe", "Bo"} {
		body := map[string]any{
			"name": name, "email": name + "@example.com", "role": "Recruiter",
			"departmentId": app.ids["HR"], "salary": 50000 + i,
		}
		require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/employees", body, nil).Code)
	}

	w := app.do(t, http.MethodGet, "/api/employees/search?department=hr&sortBy=name&sortOrder=asc", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Employee](t, w)
	require.Len(t, list, 3)
	assert.Equal(t, "Abe", list[0].Name)

	w = app.do(t, http.MethodGet, "/api/employees/paginated?limit=2&page=2&sortBy=name", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.Page[models.Employee]](t, w)
	assert.Equal(t, domain.PageMeta{Page: 2, Limit: 2, TotalItems: 3, TotalPages: 2, HasPreviousPage: true}, page.Meta)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Cleo", page.Data[0].Name)

	w = app.do(t, http.MethodGet, "/api/employees/search?query=zzz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = app.do(t, http.MethodGet, "/api/employees/export/xlsx", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}

func TestDepartmentRoutes(t *testing.T) {
	app := newTestApp(t, intconfig.Env{})

	w := app.do(t, http.MethodGet, "/api/departments/paginated?limit=5&sortBy=name&sortOrder=desc", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.Page[models.Department]](t, w)
	assert.Equal(t, 7, page.Meta.TotalItems)
	assert.Equal(t, "Sales", page.Data[0].Name)

	w = app.do(t, http.MethodPost, "/api/departments", map[string]any{"name": "Legal", "description": "Contracts and compliance"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	legal := decode[models.Department](t, w)

	w = app.do(t, http.MethodPost, "/api/departments", map[string]any{"name": "legal", "description": "Contracts and compliance"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/employees", map[string]any{
		"name": "Lex", "email": "lex@example.com", "role": "Counsel", "departmentId": legal.ID, "salary": 1,
	}, nil).Code)
	assert.Equal(t, http.StatusConflict, app.do(t, http.MethodDelete, "/api/departments/"+legal.ID, nil, nil).Code)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/departments/unknown", nil, nil).Code)
}

func TestWritesRequireTokenWhenAuthEnabled(t *testing.T) {
	app := newTestApp(t, intconfig.Env{AuthJWTSecret: "secret"})
	body := map[string]any{"name": "Ops", "description": "Operations and facilities"}

	w := app.do(t, http.MethodPost, "/api/departments", body, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@crew.center", "password": "bad"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@crew.center", "password": "pw"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token

	w = app.do(t, http.MethodPost, "/api/departments", body, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// reads stay public
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/departments", nil, nil).Code)
}
