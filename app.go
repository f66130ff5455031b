package main

import (
	"fmt"

	intconfig "github.com/guironm/crew-center/internal/config"
	intdb "github.com/guironm/crew-center/internal/db"
	router "github.com/guironm/crew-center/internal/http"
	h "github.com/guironm/crew-center/internal/http/handlers"
	"github.com/guironm/crew-center/internal/repositories"
	"github.com/guironm/crew-center/internal/services"
)

type app struct {
	deps   router.Deps
	seeder services.Seeder
}

// newApp picks the store for env.StoreDriver and wires services on top of
// it. SQL stores are migrated first when DB_AUTO_MIGRATE is set.
func newApp(env intconfig.Env) (app, error) {
	var (
		departments repositories.DepartmentRepository
		employees   repositories.EmployeeRepository
		system      = h.SystemHandler{Store: env.StoreDriver}
	)

	switch env.StoreDriver {
	case intdb.DriverMemory:
		depts := repositories.NewMemoryDepartmentRepository()
		departments = depts
		employees = repositories.NewMemoryEmployeeRepository(depts)
	case intdb.DriverMySQL, intdb.DriverPostgres, intdb.DriverSQLite:
		db, err := intconfig.ConnectDB(env)
		if err != nil {
			return app{}, err
		}
		if env.DBAutoMigrate {
			if err := intdb.Migrate(db, env.StoreDriver); err != nil {
				intconfig.CloseDB()
				return app{}, err
			}
		}
		departments = repositories.NewSQLDepartmentRepository(db)
		employees = repositories.NewSQLEmployeeRepository(db)
		system.DB = db
	default:
		return app{}, fmt.Errorf("unknown STORE_DRIVER %q", env.StoreDriver)
	}

	users := services.NewRandomUserProvider(env.RandomUserAPIURL, env.RandomUserRPS)

	return app{
		deps: router.Deps{
			Env:         env,
			Employees:   services.EmployeeService{Repo: employees, Departments: departments},
			Departments: services.DepartmentService{Repo: departments, Employees: employees},
			Users:       services.UserService{Provider: users},
			Export:      services.ExportService{Employees: employees},
			Auth: services.AuthService{
				AdminEmail:   env.AdminEmail,
				PasswordHash: env.AdminPasswordHash,
				Secret:       []byte(env.AuthJWTSecret),
			},
			System: system,
		},
		seeder: services.Seeder{Departments: departments, Employees: employees, Users: users},
	}, nil
}
