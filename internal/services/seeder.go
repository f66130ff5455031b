package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/repositories"
	"github.com/guironm/crew-center/internal/utils"
)

const (
	seedSalaryMin      = 60000
	seedSalaryMax      = 150000
	seedHireWindowDays = 5 * 365
)

// DepartmentLookup maps department name to id. Built once after seeding and
// never mutated afterwards.
type DepartmentLookup struct {
	names []string
	ids   map[string]string
}

func (l DepartmentLookup) ID(name string) (string, bool) {
	id, ok := l.ids[name]
	return id, ok
}

func (l DepartmentLookup) Names() []string {
	return append([]string(nil), l.names...)
}

func (l DepartmentLookup) Len() int { return len(l.names) }

// Seeder populates an empty store with the required departments and a batch
// of synthetic employees.
type Seeder struct {
	Departments repositories.DepartmentRepository
	Employees   repositories.EmployeeRepository
	Users       UserProvider
	Rand        *rand.Rand
	Now         func() time.Time
}

func (s Seeder) rng() *rand.Rand {
	if s.Rand != nil {
		return s.Rand
	}
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
}

func (s Seeder) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// Run seeds departments, then employees.
func (s Seeder) Run(ctx context.Context, employeeCount int) error {
	lookup, err := s.SeedDepartments(ctx)
	if err != nil {
		return err
	}
	_, err = s.SeedEmployees(ctx, employeeCount, lookup)
	return err
}

// SeedDepartments creates every missing required department and returns the
// name to id lookup over all of them.
func (s Seeder) SeedDepartments(ctx context.Context) (DepartmentLookup, error) {
	reqID := utils.RequestIDFrom(ctx)
	lookup := DepartmentLookup{ids: map[string]string{}}
	created := 0
	for _, in := range models.RequiredDepartments {
		d, err := s.Departments.FindByName(ctx, in.Name)
		if err != nil {
			return DepartmentLookup{}, err
		}
		if d == nil {
			nd, err := s.Departments.Create(ctx, in)
			if err != nil {
				return DepartmentLookup{}, err
			}
			d = &nd
			created++
		}
		lookup.names = append(lookup.names, in.Name)
		lookup.ids[in.Name] = d.ID
	}
	utils.LogEvent(reqID, "seeder", "departments", fmt.Sprintf("created=%d total=%d", created, lookup.Len()))
	return lookup, nil
}

// SeedEmployees is a no-op when any employee exists. Otherwise it fetches
// count random users and stores them as employees. It returns the number
// created.
func (s Seeder) SeedEmployees(ctx context.Context, count int, lookup DepartmentLookup) (int, error) {
	reqID := utils.RequestIDFrom(ctx)
	existing, err := s.Employees.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		utils.LogEvent(reqID, "seeder", "employees", fmt.Sprintf("skip existing=%d", existing))
		return 0, nil
	}
	if count <= 0 || lookup.Len() == 0 {
		return 0, nil
	}

	users, err := s.Users.FetchUsers(ctx, count)
	if err != nil {
		return 0, err
	}

	rng := s.rng()
	now := s.now()
	seen := map[string]bool{}
	inputs := make([]models.CreateEmployeeInput, 0, len(users))
	for _, u := range users {
		key := strings.ToLower(u.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		in, ok := s.employeeFromUser(u, lookup, rng, now)
		if !ok {
			continue
		}
		inputs = append(inputs, in)
	}

	created, err := s.Employees.AddMany(ctx, inputs)
	if err != nil {
		return 0, err
	}
	utils.LogEvent(reqID, "seeder", "employees", fmt.Sprintf("created=%d fetched=%d", len(created), len(users)))
	return len(created), nil
}

func (s Seeder) employeeFromUser(u models.User, lookup DepartmentLookup, rng *rand.Rand, now time.Time) (models.CreateEmployeeInput, bool) {
	names := lookup.names
	dept := names[rng.IntN(len(names))]
	deptID, ok := lookup.ID(dept)
	if !ok {
		return models.CreateEmployeeInput{}, false
	}

	roles := models.DefaultRolesByDepartment[dept]
	role := "Specialist"
	if len(roles) > 0 {
		role = roles[rng.IntN(len(roles))]
	}

	hire := now.AddDate(0, 0, -rng.IntN(seedHireWindowDays)).Truncate(24 * time.Hour)
	in := models.CreateEmployeeInput{
		Name:         u.Name,
		Email:        u.Email,
		Role:         role,
		DepartmentID: deptID,
		Salary:       float64(seedSalaryMin + rng.IntN(seedSalaryMax-seedSalaryMin)),
		HireDate:     &hire,
		Status:       models.EmployeeStatuses[rng.IntN(len(models.EmployeeStatuses))],
	}
	if u.Picture != "" {
		pic := u.Picture
		in.Picture = &pic
	}
	if err := in.Validate(); err != nil {
		return models.CreateEmployeeInput{}, false
	}
	return in, true
}
