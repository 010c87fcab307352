package repository

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/kvstore"
)

const employeePrefix = "employee:"

// Employee is a roster entry. Employees sign in with their access code.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	AccessCode string    `json:"accessCode"`
	CompanyID  string    `json:"companyId"`
	Position   string    `json:"position,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EmployeeRepository stores employees under employee:<id>
type EmployeeRepository struct {
	store kvstore.Store
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(store kvstore.Store) *EmployeeRepository {
	return &EmployeeRepository{store: store}
}

// Save creates or replaces an employee
func (r *EmployeeRepository) Save(ctx context.Context, e *Employee) error {
	return kvstore.SetJSON(ctx, r.store, employeePrefix+e.ID, e)
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*Employee, error) {
	e, err := kvstore.GetJSON[Employee](ctx, r.store, employeePrefix+id)
	if stderrors.Is(err, kvstore.ErrNotFound) {
		return nil, errors.NotFound("employee")
	}
	return e, err
}

// ListByCompany returns a company's employees ordered by name
func (r *EmployeeRepository) ListByCompany(ctx context.Context, companyID string) ([]*Employee, error) {
	all, err := kvstore.ScanJSON[Employee](ctx, r.store, employeePrefix)
	if err != nil {
		return nil, err
	}

	out := make([]*Employee, 0, len(all))
	for _, e := range all {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CountActive counts a company's active employees
func (r *EmployeeRepository) CountActive(ctx context.Context, companyID string) (int, error) {
	employees, err := r.ListByCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range employees {
		if e.IsActive {
			n++
		}
	}
	return n, nil
}

// FindByAccessCode looks an employee up by access code across all companies
func (r *EmployeeRepository) FindByAccessCode(ctx context.Context, code string) (*Employee, error) {
	all, err := kvstore.ScanJSON[Employee](ctx, r.store, employeePrefix)
	if err != nil {
		return nil, err
	}

	for _, e := range all {
		if e.AccessCode == code {
			return e, nil
		}
	}
	return nil, errors.NotFound("employee")
}

// Delete removes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, employeePrefix+id)
}
