package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/looply/looply-backend/internal/company/events"
	"github.com/looply/looply-backend/internal/company/repository"
	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/logger"
)

const accessCodeAttempts = 5

// OwnerLinker records which company an employer account owns
type OwnerLinker interface {
	LinkCompany(ctx context.Context, email, companyID string) error
}

// CreateCompanyInput holds the fields an employer supplies during onboarding
type CreateCompanyInput struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Logo        string `json:"logo" validate:"omitempty,url"`
	Timezone    string `json:"timezone" validate:"omitempty,timezone"`
}

// AddEmployeeInput holds the fields for a new roster entry
type AddEmployeeInput struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Position string `json:"position" validate:"max=200"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
}

// CompanyService handles companies and their rosters
type CompanyService struct {
	companies *repository.CompanyRepository
	employees *repository.EmployeeRepository
	owners    OwnerLinker
	publisher *events.CompanyEventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companies *repository.CompanyRepository,
	employees *repository.EmployeeRepository,
	owners OwnerLinker,
	publisher *events.CompanyEventPublisher,
	log *logger.Logger,
) *CompanyService {
	return &CompanyService{
		companies: companies,
		employees: employees,
		owners:    owners,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for creation timestamps
func (s *CompanyService) WithClock(now func() time.Time) *CompanyService {
	s.now = now
	return s
}

// CreateCompany creates a company owned by the employer and links it to their account
func (s *CompanyService) CreateCompany(ctx context.Context, ownerID, ownerEmail string, in CreateCompanyInput) (*repository.Company, error) {
	tz := in.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, errors.Validation(map[string]string{"timezone": "must be an IANA timezone"})
	}

	company := &repository.Company{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Logo:        in.Logo,
		Timezone:    tz,
		OwnerID:     ownerID,
		OwnerEmail:  strings.ToLower(ownerEmail),
		CreatedAt:   s.now().UTC(),
	}

	if err := s.companies.Save(ctx, company); err != nil {
		return nil, fmt.Errorf("save company: %w", err)
	}

	if err := s.owners.LinkCompany(ctx, ownerEmail, company.ID); err != nil {
		if delErr := s.companies.Delete(ctx, company.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("company_id", company.ID).Msg("failed to roll back company")
		}
		return nil, err
	}

	s.logger.Info().Str("company_id", company.ID).Str("owner_id", ownerID).Msg("company created")
	return company, nil
}

// GetCompany gets a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*repository.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// AddEmployee adds an active employee with a fresh access code
func (s *CompanyService) AddEmployee(ctx context.Context, companyID string, in AddEmployeeInput) (*repository.Employee, error) {
	code, err := s.uniqueAccessCode(ctx)
	if err != nil {
		return nil, err
	}

	emp := &repository.Employee{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		AccessCode: code,
		CompanyID:  companyID,
		Position:   in.Position,
		Avatar:     in.Avatar,
		IsActive:   true,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.employees.Save(ctx, emp); err != nil {
		return nil, fmt.Errorf("save employee: %w", err)
	}

	s.publisher.PublishEmployeeAdded(ctx, emp)
	return emp, nil
}

func (s *CompanyService) uniqueAccessCode(ctx context.Context) (string, error) {
	for i := 0; i < accessCodeAttempts; i++ {
		code, err := GenerateAccessCode()
		if err != nil {
			return "", errors.Internal("failed to generate access code")
		}

		_, err = s.employees.FindByAccessCode(ctx, code)
		if errors.Is(err, errors.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.Internal("could not allocate a unique access code")
}

// ListEmployees lists a company's employees
func (s *CompanyService) ListEmployees(ctx context.Context, companyID string) ([]*repository.Employee, error) {
	return s.employees.ListByCompany(ctx, companyID)
}

// GetEmployee gets an employee, hiding employees of other companies
func (s *CompanyService) GetEmployee(ctx context.Context, companyID, id string) (*repository.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp.CompanyID != companyID {
		return nil, errors.NotFound("employee")
	}
	return emp, nil
}

// SetEmployeeActive activates or deactivates an employee
func (s *CompanyService) SetEmployeeActive(ctx context.Context, companyID, id string, active bool) (*repository.Employee, error) {
	emp, err := s.GetEmployee(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	emp.IsActive = active
	if err := s.employees.Save(ctx, emp); err != nil {
		return nil, fmt.Errorf("save employee: %w", err)
	}
	return emp, nil
}

// RemoveEmployee deletes an employee. Their reports stay for the record.
func (s *CompanyService) RemoveEmployee(ctx context.Context, companyID, id string) error {
	if _, err := s.GetEmployee(ctx, companyID, id); err != nil {
		return err
	}

	if err := s.employees.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}

	s.publisher.PublishEmployeeRemoved(ctx, companyID, id)
	return nil
}
