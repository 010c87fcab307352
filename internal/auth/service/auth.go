package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/looply/looply-backend/internal/auth/jwt"
	"github.com/looply/looply-backend/internal/auth/repository"
	companyrepo "github.com/looply/looply-backend/internal/company/repository"
	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles sign-up, sign-in and token issuance
type AuthService struct {
	users      *repository.UserRepository
	companies  *companyrepo.CompanyRepository
	employees  *companyrepo.EmployeeRepository
	jwtManager *jwt.Manager
	logger     *logger.Logger
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	users *repository.UserRepository,
	companies *companyrepo.CompanyRepository,
	employees *companyrepo.EmployeeRepository,
	jwtManager *jwt.Manager,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		companies:  companies,
		employees:  employees,
		jwtManager: jwtManager,
		logger:     log,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for account timestamps
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// SignUpRequest represents an employer sign-up
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
}

// LoginRequest represents an employer login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccessCodeRequest represents an employee login
type AccessCodeRequest struct {
	AccessCode string `json:"accessCode" validate:"required,min=4,max=32"`
}

// UserInfo is the public view of the signed-in account
type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId,omitempty"`
	Position  string `json:"position,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// AuthResponse carries a fresh token and who it belongs to
type AuthResponse struct {
	jwt.Token
	User    *UserInfo            `json:"user"`
	Company *companyrepo.Company `json:"company,omitempty"`
}

// MeResponse is the authenticated caller and their company
type MeResponse struct {
	User    *UserInfo            `json:"user"`
	Company *companyrepo.Company `json:"company,omitempty"`
}

// SignUp creates an employer account
func (s *AuthService) SignUp(ctx context.Context, req *SignUpRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	user := &repository.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		Role:         repository.RoleEmployer,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("employer signed up")
	return s.issueForUser(ctx, user)
}

// SignIn authenticates an employer by email and password
func (s *AuthService) SignIn(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.InvalidCredentials()
	}
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errors.InvalidCredentials()
	}

	return s.issueForUser(ctx, user)
}

// SignInWithAccessCode authenticates an employee by the code their employer handed out
func (s *AuthService) SignInWithAccessCode(ctx context.Context, req *AccessCodeRequest) (*AuthResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.AccessCode))

	emp, err := s.employees.FindByAccessCode(ctx, code)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Unauthorized("invalid access code")
	}
	if err != nil {
		return nil, err
	}
	if !emp.IsActive {
		return nil, errors.Forbidden("employee is inactive")
	}

	info := employeeInfo(emp)
	tok, err := s.jwtManager.Generate(&jwt.UserInfo{
		ID:        emp.ID,
		Email:     emp.Email,
		Name:      emp.Name,
		Role:      repository.RoleEmployee,
		CompanyID: emp.CompanyID,
	})
	if err != nil {
		return nil, errors.Internal("failed to generate token")
	}

	company, err := s.companies.GetByID(ctx, emp.CompanyID)
	if err != nil {
		s.logger.Warn().Err(err).Str("employee_id", emp.ID).Msg("employee company not found")
	}

	return &AuthResponse{Token: *tok, User: info, Company: company}, nil
}

// RefreshForEmail issues a new token reflecting the account's current state,
// e.g. after the employer created their company
func (s *AuthService) RefreshForEmail(ctx context.Context, email string) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.issueForUser(ctx, user)
}

// Me returns the caller and their company
func (s *AuthService) Me(ctx context.Context, userID, email, role string) (*MeResponse, error) {
	var info *UserInfo

	switch role {
	case repository.RoleEmployer:
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user.ID != userID {
			return nil, errors.Unauthorized("token does not match account")
		}
		info = userInfo(user)
	case repository.RoleEmployee:
		emp, err := s.employees.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		info = employeeInfo(emp)
	default:
		return nil, errors.Unauthorized("unknown role")
	}

	resp := &MeResponse{User: info}
	if info.CompanyID != "" {
		company, err := s.companies.GetByID(ctx, info.CompanyID)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		resp.Company = company
	}
	return resp, nil
}

func (s *AuthService) issueForUser(ctx context.Context, user *repository.User) (*AuthResponse, error) {
	tok, err := s.jwtManager.Generate(&jwt.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	})
	if err != nil {
		return nil, errors.Internal("failed to generate token")
	}

	resp := &AuthResponse{Token: *tok, User: userInfo(user)}
	if user.CompanyID != "" {
		if company, err := s.companies.GetByID(ctx, user.CompanyID); err == nil {
			resp.Company = company
		}
	}
	return resp, nil
}

func userInfo(u *repository.User) *UserInfo {
	return &UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CompanyID: u.CompanyID,
	}
}

func employeeInfo(e *companyrepo.Employee) *UserInfo {
	return &UserInfo{
		ID:        e.ID,
		Email:     e.Email,
		Name:      e.Name,
		Role:      repository.RoleEmployee,
		CompanyID: e.CompanyID,
		Position:  e.Position,
		Avatar:    e.Avatar,
	}
}
