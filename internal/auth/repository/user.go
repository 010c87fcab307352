package repository

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/kvstore"
)

// Roles carried in access tokens
const (
	RoleEmployer = "employer"
	RoleEmployee = "employee"
)

const userPrefix = "user:"

// User is an employer account. Employees authenticate with access codes instead.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CompanyID    string    `json:"companyId,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRepository stores accounts under user:<email>
type UserRepository struct {
	store kvstore.Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(store kvstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

func userKey(email string) string {
	return userPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new user, failing if the email is taken
func (r *UserRepository) Create(ctx context.Context, u *User) error {
	if _, err := r.store.Get(ctx, userKey(u.Email)); err == nil {
		return errors.Conflict("user already exists")
	} else if !stderrors.Is(err, kvstore.ErrNotFound) {
		return err
	}
	return r.Save(ctx, u)
}

// Save creates or replaces a user
func (r *UserRepository) Save(ctx context.Context, u *User) error {
	return kvstore.SetJSON(ctx, r.store, userKey(u.Email), u)
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := kvstore.GetJSON[User](ctx, r.store, userKey(email))
	if stderrors.Is(err, kvstore.ErrNotFound) {
		return nil, errors.NotFound("user")
	}
	return u, err
}

// LinkCompany records the company an employer owns. An account owns at most one company.
func (r *UserRepository) LinkCompany(ctx context.Context, email, companyID string) error {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.CompanyID != "" && u.CompanyID != companyID {
		return errors.Conflict("account already owns a company")
	}

	u.CompanyID = companyID
	return r.Save(ctx, u)
}
