package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/kvstore"
)

const companyPrefix = "company:"

// Company is an organization that owns employees and their reports
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	Timezone    string    `json:"timezone"`
	OwnerID     string    `json:"ownerId"`
	OwnerEmail  string    `json:"ownerEmail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Location resolves the company timezone, falling back to UTC
func (c *Company) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// Today is the current date in the company's timezone
func (c *Company) Today(now time.Time) string {
	return now.In(c.Location()).Format("2006-01-02")
}

// CompanyRepository stores companies under company:<id>
type CompanyRepository struct {
	store kvstore.Store
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(store kvstore.Store) *CompanyRepository {
	return &CompanyRepository{store: store}
}

// Save creates or replaces a company
func (r *CompanyRepository) Save(ctx context.Context, c *Company) error {
	return kvstore.SetJSON(ctx, r.store, companyPrefix+c.ID, c)
}

// GetByID gets a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*Company, error) {
	c, err := kvstore.GetJSON[Company](ctx, r.store, companyPrefix+id)
	if stderrors.Is(err, kvstore.ErrNotFound) {
		return nil, errors.NotFound("company")
	}
	return c, err
}

// List returns every company, ordered by id
func (r *CompanyRepository) List(ctx context.Context) ([]*Company, error) {
	return kvstore.ScanJSON[Company](ctx, r.store, companyPrefix)
}

// Delete removes a company
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, companyPrefix+id)
}
