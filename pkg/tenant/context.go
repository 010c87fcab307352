// Package tenant carries the company a request acts on behalf of.
// Every company is an isolated tenant: reports and employees are only
// visible to callers scoped to the owning company.
package tenant

import (
	"context"
	"errors"
)

type contextKey string

const companyIDKey contextKey = "company_id"

var (
	// ErrNoTenantInContext is returned when company context is missing
	ErrNoTenantInContext = errors.New("no company in context")
)

// WithCompanyID adds the company ID to the context
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyIDKey, companyID)
}

// CompanyID extracts the company ID from context
// Returns ErrNoTenantInContext if it is not found
func CompanyID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(companyIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoTenantInContext
	}
	return id, nil
}
