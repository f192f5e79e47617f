package shared

import "context"

// Identity is the authenticated caller extracted from a verified bearer token.
type Identity struct {
	UserID int64
	Email  string
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}

type organizationContextKey struct{}

// ContextWithOrganization stores the resolved organization in context.
func ContextWithOrganization(ctx context.Context, org *Organization) context.Context {
	return context.WithValue(ctx, organizationContextKey{}, org)
}

// OrganizationFromContext extracts the resolved organization from context.
func OrganizationFromContext(ctx context.Context) *Organization {
	org, _ := ctx.Value(organizationContextKey{}).(*Organization)
	return org
}
