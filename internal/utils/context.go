// Package utils provides general-purpose helpers used across the client:
// type-safe context keys, JSON response writing, the shared resty HTTP
// client and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SiteIDCtxKey is the key the control API stores the resolved site id under.
//
//	ctx := context.WithValue(ctx, utils.SiteIDCtxKey, "site-1")
var SiteIDCtxKey = contextKey("siteID")

// GetSiteIDFromContext retrieves the site id from the context. ok is false
// when no non-empty site id is stored.
func GetSiteIDFromContext(ctx context.Context) (string, bool) {
	siteID, ok := ctx.Value(SiteIDCtxKey).(string)
	return siteID, ok && siteID != ""
}
