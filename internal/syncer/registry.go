package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-course-sync/models"
)

// Registry is the table of providers built at startup.
type Registry struct {
	providers map[models.ModuleType]Provider
	order     []models.ModuleType
}

// NewRegistry registers providers. A later provider for the same module type
// replaces an earlier one.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[models.ModuleType]Provider, len(providers))}
	for _, p := range providers {
		if _, ok := r.providers[p.Module()]; !ok {
			r.order = append(r.order, p.Module())
		}
		r.providers[p.Module()] = p
	}
	return r
}

// Get returns the provider of module.
func (r *Registry) Get(module models.ModuleType) (Provider, error) {
	p, ok := r.providers[module]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, module)
	}
	return p, nil
}

// Providers returns the registered providers in registration order.
func (r *Registry) Providers() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, m := range r.order {
		out = append(out, r.providers[m])
	}
	return out
}

// Modules returns the registered module types in registration order.
func (r *Registry) Modules() []models.ModuleType {
	return append([]models.ModuleType(nil), r.order...)
}

// SyncAll synchronizes every module type of the site.
func (r *Registry) SyncAll(ctx context.Context, site models.Site, force bool) error {
	var errs []error
	for _, p := range r.Providers() {
		if err := p.SyncAll(ctx, site, force); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
