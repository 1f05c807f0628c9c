package syncer

import (
	"context"
	"slices"

	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

// Module is the synchronization surface of one module type.
type Module interface {
	Type() models.ModuleType
	// Schemas lists the site tables holding the module's offline data.
	Schemas() []store.TableSchema
	EntitiesWithData(ctx context.Context, siteID string) ([]int64, error)
	HasDataToSync(ctx context.Context, siteID string, entityID int64) (bool, error)
	SyncInstance(ctx context.Context, site models.Site, entityID int64) (models.SyncResult, error)
}

type composite struct {
	module models.ModuleType
	parts  []Module
}

// Compose joins the engines of a module type with several offline tables.
// Parts are synchronized in order and the first failure stops the run; a
// failed run reports no update even when earlier parts sent data.
func Compose(module models.ModuleType, parts ...Module) Module {
	return &composite{module: module, parts: parts}
}

func (c *composite) Type() models.ModuleType {
	return c.module
}

func (c *composite) Schemas() []store.TableSchema {
	var schemas []store.TableSchema
	for _, p := range c.parts {
		schemas = append(schemas, p.Schemas()...)
	}
	return schemas
}

func (c *composite) EntitiesWithData(ctx context.Context, siteID string) ([]int64, error) {
	var ids []int64
	for _, p := range c.parts {
		partIDs, err := p.EntitiesWithData(ctx, siteID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, partIDs...)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (c *composite) HasDataToSync(ctx context.Context, siteID string, entityID int64) (bool, error) {
	for _, p := range c.parts {
		has, err := p.HasDataToSync(ctx, siteID, entityID)
		if err != nil || has {
			return has, err
		}
	}
	return false, nil
}

func (c *composite) SyncInstance(ctx context.Context, site models.Site, entityID int64) (models.SyncResult, error) {
	result := models.SyncResult{Warnings: []string{}}
	for _, p := range c.parts {
		partResult, err := p.SyncInstance(ctx, site, entityID)
		result.Merge(partResult)
		if err != nil {
			return failed(result), err
		}
	}
	return result, nil
}
