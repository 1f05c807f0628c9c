// Package syncer replays offline actions to the server and coordinates the
// synchronization runs of every module type.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/offline"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

// Strategy sends one offline action of a module type to the server.
type Strategy[P any] interface {
	// Replay sends action and returns the warnings the server answered with.
	// Replaying an action the server already applied must be harmless.
	Replay(ctx context.Context, site models.Site, action offline.Action[P]) ([]string, error)
}

// Orderer is implemented by strategies that need a replay order other than
// oldest creation first.
type Orderer[P any] interface {
	Order(actions []offline.Action[P]) []offline.Action[P]
}

// Discarded is an action a [Preparer] decided not to replay.
type Discarded[P any] struct {
	Action offline.Action[P]
	Reason string
}

// Preparer is implemented by strategies that check the actions of an entity
// against the server before replaying them.
type Preparer[P any] interface {
	Prepare(ctx context.Context, site models.Site, entityID int64, actions []offline.Action[P]) (keep []offline.Action[P], discard []Discarded[P], err error)
}

// IsDefinitiveRejection reports whether err means the server will never
// accept the action, so it must be discarded.
func IsDefinitiveRejection(err error) bool {
	return adapter.IsWSError(err) || errors.Is(err, ErrRemoteWins) || errors.Is(err, ErrInvalidAction)
}

// Engine replays the offline actions of one table.
type Engine[P any] struct {
	repo     *offline.Repository[P]
	strategy Strategy[P]
}

// NewEngine returns an engine replaying the actions of repo with strategy.
func NewEngine[P any](repo *offline.Repository[P], strategy Strategy[P]) *Engine[P] {
	return &Engine[P]{repo: repo, strategy: strategy}
}

// Type implements [Module].
func (e *Engine[P]) Type() models.ModuleType {
	return e.repo.Module()
}

// Schemas implements [Module].
func (e *Engine[P]) Schemas() []store.TableSchema {
	return []store.TableSchema{e.repo.Schema()}
}

// EntitiesWithData implements [Module].
func (e *Engine[P]) EntitiesWithData(ctx context.Context, siteID string) ([]int64, error) {
	return e.repo.ListEntities(ctx, siteID)
}

// HasDataToSync implements [Module].
func (e *Engine[P]) HasDataToSync(ctx context.Context, siteID string, entityID int64) (bool, error) {
	return e.repo.HasOfflineData(ctx, siteID, entityID)
}

// SyncInstance replays every stored action of the entity.
//
// An accepted action is deleted. A rejected one is deleted too and its
// rejection becomes a warning; the remaining actions are still replayed. An
// action saved again while it was being replayed is kept for the next run.
// A transient failure stops the run and keeps the failed action and the ones
// after it; the result of a failed run never reports an update. Local store
// failures are returned as they are.
func (e *Engine[P]) SyncInstance(ctx context.Context, site models.Site, entityID int64) (models.SyncResult, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "Engine.SyncInstance").
		Str("site_id", site.ID).
		Str("module", string(e.repo.Module())).
		Int64("entity_id", entityID).
		Logger()

	result := models.SyncResult{Warnings: []string{}}

	actions, err := e.repo.ListFor(ctx, site.ID, entityID)
	if err != nil {
		return result, err
	}
	if len(actions) == 0 {
		return result, nil
	}

	if p, ok := e.strategy.(Preparer[P]); ok {
		keep, discard, err := p.Prepare(ctx, site, entityID, actions)
		if err != nil {
			return result, fmt.Errorf("prepare %s %d: %w", e.repo.Module(), entityID, err)
		}
		for _, d := range discard {
			removed, err := e.repo.DeleteIfUnchanged(ctx, site.ID, d.Action)
			if err != nil {
				return failed(result), err
			}
			if !removed {
				continue
			}
			log.Warn().Str("reason", d.Reason).Msg("offline action discarded before replay")
			result.Warnings = append(result.Warnings, e.warning(entityID, d.Reason))
			result.Updated = true
		}
		actions = keep
	}

	if o, ok := e.strategy.(Orderer[P]); ok {
		actions = o.Order(actions)
	} else {
		actions = offline.SortByCreated(actions)
	}

	for _, queued := range actions {
		// the stored action is replayed, not the copy listed above
		action, ok, err := e.repo.SetStatus(ctx, site.ID, queued, models.ActionSyncing)
		if err != nil {
			return failed(result), err
		}
		if !ok {
			continue
		}

		warnings, replayErr := e.strategy.Replay(ctx, site, action)
		switch {
		case replayErr == nil:
			if err = e.settle(ctx, site.ID, action); err != nil {
				return failed(result), err
			}
			for _, w := range warnings {
				result.Warnings = append(result.Warnings, e.warning(entityID, w))
			}
			result.Updated = true

		case IsDefinitiveRejection(replayErr):
			if err = e.settle(ctx, site.ID, action); err != nil {
				return failed(result), err
			}
			log.Warn().Err(replayErr).Msg("server rejected offline action, discarded")
			result.Warnings = append(result.Warnings, e.warning(entityID, rejectionMessage(replayErr)))
			result.Updated = true

		default:
			log.Warn().Err(replayErr).Msg("offline action replay interrupted")
			if _, _, err = e.repo.SetStatus(ctx, site.ID, action, models.ActionPending); err != nil {
				return failed(result), errors.Join(replayErr, err)
			}
			return failed(result), fmt.Errorf("sync %s %d: %w", e.repo.Module(), entityID, replayErr)
		}
	}

	return result, nil
}

// settle removes a replayed action. An action saved again during the replay
// stays queued with its new payload.
func (e *Engine[P]) settle(ctx context.Context, siteID string, action offline.Action[P]) error {
	removed, err := e.repo.DeleteIfUnchanged(ctx, siteID, action)
	if err != nil {
		return err
	}
	if !removed {
		logger.FromContext(ctx).Info().
			Str("func", "Engine.settle").
			Str("site_id", siteID).
			Str("module", string(e.repo.Module())).
			Int64("entity_id", action.EntityID).
			Msg("offline action changed during replay, kept for the next sync")
	}
	return nil
}

// failed drops the update flag of an interrupted run; its warnings are kept.
func failed(result models.SyncResult) models.SyncResult {
	return models.SyncResult{Warnings: result.Warnings}
}

func (e *Engine[P]) warning(entityID int64, message string) string {
	return fmt.Sprintf("%s %d: %s", e.repo.Module(), entityID, message)
}

func rejectionMessage(err error) string {
	var wsErr *adapter.WSError
	if errors.As(err, &wsErr) && wsErr.Message != "" {
		return wsErr.Message
	}
	return err.Error()
}
