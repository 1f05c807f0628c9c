// Package offline persists user actions performed while the site could not
// be reached, so they can be replayed to the server later.
//
// Each module type owns one table of actions. An action is identified by the
// entity it applies to plus a fixed number of discriminator keys (a user id,
// a retake number, a page id, a timestamp ...).
package offline

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

const entityIndex = "entity"

// Action is a typed offline action.
type Action[P any] struct {
	Module       models.ModuleType
	EntityID     int64
	Keys         []int64
	Payload      P
	TimeCreated  int64
	TimeModified int64
	Status       models.ActionStatus
}

// Key returns the primary key of the action.
func (a Action[P]) Key() store.Key {
	return actionKey(a.EntityID, a.Keys)
}

func actionKey(entityID int64, keys []int64) store.Key {
	parts := make([]any, 0, len(keys)+1)
	parts = append(parts, entityID)
	for _, k := range keys {
		parts = append(parts, k)
	}
	return store.NewKey(parts...)
}

func prefixIndex(n int) string {
	return "prefix" + strconv.Itoa(n)
}

type options struct {
	keyArity      int
	lastWriteWins bool
	bus           *events.Bus
	now           func() time.Time
}

// Option configures a [Repository].
type Option func(*options)

// WithKeyArity sets the number of discriminator keys of every action.
func WithKeyArity(n int) Option {
	return func(o *options) { o.keyArity = n }
}

// WithLastWriteWins makes overwrites reset TimeCreated too. By default an
// overwritten action keeps its original creation time.
func WithLastWriteWins() Option {
	return func(o *options) { o.lastWriteWins = true }
}

// WithEvents publishes entry-changed on bus after every write.
func WithEvents(bus *events.Bus) Option {
	return func(o *options) { o.bus = bus }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Repository stores the offline actions of one module type.
type Repository[P any] struct {
	// mu serializes the read-modify-write operations on stored actions.
	mu     sync.Mutex
	store  store.LocalStore
	module models.ModuleType
	table  string
	opts   options
}

// NewRepository returns a repository of actions with payload type P stored in
// table.
func NewRepository[P any](st store.LocalStore, module models.ModuleType, table string, opts ...Option) *Repository[P] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Repository[P]{
		store:  st,
		module: module,
		table:  table,
		opts:   o,
	}
}

// Module returns the module type of the stored actions.
func (r *Repository[P]) Module() models.ModuleType {
	return r.module
}

// Schema returns the table schema to create for every site.
func (r *Repository[P]) Schema() store.TableSchema {
	indexes := []string{entityIndex}
	for n := 1; n < r.opts.keyArity; n++ {
		indexes = append(indexes, prefixIndex(n))
	}
	return store.TableSchema{Name: r.table, Indexes: indexes}
}

// Now returns the current time of the repository clock.
func (r *Repository[P]) Now() time.Time {
	return r.opts.now()
}

// Save stores payload as the action for (entityID, keys), replacing any
// action with the same key.
func (r *Repository[P]) Save(ctx context.Context, siteID string, entityID int64, keys []int64, payload P) (Action[P], error) {
	return r.SaveAt(ctx, siteID, entityID, keys, payload, r.opts.now())
}

// SaveAt is Save with an explicit modification time.
func (r *Repository[P]) SaveAt(ctx context.Context, siteID string, entityID int64, keys []int64, payload P, at time.Time) (Action[P], error) {
	log := logger.FromContext(ctx)

	if len(keys) != r.opts.keyArity {
		return Action[P]{}, fmt.Errorf("%w: %s expects %d keys, got %d", ErrKeyArity, r.table, r.opts.keyArity, len(keys))
	}

	action := Action[P]{
		Module:       r.module,
		EntityID:     entityID,
		Keys:         slices.Clone(keys),
		Payload:      payload,
		TimeCreated:  at.Unix(),
		TimeModified: at.Unix(),
		Status:       models.ActionPending,
	}

	if err := r.save(ctx, siteID, &action); err != nil {
		log.Err(err).
			Str("func", "Repository.Save").
			Str("site_id", siteID).
			Str("module", string(r.module)).
			Int64("entity_id", entityID).
			Msg("failed to save offline action")
		return Action[P]{}, err
	}

	r.publish(ctx, siteID, entityID)
	return action, nil
}

// save writes action, keeping the creation time of the action it replaces
// unless the repository is last-write-wins.
func (r *Repository[P]) save(ctx context.Context, siteID string, action *Action[P]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.opts.lastWriteWins {
		existing, ok, err := r.Get(ctx, siteID, action.EntityID, action.Keys...)
		if err != nil {
			return err
		}
		if ok {
			action.TimeCreated = existing.TimeCreated
		}
	}
	return r.put(ctx, siteID, *action)
}

// Get returns the action stored for (entityID, keys). A missing action is
// reported with ok == false, not as an error.
func (r *Repository[P]) Get(ctx context.Context, siteID string, entityID int64, keys ...int64) (Action[P], bool, error) {
	rec, err := r.store.Get(ctx, siteID, r.table, actionKey(entityID, keys))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return Action[P]{}, false, nil
		}
		return Action[P]{}, false, fmt.Errorf("get offline action: %w", err)
	}

	action, err := r.decode(rec)
	if err != nil {
		return Action[P]{}, false, err
	}
	return action, true, nil
}

// ListFor returns every action of the entity, in insertion order.
func (r *Repository[P]) ListFor(ctx context.Context, siteID string, entityID int64) ([]Action[P], error) {
	return r.query(ctx, siteID, entityIndex, string(store.NewKey(entityID)))
}

// ListByPrefix returns the actions of the entity whose first keys equal
// prefix. An empty prefix is ListFor; a full key returns at most one action.
func (r *Repository[P]) ListByPrefix(ctx context.Context, siteID string, entityID int64, prefix ...int64) ([]Action[P], error) {
	switch {
	case len(prefix) == 0:
		return r.ListFor(ctx, siteID, entityID)
	case len(prefix) > r.opts.keyArity:
		return nil, fmt.Errorf("%w: %s prefix of %d keys", ErrKeyArity, r.table, len(prefix))
	case len(prefix) == r.opts.keyArity:
		action, ok, err := r.Get(ctx, siteID, entityID, prefix...)
		if err != nil || !ok {
			return nil, err
		}
		return []Action[P]{action}, nil
	}

	return r.query(ctx, siteID, prefixIndex(len(prefix)), string(actionKey(entityID, prefix)))
}

// All returns every action of the site, in insertion order.
func (r *Repository[P]) All(ctx context.Context, siteID string) ([]Action[P], error) {
	records, err := r.store.All(ctx, siteID, r.table)
	if err != nil {
		return nil, fmt.Errorf("list offline actions: %w", err)
	}
	return r.decodeAll(records)
}

// ListEntities returns the ids of the entities that have actions, ascending.
func (r *Repository[P]) ListEntities(ctx context.Context, siteID string) ([]int64, error) {
	actions, err := r.All(ctx, siteID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(actions))
	for _, a := range actions {
		ids = append(ids, a.EntityID)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// HasOfflineData reports whether the entity has any stored action.
func (r *Repository[P]) HasOfflineData(ctx context.Context, siteID string, entityID int64) (bool, error) {
	actions, err := r.ListFor(ctx, siteID, entityID)
	if err != nil {
		return false, err
	}
	return len(actions) > 0, nil
}

// Delete removes the action stored for (entityID, keys).
func (r *Repository[P]) Delete(ctx context.Context, siteID string, entityID int64, keys ...int64) error {
	if err := r.store.Remove(ctx, siteID, r.table, actionKey(entityID, keys)); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Repository.Delete").
			Str("site_id", siteID).
			Str("module", string(r.module)).
			Int64("entity_id", entityID).
			Msg("failed to delete offline action")
		return fmt.Errorf("delete offline action: %w", err)
	}

	r.publish(ctx, siteID, entityID)
	return nil
}

// DeleteAllFor removes every action of the entity.
func (r *Repository[P]) DeleteAllFor(ctx context.Context, siteID string, entityID int64) error {
	if err := r.store.RemoveWhere(ctx, siteID, r.table, entityIndex, string(store.NewKey(entityID))); err != nil {
		return fmt.Errorf("delete offline actions of %d: %w", entityID, err)
	}

	r.publish(ctx, siteID, entityID)
	return nil
}

// SetStatus updates the replay status of the stored action with the key of
// action and returns the stored action. Only the status is written; a payload
// saved after action was read is kept. ok is false when the action is no
// longer stored.
func (r *Repository[P]) SetStatus(ctx context.Context, siteID string, action Action[P], status models.ActionStatus) (current Action[P], ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok, err = r.Get(ctx, siteID, action.EntityID, action.Keys...)
	if err != nil || !ok {
		return Action[P]{}, false, err
	}

	current.Status = status
	if err = r.put(ctx, siteID, current); err != nil {
		return Action[P]{}, false, fmt.Errorf("set offline action status: %w", err)
	}
	return current, true, nil
}

// DeleteIfUnchanged removes the stored action with the key of action unless
// it was saved again after action was read. It reports whether the stored
// action is gone.
func (r *Repository[P]) DeleteIfUnchanged(ctx context.Context, siteID string, action Action[P]) (bool, error) {
	removed, err := r.deleteIfUnchanged(ctx, siteID, action)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "Repository.DeleteIfUnchanged").
			Str("site_id", siteID).
			Str("module", string(r.module)).
			Int64("entity_id", action.EntityID).
			Msg("failed to delete offline action")
		return false, err
	}
	if removed {
		r.publish(ctx, siteID, action.EntityID)
	}
	return removed, nil
}

func (r *Repository[P]) deleteIfUnchanged(ctx context.Context, siteID string, action Action[P]) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok, err := r.Get(ctx, siteID, action.EntityID, action.Keys...)
	if err != nil || !ok {
		return !ok && err == nil, err
	}
	if current.TimeModified != action.TimeModified || current.Status != action.Status {
		return false, nil
	}

	if err = r.store.Remove(ctx, siteID, r.table, action.Key()); err != nil {
		return false, fmt.Errorf("delete offline action: %w", err)
	}
	return true, nil
}

func (r *Repository[P]) put(ctx context.Context, siteID string, action Action[P]) error {
	payload, err := json.Marshal(action.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", r.module, err)
	}

	persisted := models.OfflineAction{
		Module:       r.module,
		EntityID:     action.EntityID,
		Keys:         action.Keys,
		Payload:      payload,
		TimeCreated:  action.TimeCreated,
		TimeModified: action.TimeModified,
		Status:       action.Status,
	}

	indexes := map[string]string{entityIndex: string(store.NewKey(action.EntityID))}
	for n := 1; n < r.opts.keyArity; n++ {
		indexes[prefixIndex(n)] = string(actionKey(action.EntityID, action.Keys[:n]))
	}

	rec, err := store.NewRecord(action.Key(), persisted, indexes)
	if err != nil {
		return err
	}
	if err = r.store.Insert(ctx, siteID, r.table, rec); err != nil {
		return fmt.Errorf("store offline action: %w", err)
	}
	return nil
}

func (r *Repository[P]) query(ctx context.Context, siteID, index, value string) ([]Action[P], error) {
	records, err := r.store.Query(ctx, siteID, r.table, index, value)
	if err != nil {
		return nil, fmt.Errorf("query offline actions: %w", err)
	}
	return r.decodeAll(records)
}

func (r *Repository[P]) decodeAll(records []store.Record) ([]Action[P], error) {
	actions := make([]Action[P], 0, len(records))
	for _, rec := range records {
		a, err := r.decode(rec)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (r *Repository[P]) decode(rec store.Record) (Action[P], error) {
	var persisted models.OfflineAction
	if err := rec.Decode(&persisted); err != nil {
		return Action[P]{}, err
	}

	var payload P
	if err := json.Unmarshal(persisted.Payload, &payload); err != nil {
		return Action[P]{}, fmt.Errorf("decode %s payload: %w", r.module, err)
	}

	return Action[P]{
		Module:       persisted.Module,
		EntityID:     persisted.EntityID,
		Keys:         persisted.Keys,
		Payload:      payload,
		TimeCreated:  persisted.TimeCreated,
		TimeModified: persisted.TimeModified,
		Status:       persisted.Status,
	}, nil
}

func (r *Repository[P]) publish(ctx context.Context, siteID string, entityID int64) {
	if r.opts.bus == nil {
		return
	}
	r.opts.bus.Publish(ctx, models.Event{
		Name:     models.EventEntryChanged,
		SiteID:   siteID,
		Module:   r.module,
		EntityID: entityID,
	})
}

// Latest returns the action with the highest TimeModified, breaking ties by
// the last key. Storage order is never used.
func Latest[P any](actions []Action[P]) (Action[P], bool) {
	if len(actions) == 0 {
		return Action[P]{}, false
	}
	return slices.MaxFunc(actions, compareModified[P]), true
}

// SortByCreated orders actions oldest first.
func SortByCreated[P any](actions []Action[P]) []Action[P] {
	out := slices.Clone(actions)
	slices.SortStableFunc(out, func(a, b Action[P]) int {
		return cmp.Or(cmp.Compare(a.TimeCreated, b.TimeCreated), cmp.Compare(a.TimeModified, b.TimeModified))
	})
	return out
}

// SortByModified orders actions by modification time, oldest first.
func SortByModified[P any](actions []Action[P]) []Action[P] {
	out := slices.Clone(actions)
	slices.SortStableFunc(out, compareModified[P])
	return out
}

func compareModified[P any](a, b Action[P]) int {
	if c := cmp.Compare(a.TimeModified, b.TimeModified); c != 0 {
		return c
	}
	return slices.Compare(a.Keys, b.Keys)
}
