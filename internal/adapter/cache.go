package adapter

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

const (
	cacheTable    = "ws_cache"
	cacheKeyIndex = "key"

	// DefaultUpdateFrequency is the freshness of cached answers whose call
	// does not set one.
	DefaultUpdateFrequency = 5 * time.Minute
)

// CacheSchema returns the table schema of the web service response cache.
func CacheSchema() store.TableSchema {
	return store.TableSchema{Name: cacheTable, Indexes: []string{cacheKeyIndex}}
}

// DefaultPreSets reads from and writes to the cache with the default
// freshness.
func DefaultPreSets() PreSets {
	return PreSets{
		UpdateFrequency: DefaultUpdateFrequency,
		GetFromCache:    true,
		SaveToCache:     true,
	}
}

type cacheEntry struct {
	Method   string          `json:"method"`
	CacheKey string          `json:"cache_key,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    *WSError        `json:"error,omitempty"`
	Expires  int64           `json:"expires"`
}

type cachedWebService struct {
	WebService

	store store.LocalStore
	now   func() time.Time
}

// NewCachedWebService decorates ws with a response cache stored in the site
// table returned by [CacheSchema].
func NewCachedWebService(ws WebService, st store.LocalStore) CachedWebService {
	return &cachedWebService{WebService: ws, store: st, now: time.Now}
}

// CachedCall implements [CachedWebService].
func (c *cachedWebService) CachedCall(ctx context.Context, site models.Site, method string, params map[string]any, result any, preSets PreSets) error {
	log := logger.FromContext(ctx).With().
		Str("func", "cachedWebService.CachedCall").
		Str("site_id", site.ID).
		Str("wsfunction", method).
		Logger()

	key, err := requestKey(method, params)
	if err != nil {
		return err
	}

	var (
		cached    cacheEntry
		hasCached bool
	)
	if preSets.GetFromCache {
		cached, hasCached, err = c.lookup(ctx, site.ID, key)
		if err != nil {
			return err
		}
		if hasCached && (preSets.OmitExpires || c.now().Unix() < cached.Expires) {
			return cached.answer(method, result)
		}
	}

	var raw json.RawMessage
	err = c.Call(ctx, site, method, params, &raw)
	switch {
	case err == nil:
	case hasCached && IsTransient(err):
		log.Warn().Err(err).Msg("web service unreachable, answering from expired cache entry")
		return cached.answer(method, result)
	default:
		var wsErr *WSError
		if preSets.SaveToCache && errors.As(err, &wsErr) && slices.Contains(preSets.CacheErrors, wsErr.ErrorCode) {
			if saveErr := c.save(ctx, site.ID, key, c.entry(method, preSets, nil, wsErr)); saveErr != nil {
				log.Err(saveErr).Msg("failed to cache web service error")
			}
		}
		return err
	}

	if preSets.SaveToCache {
		if err = c.save(ctx, site.ID, key, c.entry(method, preSets, raw, nil)); err != nil {
			log.Err(err).Msg("failed to cache web service answer")
		}
	}

	if result == nil {
		return nil
	}
	if err = json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecodeResponse, method, err)
	}
	return nil
}

// InvalidateByKey implements [CachedWebService].
func (c *cachedWebService) InvalidateByKey(ctx context.Context, siteID, cacheKey string) error {
	records, err := c.store.Query(ctx, siteID, cacheTable, cacheKeyIndex, cacheKey)
	if err != nil {
		return fmt.Errorf("invalidate ws cache %q: %w", cacheKey, err)
	}

	for _, rec := range records {
		var entry cacheEntry
		if err = rec.Decode(&entry); err != nil {
			return err
		}
		entry.Expires = 0
		if err = c.save(ctx, siteID, rec.Key, entry); err != nil {
			return err
		}
	}
	return nil
}

func (c *cachedWebService) entry(method string, preSets PreSets, raw json.RawMessage, wsErr *WSError) cacheEntry {
	freshness := preSets.UpdateFrequency
	if freshness <= 0 {
		freshness = DefaultUpdateFrequency
	}
	return cacheEntry{
		Method:   method,
		CacheKey: preSets.CacheKey,
		Data:     raw,
		Error:    wsErr,
		Expires:  c.now().Add(freshness).Unix(),
	}
}

func (c *cachedWebService) lookup(ctx context.Context, siteID string, key store.Key) (cacheEntry, bool, error) {
	rec, err := c.store.Get(ctx, siteID, cacheTable, key)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return cacheEntry{}, false, nil
		}
		return cacheEntry{}, false, fmt.Errorf("read ws cache: %w", err)
	}

	var entry cacheEntry
	if err = rec.Decode(&entry); err != nil {
		return cacheEntry{}, false, err
	}
	return entry, true, nil
}

func (c *cachedWebService) save(ctx context.Context, siteID string, key store.Key, entry cacheEntry) error {
	rec, err := store.NewRecord(key, entry, map[string]string{cacheKeyIndex: entry.CacheKey})
	if err != nil {
		return err
	}
	if err = c.store.Insert(ctx, siteID, cacheTable, rec); err != nil {
		return fmt.Errorf("write ws cache: %w", err)
	}
	return nil
}

func (e cacheEntry) answer(method string, result any) error {
	if e.Error != nil {
		return e.Error
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(e.Data, result); err != nil {
		return fmt.Errorf("%w: cached %s: %w", ErrDecodeResponse, method, err)
	}
	return nil
}

// requestKey identifies a call by its function and parameters.
func requestKey(method string, params map[string]any) (store.Key, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode web service params: %w", err)
	}
	sum := blake2b.Sum256(raw)
	return store.NewKey(method, hex.EncodeToString(sum[:])), nil
}
