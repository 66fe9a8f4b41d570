package services

import (
	"context"
	"log/slog"
	"time"

	"dune_voyages/internal/lib/keyutil"
	"dune_voyages/internal/lib/logger/sl"
	"dune_voyages/internal/metrics"

	gocache "github.com/patrickmn/go-cache"
)

const unsetPosition = 9999

// Cache stores resolved hero URLs. Implementations: MemoryCache here,
// rediscache.Client for multi-instance deployments.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Reset()
}

// MemoryCache is the default in-process cache backed by go-cache.
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(key string) (string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (m *MemoryCache) Set(key, value string) {
	m.c.SetDefault(key, value)
}

func (m *MemoryCache) Reset() {
	m.c.Flush()
}

// Source is one product-like row the resolver decorates. ID must be the
// row's stable string form (uuid or numeric id).
type Source struct {
	ID      string
	Slug    string
	Name    string
	HeroKey *string
}

// SideImage is one image side-table row belonging to a source.
type SideImage struct {
	SourceID string
	Key      string
	Position *int
	IsHero   bool
}

// SideTableFunc loads side-table rows for the given source ids in one
// batched query. Pass nil to skip the side-table tier entirely.
type SideTableFunc func(ctx context.Context, ids []string) ([]SideImage, error)

// FolderProber is the slice of the object store the resolver needs.
type FolderProber interface {
	FirstImageKey(ctx context.Context, folder string) (string, error)
	PublicURL(key string) string
}

// HeroResolver produces a display image URL per source via a three-tier
// fallback: explicit hero key, side-table best pick, folder probe. Sources
// are never mutated; the result maps source id to URL, with unresolved
// sources absent.
type HeroResolver struct {
	log   *slog.Logger
	store FolderProber
	cache Cache
}

func NewHeroResolver(log *slog.Logger, store FolderProber, cache Cache) *HeroResolver {
	return &HeroResolver{
		log:   log,
		store: store,
		cache: cache,
	}
}

// Resolve runs the fallback chain for every source under the given folder
// namespace ("tours", "transports", "services"). A failed store call is not
// retried; the affected source falls through to the next tier or stays
// unresolved. Empty input returns an empty map with zero store calls.
func (r *HeroResolver) Resolve(ctx context.Context, base string, sources []Source, side SideTableFunc) map[string]string {
	return r.resolve(ctx, base, sources, side, true)
}

// ResolveNoProbe is Resolve without the folder-probe tier, for hot list
// paths that must not fan out per-row store listings.
func (r *HeroResolver) ResolveNoProbe(ctx context.Context, base string, sources []Source, side SideTableFunc) map[string]string {
	return r.resolve(ctx, base, sources, side, false)
}

func (r *HeroResolver) resolve(ctx context.Context, base string, sources []Source, side SideTableFunc, probe bool) map[string]string {
	const op = "service.HeroResolver.Resolve"

	out := make(map[string]string, len(sources))
	if len(sources) == 0 {
		return out
	}

	log := r.log.With(slog.String("op", op), slog.String("base", base))

	var unresolved []Source
	for _, src := range sources {
		if url, ok := r.cache.Get(cacheKey(base, src)); ok {
			metrics.HeroCacheHits.WithLabelValues("hit").Inc()
			out[src.ID] = url
			continue
		}
		metrics.HeroCacheHits.WithLabelValues("miss").Inc()
		if src.HeroKey != nil && *src.HeroKey != "" {
			url := r.store.PublicURL(*src.HeroKey)
			out[src.ID] = url
			r.cache.Set(cacheKey(base, src), url)
			continue
		}
		unresolved = append(unresolved, src)
	}

	if len(unresolved) > 0 && side != nil {
		ids := make([]string, 0, len(unresolved))
		for _, src := range unresolved {
			ids = append(ids, src.ID)
		}

		rows, err := side(ctx, ids)
		if err != nil {
			log.Warn("side table lookup failed", sl.Err(err))
		} else {
			best := bestByScore(rows)
			remaining := unresolved[:0]
			for _, src := range unresolved {
				key, ok := best[src.ID]
				if !ok {
					remaining = append(remaining, src)
					continue
				}
				url := r.store.PublicURL(key)
				out[src.ID] = url
				r.cache.Set(cacheKey(base, src), url)
			}
			unresolved = remaining
		}
	}

	if probe {
		for _, src := range unresolved {
			key := r.probeFolder(ctx, base, src)
			if key == "" {
				continue
			}
			url := r.store.PublicURL(key)
			out[src.ID] = url
			r.cache.Set(cacheKey(base, src), url)
		}
	}

	return out
}

// Invalidate drops all cached URLs. Write paths call this so new images
// show up without a process restart.
func (r *HeroResolver) Invalidate() {
	r.cache.Reset()
}

// bestByScore picks the winning key per source: score is -1 for a hero
// row, else the position (9999 when null). Lowest wins, first seen breaks
// ties, so a hero flag always outranks position ordering.
func bestByScore(rows []SideImage) map[string]string {
	type pick struct {
		key   string
		score int
	}

	best := make(map[string]pick)
	for _, row := range rows {
		if row.Key == "" {
			continue
		}

		score := unsetPosition
		if row.Position != nil {
			score = *row.Position
		}
		if row.IsHero {
			score = -1
		}

		cur, ok := best[row.SourceID]
		if !ok || score < cur.score {
			best[row.SourceID] = pick{key: row.Key, score: score}
		}
	}

	out := make(map[string]string, len(best))
	for id, p := range best {
		out[id] = p.key
	}
	return out
}

// probeFolder lists <base>/<slug-or-name>/ and then <base>/<id>/, taking
// the lexicographically first image key found.
func (r *HeroResolver) probeFolder(ctx context.Context, base string, src Source) string {
	for _, folder := range probeFolders(base, src) {
		key, err := r.store.FirstImageKey(ctx, folder)
		if err != nil {
			r.log.Warn("folder probe failed",
				slog.String("folder", folder), sl.Err(err))
			continue
		}
		if key != "" {
			return key
		}
	}
	return ""
}

func probeFolders(base string, src Source) []string {
	var folders []string

	name := src.Slug
	if name == "" {
		name = keyutil.Slugify(src.Name)
	}
	if name != "" {
		folders = append(folders, base+"/"+name)
	}
	if src.ID != "" && src.ID != name {
		folders = append(folders, base+"/"+src.ID)
	}
	return folders
}

func cacheKey(base string, src Source) string {
	if src.Slug != "" {
		return base + "/" + src.Slug
	}
	return base + "/" + src.ID
}
