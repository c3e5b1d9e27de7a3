// Package coordinator drives one list view: it picks the active source for the
// current page state, fetches through it, and republishes a single result no
// matter which source served it.
//
// Fetches are never cancelled. When the page state moves on while a fetch is in
// flight, the late result is discarded (last request wins).
//
// Example usage:
//
//	coord, err := coordinator.New("purchases", paginated, search,
//	    coordinator.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//
//	store := pagestate.NewStore(codec.Decode(r.URL.Query()))
//	stop := coord.Bind(ctx, store)
//	defer stop()
package coordinator

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/nrfta/listview-go"
	"github.com/nrfta/listview-go/pagestate"
	"github.com/nrfta/listview-go/source"
)

// DefaultCacheSize is the number of pages memoized per coordinator.
const DefaultCacheSize = 64

// Result is what the view renders.
type Result[T any] struct {
	State    pagestate.State
	Items    []T
	Total    int
	PageInfo listview.PageInfo

	// Source names the source that served Items.
	Source string

	// IsLoading is set while a fetch for State is in flight. Items and Total
	// still hold the previous result so the view does not flash empty.
	IsLoading bool

	// IsError is set when the fetch for State failed. Err holds the cause.
	IsError bool
	Err     error
}

// Coordinator loads pages for one entity.
type Coordinator[T any] struct {
	entity    string
	paginated listview.Source[T]
	search    listview.Source[T]
	config    *listview.PageConfig
	logger    *zap.Logger
	cache     *lru.Cache[string, *listview.Page[T]]

	mu      sync.Mutex
	seq     uint64
	current pagestate.State
	result  Result[T]
	// generation counts invalidations. Pages fetched under an older
	// generation are neither cached nor observed.
	generation uint64
	// seen holds the highest row position observed per query, regardless of
	// offset. Rows up to it are known to exist.
	seen   map[string]int
	reload func()

	// emitMu orders deliveries; subsMu guards the subscriber set.
	emitMu      sync.Mutex
	subsMu      sync.Mutex
	subscribers map[int]func(Result[T])
	nextID      int
}

// New creates a coordinator for entity serving unfiltered views from paginated
// and filtered views from search.
func New[T any](entity string, paginated, search listview.Source[T], opts ...Option) (*Coordinator[T], error) {
	o := newOptions(opts)

	c := &Coordinator[T]{
		entity:      entity,
		paginated:   paginated,
		search:      search,
		config:      o.pageConfig,
		logger:      o.logger.With(zap.String("entity", entity)),
		seen:        map[string]int{},
		subscribers: map[int]func(Result[T]){},
	}

	if o.cacheSize > 0 {
		cache, err := lru.New[string, *listview.Page[T]](o.cacheSize)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}

	return c, nil
}

// Entity returns the entity key the coordinator serves.
func (c *Coordinator[T]) Entity() string {
	return c.entity
}

// Load fetches the page described by state and returns the current view result.
//
// If state was superseded by a later Load before the fetch completed, the
// fetched page is dropped and the returned result describes the newer state.
// A failed fetch yields IsError; the other source is never tried.
func (c *Coordinator[T]) Load(ctx context.Context, state pagestate.State) Result[T] {
	state = state.WithPage(state.Page)
	state.PageSize = c.config.EffectiveLimit(state.PageSize)

	src := source.Select(state.Filters, c.paginated, c.search)
	req := state.Request()
	req.Filters = req.Filters.Active()
	key := cacheKey(src.Name(), req)

	c.mu.Lock()
	c.seq++
	seq := c.seq
	gen := c.generation
	c.current = state
	page, hit := c.cached(key)
	if !hit {
		c.result = Result[T]{
			State:     state,
			Items:     c.result.Items,
			Total:     c.result.Total,
			PageInfo:  c.result.PageInfo,
			Source:    src.Name(),
			IsLoading: true,
		}
	}
	c.mu.Unlock()

	if hit {
		c.logger.Debug("page served from cache", zap.String("source", src.Name()), zap.String("request", req.Key()))
		return c.apply(seq, gen, state, req, src.Name(), page, nil)
	}

	c.publish()

	page, err := src.List(ctx, req)
	if err == nil {
		c.store(gen, key, page)
	}
	return c.apply(seq, gen, state, req, src.Name(), page, err)
}

// Snapshot returns the current view result.
func (c *Coordinator[T]) Snapshot() Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Subscribe registers fn for every published result. Results are published in
// order; a subscriber never sees an older result after a newer one.
// The returned function removes the subscription.
//
// fn may subscribe or unsubscribe, but must not call Load synchronously.
func (c *Coordinator[T]) Subscribe(fn func(Result[T])) func() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		delete(c.subscribers, id)
	}
}

// Invalidate drops every memoized page so that the next Load refetches.
// Fetches already in flight still complete but their pages are not cached.
// A bound coordinator reloads its current state right away.
// Call it after any create, update or delete on the entity.
func (c *Coordinator[T]) Invalidate() {
	c.mu.Lock()
	c.generation++
	if c.cache != nil {
		c.cache.Purge()
	}
	c.seen = map[string]int{}
	reload := c.reload
	c.mu.Unlock()

	c.logger.Debug("list cache invalidated")
	if reload != nil {
		reload()
	}
}

// Bind drives the coordinator from store: every state change triggers an
// asynchronous Load, and after every successful load the reconciled state is
// written back as a replace navigation. The current state is loaded right away.
// The returned function stops the binding.
func (c *Coordinator[T]) Bind(ctx context.Context, store *pagestate.Store) func() {
	load := func(state pagestate.State) {
		go func() {
			result := c.Load(ctx, state)
			if result.IsLoading || result.IsError || !result.State.Equal(store.State()) {
				return
			}
			if next, changed := pagestate.Reconcile(result.State, result.Total, false); changed {
				c.logger.Debug("page state corrected",
					zap.Int("from", result.State.Page),
					zap.Int("to", next.Page),
					zap.Int("total", result.Total),
				)
				store.Replace(next)
			}
		}()
	}

	unsubscribe := store.Subscribe(func(change pagestate.Change) {
		load(change.Current)
	})

	c.mu.Lock()
	c.reload = func() { load(store.State()) }
	c.mu.Unlock()

	load(store.State())

	return func() {
		unsubscribe()
		c.mu.Lock()
		c.reload = nil
		c.mu.Unlock()
	}
}

func (c *Coordinator[T]) cached(key string) (*listview.Page[T], bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

// store caches page unless the entity was invalidated since gen.
func (c *Coordinator[T]) store(gen uint64, key string, page *listview.Page[T]) {
	if c.cache == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.logger.Debug("not caching page fetched before invalidation", zap.String("key", key))
		return
	}
	c.cache.Add(key, page)
}

// apply publishes the outcome of request seq unless it was superseded.
func (c *Coordinator[T]) apply(
	seq uint64,
	gen uint64,
	state pagestate.State,
	req listview.ListRequest,
	sourceName string,
	page *listview.Page[T],
	err error,
) Result[T] {
	c.mu.Lock()
	if seq != c.seq || !state.Equal(c.current) {
		result := c.result
		c.mu.Unlock()
		c.logger.Debug("discarding superseded result",
			zap.Uint64("seq", seq),
			zap.Int("page", state.Page),
			zap.Any("filters", state.Filters),
		)
		return result
	}

	if err != nil {
		c.result = Result[T]{
			State:    state,
			Items:    c.result.Items,
			Total:    c.result.Total,
			PageInfo: c.result.PageInfo,
			Source:   sourceName,
			IsError:  true,
			Err:      err,
		}
		result := c.result
		c.mu.Unlock()

		c.logger.Warn("list fetch failed",
			zap.String("source", sourceName),
			zap.Int("page", state.Page),
			zap.Bool("network_failure", listview.IsNetworkFailure(err)),
			zap.Error(err),
		)
		c.publish()
		return result
	}

	total := page.Total
	if gen == c.generation {
		total = c.observe(sourceName, req, page)
	}
	c.result = Result[T]{
		State:    state,
		Items:    page.Items,
		Total:    total,
		PageInfo: listview.NewPageInfo(total, state.PageSize, state.Offset()),
		Source:   sourceName,
	}
	result := c.result
	c.mu.Unlock()

	c.logger.Debug("list page loaded",
		zap.String("source", sourceName),
		zap.Int("page", state.Page),
		zap.Int("items", len(page.Items)),
		zap.Int("total", total),
		zap.Bool("estimated", page.Metadata.TotalEstimated),
		zap.Int("excluded", page.Metadata.ItemsExcluded),
		zap.Int64("query_time_ms", page.Metadata.QueryTimeMs),
	)
	c.publish()
	return result
}

// observe records the rows page proves to exist and returns its total, never
// below what was already observed for the same query. Callers hold mu.
func (c *Coordinator[T]) observe(sourceName string, req listview.ListRequest, page *listview.Page[T]) int {
	key := cacheKey(sourceName, listview.ListRequest{Limit: req.Limit, Filters: req.Filters})

	seen := max(c.seen[key], page.Coverage())
	c.seen[key] = seen
	return max(page.Total, seen)
}

func (c *Coordinator[T]) publish() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	result := c.Snapshot()
	for _, fn := range c.snapshotSubscribers() {
		fn(result)
	}
}

// snapshotSubscribers returns the subscribers in subscription order.
func (c *Coordinator[T]) snapshotSubscribers() []func(Result[T]) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	fns := make([]func(Result[T]), 0, len(c.subscribers))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.subscribers[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

func cacheKey(sourceName string, req listview.ListRequest) string {
	return sourceName + "?" + req.Key()
}
