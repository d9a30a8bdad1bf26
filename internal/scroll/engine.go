// ABOUTME: Windowed, lazily paged cache over the canonical record order.
// ABOUTME: Keeps a recent head window plus older pages evicted outside a radius.
package scroll

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"go.uber.org/zap"
)

// ErrStaleSession is returned when a fetch finishes after the engine was
// closed or reset; its result is dropped.
var ErrStaleSession = errors.New("scroll session is stale")

// Height estimate constants for placeholders of evicted pages.
const (
	recordHeight    = 60
	headerHeight    = 80
	separatorHeight = 72
)

// EstimatePageHeight returns the placeholder height for a page of n records.
func EstimatePageHeight(n int) float64 {
	return float64(n*recordHeight + headerHeight + separatorHeight)
}

// Source is the read side of the record store the engine pages over.
type Source interface {
	Page(ctx context.Context, offset, limit int, filter models.Filter) ([]*models.Record, error)
	TotalCount(ctx context.Context, filter models.Filter) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Record, error)
}

// Writer persists mutations while keeping group indices valid.
type Writer interface {
	Create(ctx context.Context, r *models.Record) (int64, error)
	Update(ctx context.Context, r *models.Record) error
	Delete(ctx context.Context, id int64) (*models.Record, error)
}

// Config sizes the cache.
type Config struct {
	// RecentLimit is the size of the always-loaded head window.
	RecentLimit int `json:"recent_limit,omitempty" mapstructure:"recent_limit" validate:"gt=0"`
	// OlderBatchSize is the size of each lazily loaded older page.
	OlderBatchSize int `json:"older_batch_size,omitempty" mapstructure:"older_batch_size" validate:"gt=0"`
	// WindowRadius is how many pages either side of the center stay resident.
	WindowRadius int `json:"window_radius,omitempty" mapstructure:"window_radius" validate:"gte=0"`
	// TrailingThreshold is how close to the end the view must be to load more.
	TrailingThreshold int `json:"trailing_threshold,omitempty" mapstructure:"trailing_threshold" validate:"gte=0"`
}

// DefaultConfig returns the standard cache sizes.
func DefaultConfig() Config {
	return Config{
		RecentLimit:       100,
		OlderBatchSize:    50,
		WindowRadius:      2,
		TrailingThreshold: 5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RecentLimit <= 0 {
		c.RecentLimit = d.RecentLimit
	}
	if c.OlderBatchSize <= 0 {
		c.OlderBatchSize = d.OlderBatchSize
	}
	if c.WindowRadius < 0 {
		c.WindowRadius = d.WindowRadius
	}
	if c.TrailingThreshold < 0 {
		c.TrailingThreshold = d.TrailingThreshold
	}
	return c
}

// Engine caches one filtered view of the record history for a single consumer.
// Its mutex guards cache state only and is never held across I/O.
type Engine struct {
	src    Source
	writer Writer
	cfg    Config
	filter models.Filter
	log    *zap.Logger
	id     uuid.UUID

	mu          sync.Mutex
	epoch       uint64
	closed      bool
	recent      []*models.Record
	pages       [][]*models.Record
	pageSizes   []int
	pageHeights map[int]float64
	reloading   map[int]bool
	hasMore     bool
	loadingMore bool
	initialDone bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets cache sizes; non-positive fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg.withDefaults()
	}
}

// WithLogger sets the logger for page load diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an engine over src restricted to filter. Writes go through w.
// A different filter needs a new Engine.
func New(src Source, w Writer, filter models.Filter, opts ...Option) *Engine {
	e := &Engine{
		src:         src,
		writer:      w,
		cfg:         DefaultConfig(),
		filter:      filter,
		log:         zap.NewNop(),
		id:          uuid.New(),
		pageHeights: make(map[int]float64),
		reloading:   make(map[int]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(zap.String("session", e.id.String()))
	return e
}

// SessionID identifies this engine instance.
func (e *Engine) SessionID() uuid.UUID {
	return e.id
}

// Config returns the cache sizes in use.
func (e *Engine) Config() Config {
	return e.cfg
}

// Filter returns the exercise filter of this session.
func (e *Engine) Filter() models.Filter {
	return e.filter
}

// Close ends the session; fetches still in flight are discarded.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.epoch++
}

// begin captures the epoch for a fetch, failing when the session ended.
// Caller must hold e.mu.
func (e *Engine) begin() (uint64, error) {
	if e.closed {
		return 0, ErrStaleSession
	}
	return e.epoch, nil
}

// LoadInitial fetches the head window and discards any older pages.
func (e *Engine) LoadInitial(ctx context.Context) error {
	e.mu.Lock()
	epoch, err := e.begin()
	e.mu.Unlock()
	if err != nil {
		return err
	}

	recent, err := e.src.Page(ctx, 0, e.cfg.RecentLimit, e.filter)
	if err != nil {
		return err
	}
	total, err := e.src.TotalCount(ctx, e.filter)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if epoch != e.epoch {
		return ErrStaleSession
	}
	e.epoch++
	e.recent = recent
	e.pages = nil
	e.pageSizes = nil
	e.pageHeights = make(map[int]float64)
	e.reloading = make(map[int]bool)
	e.hasMore = total > e.cfg.RecentLimit
	e.loadingMore = false
	e.initialDone = true
	e.log.Debug("loaded head window", zap.Int("records", len(recent)), zap.Int("total", total))
	return nil
}

// LoadNextBatchIfNeeded appends the next older page when the view is near
// the end of what has been rendered. It reports whether a fetch happened.
func (e *Engine) LoadNextBatchIfNeeded(ctx context.Context, lastVisible, totalRendered int) (bool, error) {
	e.mu.Lock()
	epoch, err := e.begin()
	if err != nil {
		e.mu.Unlock()
		return false, err
	}
	if !e.hasMore || e.loadingMore || totalRendered == 0 || lastVisible < totalRendered-e.cfg.TrailingThreshold {
		e.mu.Unlock()
		return false, nil
	}
	e.loadingMore = true
	offset := len(e.recent) + sum(e.pageSizes)
	e.mu.Unlock()

	page, err := e.src.Page(ctx, offset, e.cfg.OlderBatchSize, e.filter)

	e.mu.Lock()
	defer e.mu.Unlock()
	if epoch != e.epoch {
		return false, ErrStaleSession
	}
	e.loadingMore = false
	if err != nil {
		e.log.Warn("load older page failed", zap.Int("offset", offset), zap.Error(err))
		return false, err
	}
	if len(page) > 0 {
		e.pages = append(e.pages, page)
		e.pageSizes = append(e.pageSizes, len(page))
	}
	e.hasMore = len(page) == e.cfg.OlderBatchSize
	e.log.Debug("loaded older page", zap.Int("page", len(e.pages)-1), zap.Int("offset", offset), zap.Int("records", len(page)))
	return true, nil
}

// Fill loads older pages until at least n records are cached or the
// history is exhausted. LoadInitial runs first if it has not yet.
func (e *Engine) Fill(ctx context.Context, n int) error {
	if !e.InitialLoadDone() {
		if err := e.LoadInitial(ctx); err != nil {
			return err
		}
	}
	for {
		e.mu.Lock()
		rendered := len(e.recent) + sum(e.pageSizes)
		more := e.hasMore
		e.mu.Unlock()
		if rendered >= n || !more || rendered == 0 {
			return nil
		}
		loaded, err := e.LoadNextBatchIfNeeded(ctx, rendered, rendered)
		if err != nil {
			return err
		}
		if !loaded {
			return nil
		}
	}
}

type reloadJob struct {
	index  int
	offset int
	limit  int
}

// EvictAndReload drops pages farther than the window radius from center
// and refetches evicted pages that are back inside it.
func (e *Engine) EvictAndReload(ctx context.Context, center int) error {
	e.mu.Lock()
	epoch, err := e.begin()
	if err != nil {
		e.mu.Unlock()
		return err
	}

	var jobs []reloadJob
	for i := range e.pages {
		distance := abs(i - center)
		switch {
		case distance > e.cfg.WindowRadius && e.pages[i] != nil:
			if _, ok := e.pageHeights[i]; !ok {
				e.pageHeights[i] = EstimatePageHeight(e.pageSizes[i])
			}
			e.pages[i] = nil
			e.log.Debug("evicted page", zap.Int("page", i))
		case distance <= e.cfg.WindowRadius && e.pages[i] == nil && !e.reloading[i] && e.pageSizes[i] > 0:
			e.reloading[i] = true
			jobs = append(jobs, reloadJob{
				index:  i,
				offset: len(e.recent) + sum(e.pageSizes[:i]),
				limit:  e.pageSizes[i],
			})
		}
	}
	e.mu.Unlock()

	for n, job := range jobs {
		page, err := e.src.Page(ctx, job.offset, job.limit, e.filter)

		e.mu.Lock()
		if epoch != e.epoch {
			e.mu.Unlock()
			return ErrStaleSession
		}
		if err != nil {
			for _, rest := range jobs[n:] {
				delete(e.reloading, rest.index)
			}
			e.mu.Unlock()
			e.log.Warn("reload page failed", zap.Int("page", job.index), zap.Error(err))
			return err
		}
		delete(e.reloading, job.index)
		if job.index < len(e.pages) && e.pages[job.index] == nil && len(page) > 0 {
			e.pages[job.index] = page
			e.log.Debug("reloaded page", zap.Int("page", job.index), zap.Int("records", len(page)))
		}
		e.mu.Unlock()
	}
	return nil
}

// firstEvicted returns the index of the first evicted page, or -1.
// Caller must hold e.mu.
func (e *Engine) firstEvicted() int {
	for i, page := range e.pages {
		if page == nil && e.pageSizes[i] > 0 {
			return i
		}
	}
	return -1
}

// truncatePages forgets page i and every older page after a write whose
// effect on an evicted page cannot be counted. Later pages are fetched
// again from offsets that match the store; in-flight fetches are dropped.
// Caller must hold e.mu.
func (e *Engine) truncatePages(i int) {
	e.pages = e.pages[:i]
	e.pageSizes = e.pageSizes[:i]
	for p := range e.pageHeights {
		if p >= i {
			delete(e.pageHeights, p)
		}
	}
	e.reloading = make(map[int]bool)
	e.hasMore = true
	e.loadingMore = false
	e.epoch++
	e.log.Debug("truncated pages", zap.Int("from", i))
}

// PrependNewRecord fetches a just-created record and caches it where it
// belongs unless it is already cached or filtered out. A record created now
// lands at index 0 of the recent window.
func (e *Engine) PrependNewRecord(ctx context.Context, id int64) error {
	e.mu.Lock()
	epoch, err := e.begin()
	e.mu.Unlock()
	if err != nil {
		return err
	}

	r, err := e.src.GetByID(ctx, id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if epoch != e.epoch {
		return ErrStaleSession
	}
	if !e.filter.Matches(r.ExerciseID) || e.cached(id) {
		return nil
	}
	e.place(r)
	return nil
}

// cached reports whether id is in the recent window or a resident page.
// Caller must hold e.mu.
func (e *Engine) cached(id int64) bool {
	if indexOf(e.recent, id) >= 0 {
		return true
	}
	for _, page := range e.pages {
		if indexOf(page, id) >= 0 {
			return true
		}
	}
	return false
}

// place inserts a record that is new to the store at its canonical slot.
// A slot inside an evicted page forgets that page and the ones after it;
// a slot past everything cached is left for a later load.
// Caller must hold e.mu.
func (e *Engine) place(r *models.Record) {
	if len(e.recent) > 0 && models.Before(r, e.recent[len(e.recent)-1]) ||
		len(e.pages) == 0 && !e.hasMore {
		e.recent = models.InsertCanonical(e.recent, r)
		return
	}
	for p, page := range e.pages {
		if page == nil {
			if e.pageSizes[p] > 0 {
				e.truncatePages(p)
				return
			}
			continue
		}
		if models.Before(r, page[len(page)-1]) {
			e.pages[p] = models.InsertCanonical(page, r)
			e.pageSizes[p]++
			return
		}
	}
	e.hasMore = true
}

// Window returns the records at positions offset to offset+limit-1 of the
// filtered history, paging in as needed. Pages passed on the way are
// evicted once outside the window radius, so deep offsets keep a bounded
// cache. A window wider than the resident radius is read from the source.
func (e *Engine) Window(ctx context.Context, offset, limit int) ([]*models.Record, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil, nil
	}
	if !e.InitialLoadDone() {
		if err := e.LoadInitial(ctx); err != nil {
			return nil, err
		}
	}

	end := offset + limit
	restarted := false
	for {
		e.mu.Lock()
		rendered := len(e.recent) + sum(e.pageSizes)
		more := e.hasMore
		e.mu.Unlock()
		if rendered == 0 && more && !restarted {
			// Writes emptied the cache; start again from the head.
			restarted = true
			if err := e.LoadInitial(ctx); err != nil {
				return nil, err
			}
			continue
		}
		if rendered >= end || !more || rendered == 0 {
			break
		}
		loaded, err := e.LoadNextBatchIfNeeded(ctx, rendered, rendered)
		if err != nil {
			return nil, err
		}
		if !loaded {
			break
		}
		e.mu.Lock()
		last := len(e.pages) - 1
		e.mu.Unlock()
		if err := e.EvictAndReload(ctx, last); err != nil {
			return nil, err
		}
	}

	if err := e.EvictAndReload(ctx, e.pageAt(offset+limit/2)); err != nil {
		return nil, err
	}

	records, complete := e.collect(offset, end)
	if complete {
		return records, nil
	}
	e.log.Debug("window wider than resident pages", zap.Int("offset", offset), zap.Int("limit", limit))
	return e.src.Page(ctx, offset, limit, e.filter)
}

// pageAt returns the older page holding position pos, 0 when pos is in the
// recent window and the last page when pos is past the cache.
func (e *Engine) pageAt(pos int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := len(e.recent)
	for i, n := range e.pageSizes {
		if pos < start+n {
			return i
		}
		start += n
	}
	if len(e.pageSizes) == 0 {
		return 0
	}
	return len(e.pageSizes) - 1
}

// collect gathers cached records at positions [from, to) and reports
// whether none of them sat in an evicted page.
func (e *Engine) collect(from, to int) ([]*models.Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*models.Record
	pos := 0
	take := func(records []*models.Record) {
		for _, r := range records {
			if pos >= from && pos < to {
				out = append(out, r)
			}
			pos++
		}
	}
	take(e.recent)
	for i, page := range e.pages {
		if page == nil {
			n := e.pageSizes[i]
			if n > 0 && pos < to && pos+n > from {
				return nil, false
			}
			pos += n
			continue
		}
		take(page)
	}
	return out, true
}

// Recent returns the head window.
func (e *Engine) Recent() []*models.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*models.Record(nil), e.recent...)
}

// Pages returns the older pages; evicted pages are nil.
func (e *Engine) Pages() [][]*models.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]*models.Record, len(e.pages))
	for i, p := range e.pages {
		if p != nil {
			out[i] = append([]*models.Record(nil), p...)
		}
	}
	return out
}

// PageSizes returns the recorded size of every older page.
func (e *Engine) PageSizes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.pageSizes...)
}

// PageHeightEstimate returns the cached placeholder height of page i.
func (e *Engine) PageHeightEstimate(i int) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.pageHeights[i]
	return h, ok
}

// TotalOlderLoaded returns how many records the older pages account for.
func (e *Engine) TotalOlderLoaded() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sum(e.pageSizes)
}

// HasMore reports whether older records remain to be paged in.
func (e *Engine) HasMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasMore
}

// IsLoadingMore reports whether an older page fetch is in flight.
func (e *Engine) IsLoadingMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadingMore
}

// InitialLoadDone reports whether LoadInitial has completed.
func (e *Engine) InitialLoadDone() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialDone
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func indexOf(records []*models.Record, id int64) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
