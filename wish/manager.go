package wish

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"gjinn/core"

	"github.com/sirupsen/logrus"
)

type (
	// Store is what the manager needs from the persistence layer.
	Store interface {
		core.WishStore
		core.SettingsStore
	}

	// Notifier receives wish lifecycle events. Implementations must not
	// block; the manager calls them while holding its lock.
	Notifier interface {
		WishUpdated(userID string, w *core.Wish)
	}

	// NopNotifier discards all events.
	NopNotifier struct{}

	// Options tune a Manager. Zero values fall back to the defaults below.
	Options struct {
		MaxRequestsPerHour int
		GenerationTimeout  time.Duration
		ImageWidth         int
		ImageHeight        int
		Model              string
		Catalog            []CatalogPrompt

		// Clock and Seed exist for tests.
		Clock func() time.Time
		Seed  func() int64
	}

	// Stats are derived counters over the wish list.
	Stats struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Favorites int `json:"favorites"`
	}

	// Manager owns one user's wish list, rate-limit state and daily-prompt
	// bookkeeping for the lifetime of the session. The store is the
	// long-lived owner across sessions: the manager reloads from it at
	// startup and writes to it after every mutation, best-effort.
	Manager struct {
		userID   string
		store    Store
		gen      core.Generator
		notifier Notifier
		catalog  []CatalogPrompt
		opts     Options

		mu       sync.Mutex
		wishes   []*core.Wish // most recent first
		settings *core.Settings
		limiter  *Limiter
		lastID   int64
	}
)

func (NopNotifier) WishUpdated(string, *core.Wish) {}

const (
	defaultMaxRequestsPerHour = 20
	defaultGenerationTimeout  = 30 * time.Second
	defaultImageSize          = 1024
)

// NewManager creates a manager for one user. Call Load before first use to
// pick up previously stored state.
func NewManager(userID string, store Store, gen core.Generator, notifier Notifier, opts Options) *Manager {
	if opts.MaxRequestsPerHour <= 0 {
		opts.MaxRequestsPerHour = defaultMaxRequestsPerHour
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = defaultGenerationTimeout
	}
	if opts.ImageWidth <= 0 {
		opts.ImageWidth = defaultImageSize
	}
	if opts.ImageHeight <= 0 {
		opts.ImageHeight = defaultImageSize
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Seed == nil {
		opts.Seed = func() int64 { return rand.Int63n(1000000) }
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	catalog := opts.Catalog
	if len(catalog) == 0 {
		catalog = DefaultCatalog
	}
	return &Manager{
		userID:   userID,
		store:    store,
		gen:      gen,
		notifier: notifier,
		catalog:  catalog,
		opts:     opts,
		settings: &core.Settings{},
		limiter:  NewLimiter(opts.MaxRequestsPerHour),
	}
}

// Load restores the wish list and settings from the store. A load failure
// is logged and leaves the manager with an empty list; it never fails the
// session.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := logrus.WithField("user_id", m.userID)

	wishes, err := m.store.LoadWishes(ctx, m.userID)
	if err != nil {
		log.WithError(err).Warn("Failed to load stored wishes, starting empty")
		wishes = nil
	}
	m.wishes = wishes
	for _, w := range m.wishes {
		w.UserID = m.userID
		if w.ID > m.lastID {
			m.lastID = w.ID
		}
	}

	settings, err := m.store.LoadSettings(ctx, m.userID)
	if err != nil {
		log.WithError(err).Warn("Failed to load settings, using defaults")
	}
	if settings == nil {
		settings = &core.Settings{}
	}
	m.settings = settings

	max := m.opts.MaxRequestsPerHour
	if settings.MaxRequestsPerHour > 0 {
		max = settings.MaxRequestsPerHour
	}
	m.limiter = NewLimiter(max)

	log.WithField("count", len(m.wishes)).Debug("Loaded stored wishes")
}

// UserID returns the owning user's subject.
func (m *Manager) UserID() string { return m.userID }

func (m *Manager) now() time.Time { return m.opts.Clock() }

func (m *Manager) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

func (m *Manager) findLocked(id int64) *core.Wish {
	for _, w := range m.wishes {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// persistWishesLocked writes the whole list, best-effort. The in-memory
// state stays the source of truth when the save fails.
func (m *Manager) persistWishesLocked(ctx context.Context) {
	if err := m.store.SaveWishes(ctx, m.userID, core.CloneWishes(m.wishes)); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": m.userID,
			"count":   len(m.wishes),
		}).WithError(err).Warn("Failed to save wishes")
	}
}

func (m *Manager) persistSettingsLocked(ctx context.Context) {
	if err := m.store.SaveSettings(ctx, m.userID, m.settings.Clone()); err != nil {
		logrus.WithField("user_id", m.userID).WithError(err).Warn("Failed to save settings")
	}
}

// CreateWish validates the prompt, checks the hourly quota and inserts a
// new queued wish at the head of the list. Generation happens afterwards
// via Fulfill; the wish is returned immediately.
func (m *Manager) CreateWish(ctx context.Context, prompt string, kind core.WishKind) (*core.Wish, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, core.ErrEmptyPrompt
	}
	if kind == "" {
		kind = core.WishKindImage
	}
	if !core.ValidKind(kind) {
		return nil, core.ErrInvalidKind
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !m.limiter.CanMakeRequest(now) {
		return nil, &core.RateLimitError{
			Limit:      m.limiter.Limit(),
			RetryAfter: m.limiter.RetryAfter(now),
		}
	}

	w := &core.Wish{
		ID:        m.nextIDLocked(now),
		UserID:    m.userID,
		Prompt:    prompt,
		Kind:      kind,
		Status:    core.StatusQueued,
		Progress:  0,
		CreatedAt: now,
	}
	m.wishes = append([]*core.Wish{w}, m.wishes...)
	m.limiter.RecordRequest(now)
	m.persistWishesLocked(ctx)
	m.notifier.WishUpdated(m.userID, w.Clone())

	logrus.WithFields(logrus.Fields{
		"user_id": m.userID,
		"wish_id": w.ID,
		"kind":    kind,
	}).Info("Wish created")
	return w.Clone(), nil
}

// Begin moves a queued wish into processing. A no-op for any other state.
func (m *Manager) Begin(ctx context.Context, id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil || w.Status != core.StatusQueued {
		return
	}
	w.Status = core.StatusProcessing
	w.Progress = 25
	m.notifier.WishUpdated(m.userID, w.Clone())
}

// SetProgress advances the cosmetic progress of a processing wish. Progress
// only moves forward and never reaches 100 here; 100 is reserved for
// completion.
func (m *Manager) SetProgress(ctx context.Context, id int64, progress int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil || w.Status != core.StatusProcessing {
		return
	}
	if progress > 99 {
		progress = 99
	}
	if progress <= w.Progress {
		return
	}
	w.Progress = progress
	m.notifier.WishUpdated(m.userID, w.Clone())
}

// Complete finishes a pending wish with a result. Idempotent on terminal
// wishes: no state change, no re-persist, no event.
func (m *Manager) Complete(ctx context.Context, id int64, result *core.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil || w.Terminal() {
		return
	}
	now := m.now()
	r := *result
	w.Status = core.StatusCompleted
	w.Progress = 100
	w.Result = &r
	w.Error = ""
	w.CompletedAt = &now
	m.persistWishesLocked(ctx)
	m.notifier.WishUpdated(m.userID, w.Clone())

	logrus.WithFields(logrus.Fields{
		"user_id": m.userID,
		"wish_id": id,
	}).Info("Wish completed")
}

// Fail finishes a pending wish with an error reason. Idempotent on
// terminal wishes.
func (m *Manager) Fail(ctx context.Context, id int64, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil || w.Terminal() {
		return
	}
	now := m.now()
	w.Status = core.StatusFailed
	w.Result = nil
	w.Error = reason
	w.CompletedAt = &now
	m.persistWishesLocked(ctx)
	m.notifier.WishUpdated(m.userID, w.Clone())

	logrus.WithFields(logrus.Fields{
		"user_id": m.userID,
		"wish_id": id,
		"reason":  reason,
	}).Warn("Wish failed")
}

// Fulfill drives a wish to a terminal state: queued wishes start
// processing, image wishes call the generator bounded by the generation
// timeout, audio and text wishes get synthetic metadata. Run it in its own
// goroutine after CreateWish.
func (m *Manager) Fulfill(ctx context.Context, id int64) {
	m.mu.Lock()
	w := m.findLocked(id)
	if w == nil || w.Terminal() {
		m.mu.Unlock()
		return
	}
	prompt, kind := w.Prompt, w.Kind
	m.mu.Unlock()

	m.Begin(ctx, id)

	switch kind {
	case core.WishKindAudio:
		m.Complete(ctx, id, syntheticResult(kind, prompt, m.now()))
	case core.WishKindText:
		m.Complete(ctx, id, syntheticResult(kind, prompt, m.now()))
	default:
		genCtx, cancel := context.WithTimeout(ctx, m.opts.GenerationTimeout)
		defer cancel()
		result, err := m.gen.Generate(genCtx, prompt, core.GenerateOptions{
			Width:  m.opts.ImageWidth,
			Height: m.opts.ImageHeight,
			Seed:   m.opts.Seed(),
			Model:  m.opts.Model,
		})
		if err != nil {
			reason := "generation failed: " + err.Error()
			if errors.Is(err, context.DeadlineExceeded) {
				reason = "generation timeout - please try again"
			}
			m.Fail(ctx, id, reason)
			return
		}
		m.Complete(ctx, id, result)
	}
}

// syntheticResult fabricates metadata for kinds the generator does not
// actually produce.
func syntheticResult(kind core.WishKind, prompt string, now time.Time) *core.Result {
	words := len(strings.Fields(prompt))
	r := &core.Result{GeneratedAt: now}
	switch kind {
	case core.WishKindAudio:
		r.DurationSeconds = 10 + 2*words
	case core.WishKindText:
		r.WordCount = 80 + 20*words
	}
	return r
}

// ToggleFavorite flips the favorite flag and persists. Unknown ids are a
// no-op, not an error; nil is returned.
func (m *Manager) ToggleFavorite(ctx context.Context, id int64) *core.Wish {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil {
		return nil
	}
	w.Favorite = !w.Favorite
	m.persistWishesLocked(ctx)
	m.notifier.WishUpdated(m.userID, w.Clone())
	return w.Clone()
}

// RecordDownload counts a download triggered by the UI. Unknown ids are a
// no-op.
func (m *Manager) RecordDownload(ctx context.Context, id int64) *core.Wish {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil {
		return nil
	}
	w.Downloads++
	m.persistWishesLocked(ctx)
	return w.Clone()
}

// MarkDailyCompleted records that today's daily prompt was granted by the
// given wish, replacing any earlier completion for the same day.
func (m *Manager) MarkDailyCompleted(ctx context.Context, today time.Time, wishID int64) core.DailyCompletion {
	m.mu.Lock()
	defer m.mu.Unlock()

	date := today.Format(dailyDateFormat)
	completion := core.DailyCompletion{
		Date:        date,
		PromptID:    promptForDay(m.catalog, today).ID,
		WishID:      wishID,
		CompletedAt: m.now(),
	}
	kept := m.settings.DailyCompletions[:0]
	for _, c := range m.settings.DailyCompletions {
		if c.Date != date {
			kept = append(kept, c)
		}
	}
	m.settings.DailyCompletions = append(kept, completion)
	m.persistSettingsLocked(ctx)
	return completion
}

// Get returns a copy of one wish.
func (m *Manager) Get(id int64) (*core.Wish, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.findLocked(id)
	if w == nil {
		return nil, false
	}
	return w.Clone(), true
}

// Wishes returns the full list, most recent first.
func (m *Manager) Wishes() []*core.Wish {
	m.mu.Lock()
	defer m.mu.Unlock()
	return core.CloneWishes(m.wishes)
}

// Active returns wishes still queued or processing.
func (m *Manager) Active() []*core.Wish {
	return m.filter(func(w *core.Wish) bool { return !w.Terminal() })
}

// Completed returns completed wishes, most recent first, up to limit
// (limit <= 0 means all).
func (m *Manager) Completed(limit int) []*core.Wish {
	out := m.filter(func(w *core.Wish) bool { return w.Status == core.StatusCompleted })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Gallery is a pure projection of the wish list: every completed wish, in
// creation order. It is never a separately mutated collection.
func (m *Manager) Gallery() []*core.Wish {
	return m.Completed(0)
}

func (m *Manager) filter(keep func(*core.Wish) bool) []*core.Wish {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*core.Wish
	for _, w := range m.wishes {
		if keep(w) {
			out = append(out, w.Clone())
		}
	}
	return out
}

// Stats derives the dashboard counters from the current list.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{Total: len(m.wishes)}
	for _, w := range m.wishes {
		if w.Status == core.StatusCompleted {
			s.Completed++
		}
		if w.Favorite {
			s.Favorites++
		}
	}
	return s
}

// CanMakeRequest reports whether a create would currently be accepted.
func (m *Manager) CanMakeRequest(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limiter.CanMakeRequest(now)
}
