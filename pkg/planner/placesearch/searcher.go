// Package placesearch turns free-text input into a cancellable sequence of
// place lookups. Each keystroke restarts a debounce window; at most one
// lookup is in flight per field, and only the latest one may ever update
// state. Late results for superseded lookups are discarded, never mistaken
// for a fresh empty result.
package placesearch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/pkg/models"
)

const (
	defaultDebounce    = 250 * time.Millisecond
	defaultMinQueryLen = 3
)

// SearchFunc performs the actual lookup. It must honor ctx cancellation.
type SearchFunc func(ctx context.Context, query string) ([]models.PlaceCandidate, error)

type Option func(*Searcher)

func WithDebounce(d time.Duration) Option {
	return func(s *Searcher) { s.debounce = d }
}

func WithMinQueryLength(n int) Option {
	return func(s *Searcher) { s.minQueryLen = n }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Searcher) { s.logger = logger }
}

// Searcher owns the suggestion state for one query field. Every lookup is
// tagged with a generation number; a result is applied only if it still
// carries the latest generation, so ordering within the field is guaranteed
// no matter when responses arrive.
type Searcher struct {
	search      SearchFunc
	debounce    time.Duration
	minQueryLen int
	logger      *zap.Logger

	mu         sync.Mutex
	seq        uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	candidates []models.PlaceCandidate
	err        error
	searching  bool
	closed     bool

	updates chan struct{}
}

func New(search SearchFunc, opts ...Option) *Searcher {
	s := &Searcher{
		search:      search,
		debounce:    defaultDebounce,
		minQueryLen: defaultMinQueryLen,
		logger:      zap.NewNop(),
		updates:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input feeds the current field text. Short queries clear candidates and
// error state immediately without a lookup; anything else (re)starts the
// debounce window. A pending or in-flight lookup for older text is
// cancelled and never applied.
func (s *Searcher) Input(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.supersedeLocked()
	gen := s.seq

	query := strings.TrimSpace(text)
	if len([]rune(query)) < s.minQueryLen {
		s.candidates = nil
		s.err = nil
		s.searching = false
		s.mu.Unlock()
		s.notify()
		return
	}

	s.searching = true
	s.err = nil
	s.timer = time.AfterFunc(s.debounce, func() {
		s.fire(gen, query)
	})
	s.mu.Unlock()
	s.notify()
}

// Select binds a candidate: the suggestion list closes and no further
// lookup is issued. It returns the label the field should now display.
func (s *Searcher) Select(c models.PlaceCandidate) string {
	s.mu.Lock()
	s.supersedeLocked()
	s.candidates = nil
	s.err = nil
	s.searching = false
	s.mu.Unlock()
	s.notify()
	return c.PlaceName
}

// Candidates returns the currently surfaced suggestions.
func (s *Searcher) Candidates() []models.PlaceCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidates
}

// Err returns the surfaced lookup error, if any. Cancellation never shows
// up here.
func (s *Searcher) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Searching reports whether a lookup is pending or in flight.
func (s *Searcher) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// Updates signals state changes; the channel holds at most one pending
// notification, so consumers poll state after each receive.
func (s *Searcher) Updates() <-chan struct{} {
	return s.updates
}

// Close cancels any outstanding work. Used on field blur and teardown so a
// lookup never outlives its relevance.
func (s *Searcher) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.supersedeLocked()
	s.candidates = nil
	s.err = nil
	s.searching = false
	s.mu.Unlock()
}

// supersedeLocked bumps the generation and cancels the pending timer and
// any in-flight request. Callers must hold mu.
func (s *Searcher) supersedeLocked() {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// fire runs after the debounce window. The generation is re-checked before
// the lookup starts and again before its result is applied.
func (s *Searcher) fire(gen uint64, query string) {
	s.mu.Lock()
	if s.closed || gen != s.seq {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	candidates, err := s.search(ctx, query)

	s.mu.Lock()
	if s.closed || gen != s.seq {
		// A newer keystroke won; this result is dead regardless of content.
		s.mu.Unlock()
		return
	}
	s.cancel = nil
	s.searching = false
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return
		}
		s.logger.Debug("place lookup failed", zap.String("query", query), zap.Error(err))
		s.candidates = nil
		s.err = err
	} else {
		s.candidates = candidates
		s.err = nil
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Searcher) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
