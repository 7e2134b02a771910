package nutrimap

import (
	"context"
	"sync"
	"time"

	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
	"github.com/carebridge/nutrimap/pkg/nutrition"
)

// Phase is the state of one session stream.
type Phase int

// Session phases.
const (
	// PhaseIdle means nothing has been requested, or the request was cleared.
	PhaseIdle Phase = iota
	// PhaseSearching means a request is in flight.
	PhaseSearching
	// PhaseError means the latest request failed.
	PhaseError
	// PhaseReady means the latest request succeeded.
	PhaseReady
)

var phaseNames = map[Phase]string{
	PhaseIdle:      "idle",
	PhaseSearching: "searching",
	PhaseError:     "error",
	PhaseReady:     "ready",
}

// String returns the string representation of a phase.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// SearchState is the search stream of a session.
type SearchState struct {
	Query        string                   `json:"query" yaml:"query"`
	Phase        Phase                    `json:"phase" yaml:"phase"`
	Results      []nutrition.SearchResult `json:"results" yaml:"results"`
	TotalResults int                      `json:"totalResults" yaml:"total_results"`
	Error        string                   `json:"error,omitempty" yaml:"error,omitempty"`
}

// DetailState is the details stream of a session.
type DetailState struct {
	Food      *nutrition.FoodIdentity        `json:"food,omitempty" yaml:"food,omitempty"`
	Phase     Phase                          `json:"phase" yaml:"phase"`
	Nutrition *nutrition.ReconciledNutrition `json:"nutrition,omitempty" yaml:"nutrition,omitempty"`
	Error     string                         `json:"error,omitempty" yaml:"error,omitempty"`
}

// SessionState is a snapshot of a session. Version increases with every
// change so consumers can drop stale snapshots.
type SessionState struct {
	Version uint64      `json:"version" yaml:"version"`
	Search  SearchState `json:"search" yaml:"search"`
	Detail  DetailState `json:"detail" yaml:"detail"`
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce sets how long Type waits for input to settle. Zero
// dispatches immediately.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithSessionContext sets the parent context of every request issued by the
// session.
func WithSessionContext(ctx context.Context) SessionOption {
	return func(s *Session) {
		if ctx != nil {
			s.parent = ctx
		}
	}
}

// Session drives a Client from interactive input.
//
// Search input is debounced and deduplicated against the last dispatched
// query; a new query cancels the one in flight and late responses are
// discarded. Selecting a food does the same for the details stream. The
// two streams are independent.
type Session struct {
	client   Client
	debounce time.Duration
	parent   context.Context

	mu    sync.Mutex
	state SessionState

	timer      *time.Timer
	pending    string
	pendingSeq uint64

	lastQuery  string
	dispatched bool

	searchGen    uint64
	searchCancel context.CancelFunc

	detailGen    uint64
	detailCancel context.CancelFunc

	listeners []func(SessionState)
	closed    bool
	wg        sync.WaitGroup
}

// NewSession creates a session bound to client.
func NewSession(client Client, opts ...SessionOption) *Session {
	s := &Session{
		client:   client,
		debounce: constants.SearchDebounce,
		parent:   context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Search.Results = []nutrition.SearchResult{}
	return s
}

// OnChange registers a listener called with a snapshot after every change.
// Listeners run outside the session lock and may call session methods.
func (s *Session) OnChange(fn func(SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Type records new search input. The query is dispatched once input has
// been stable for the debounce interval.
func (s *Session) Type(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state.Search.Query = query
	s.pending = query
	s.pendingSeq++
	seq := s.pendingSeq
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.debounce == 0 {
		notify := s.dispatchLocked(query)
		s.mu.Unlock()
		notify()
		return
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(seq) })
	s.mu.Unlock()
}

// Flush dispatches pending input immediately.
func (s *Session) Flush() {
	s.mu.Lock()
	if s.closed || s.timer == nil {
		s.mu.Unlock()
		return
	}
	s.timer.Stop()
	s.timer = nil
	notify := s.dispatchLocked(s.pending)
	s.mu.Unlock()
	notify()
}

// fire runs when the debounce timer expires.
func (s *Session) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.pendingSeq || s.timer == nil {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	notify := s.dispatchLocked(s.pending)
	s.mu.Unlock()
	notify()
}

// dispatchLocked starts a search for query unless it repeats the last
// dispatched query. It returns the notification to run after unlocking.
func (s *Session) dispatchLocked(query string) func() {
	if s.dispatched && query == s.lastQuery {
		return func() {}
	}
	s.dispatched = true
	s.lastQuery = query

	s.searchGen++
	gen := s.searchGen
	if s.searchCancel != nil {
		s.searchCancel()
		s.searchCancel = nil
	}

	if !IsSearchable(query) {
		s.state.Search = SearchState{
			Query:   query,
			Phase:   PhaseIdle,
			Results: []nutrition.SearchResult{},
		}
		return s.changedLocked()
	}

	ctx, cancel := context.WithCancel(s.parent)
	s.searchCancel = cancel
	s.state.Search.Query = query
	s.state.Search.Phase = PhaseSearching
	s.state.Search.Error = ""

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		resp, err := s.client.Search(ctx, query)
		s.completeSearch(gen, query, resp, err)
	}()

	return s.changedLocked()
}

func (s *Session) completeSearch(gen uint64, query string, resp *nutrition.SearchResponse, err error) {
	s.mu.Lock()
	if s.closed || gen != s.searchGen {
		s.mu.Unlock()
		return
	}
	s.searchCancel = nil
	if err != nil {
		logging.FromContext(s.parent).Debug().Err(err).Str("query", query).Msg("Session search failed")
		s.state.Search.Phase = PhaseError
		s.state.Search.Error = userMessage(err, errors.SearchFailedMessage)
		s.state.Search.Results = []nutrition.SearchResult{}
		s.state.Search.TotalResults = 0
	} else {
		if resp == nil {
			resp = nutrition.EmptySearchResponse()
		}
		s.state.Search.Phase = PhaseReady
		s.state.Search.Error = ""
		s.state.Search.Results = resp.Foods
		s.state.Search.TotalResults = resp.TotalHits
	}
	notify := s.changedLocked()
	s.mu.Unlock()
	notify()
}

// Select starts a details lookup for food, superseding any lookup in flight.
func (s *Session) Select(food nutrition.FoodIdentity) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.detailGen++
	gen := s.detailGen
	if s.detailCancel != nil {
		s.detailCancel()
	}
	ctx, cancel := context.WithCancel(s.parent)
	s.detailCancel = cancel

	selected := food
	s.state.Detail = DetailState{Food: &selected, Phase: PhaseSearching}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		record, err := s.client.FoodDetails(ctx, food)
		s.completeDetail(gen, record, err)
	}()

	notify := s.changedLocked()
	s.mu.Unlock()
	notify()
}

func (s *Session) completeDetail(gen uint64, record *nutrition.ReconciledNutrition, err error) {
	s.mu.Lock()
	if s.closed || gen != s.detailGen {
		s.mu.Unlock()
		return
	}
	s.detailCancel = nil
	if err != nil {
		s.state.Detail.Phase = PhaseError
		s.state.Detail.Error = userMessage(err, errors.DetailsFailedMessage)
		s.state.Detail.Nutrition = nil
	} else {
		s.state.Detail.Phase = PhaseReady
		s.state.Detail.Error = ""
		s.state.Detail.Nutrition = record
	}
	notify := s.changedLocked()
	s.mu.Unlock()
	notify()
}

// ClearSelection drops the selected food and cancels its lookup.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.clearSelectionLocked()
	notify := s.changedLocked()
	s.mu.Unlock()
	notify()
}

func (s *Session) clearSelectionLocked() {
	s.detailGen++
	if s.detailCancel != nil {
		s.detailCancel()
		s.detailCancel = nil
	}
	s.state.Detail = DetailState{Phase: PhaseIdle}
}

// ClearSearch resets the search input, results and selection.
func (s *Session) ClearSearch() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = ""
	s.pendingSeq++
	s.dispatched = true
	s.lastQuery = ""

	s.searchGen++
	if s.searchCancel != nil {
		s.searchCancel()
		s.searchCancel = nil
	}
	s.state.Search = SearchState{Phase: PhaseIdle, Results: []nutrition.SearchResult{}}
	s.clearSelectionLocked()

	notify := s.changedLocked()
	s.mu.Unlock()
	notify()
}

// Close cancels all in-flight work and waits for it to finish. The session
// ignores input afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.searchCancel != nil {
		s.searchCancel()
	}
	if s.detailCancel != nil {
		s.detailCancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// changedLocked bumps the version and returns a closure that delivers the
// new snapshot to listeners.
func (s *Session) changedLocked() func() {
	s.state.Version++
	snapshot := s.snapshotLocked()
	listeners := append([]func(SessionState){}, s.listeners...)
	return func() {
		for _, fn := range listeners {
			fn(snapshot)
		}
	}
}

func (s *Session) snapshotLocked() SessionState {
	out := s.state
	out.Search.Results = append([]nutrition.SearchResult{}, s.state.Search.Results...)
	if s.state.Detail.Food != nil {
		food := *s.state.Detail.Food
		out.Detail.Food = &food
	}
	return out
}

// userMessage maps err to a display-safe message.
func userMessage(err error, fallback string) string {
	if msg, ok := errors.UserMessage(err); ok {
		return msg
	}
	return fallback
}
