// Package display holds the rotation engine of the kiosk: which category,
// and which page of it, each slot shows, and when that changes.
package display

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"menu-signage/models"
)

// Frame is the result of one render pass
type Frame struct {
	SessionID  string               `json:"sessionId"`
	Sequence   uint64               `json:"sequence"`
	State      models.RotationState `json:"state"`
	Columns    int                  `json:"columns"`
	Slots      []Slot               `json:"slots"`
	RenderedAt time.Time            `json:"renderedAt"`
}

// Slot returns the frame's copy of slot index, or nil
func (f Frame) Slot(index int) *Slot {
	for i := range f.Slots {
		if f.Slots[i].Index == index {
			return &f.Slots[i]
		}
	}
	return nil
}

// Session owns everything one display shows: the categories, the rotation
// position, the fit memo and the slots. All methods are safe for concurrent
// use; a render pass runs under the session lock.
type Session struct {
	mu sync.Mutex

	id         string
	categories []models.Category
	state      models.RotationState
	columns    int
	width      int
	height     int

	surface  *Surface
	renderer *SlotRenderer
	fit      *FitEstimator
	probe    SizeProbe

	seq      uint64
	frame    Frame
	now      func() time.Time
	onRender func(Frame)
}

// Option configures a Session
type Option func(*Session)

// WithColumns sets the initial column count
func WithColumns(n int) Option {
	return func(s *Session) { s.columns = n }
}

// WithSurface replaces the default four-slot surface
func WithSurface(surface *Surface) Option {
	return func(s *Session) { s.surface = surface }
}

// WithClock replaces time.Now for frame timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// OnRender registers a callback invoked with every new frame. It runs
// outside the session lock.
func OnRender(fn func(Frame)) Option {
	return func(s *Session) { s.onRender = fn }
}

// NewSession creates a session measuring through probe
func NewSession(probe SizeProbe, opts ...Option) *Session {
	renderer := &SlotRenderer{}
	s := &Session{
		id:       uuid.NewString(),
		columns:  2,
		surface:  NewSurface(),
		renderer: renderer,
		probe:    probe,
		fit:      NewFitEstimator(probe, renderer),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Frame returns the last rendered frame
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// State returns the current rotation position
func (s *Session) State() models.RotationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Columns returns the configured column count
func (s *Session) Columns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columns
}

// Viewport returns the last size reported by the kiosk
func (s *Session) Viewport() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Categories returns a copy of the category list
func (s *Session) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Load installs the initial catalog, resets the rotation to the start and
// renders. A nil or malformed catalog shows nothing.
func (s *Session) Load(catalog *models.Catalog) Frame {
	s.mu.Lock()
	s.categories = s.categories[:0]
	if catalog != nil {
		s.categories = append(s.categories, catalog.Categories...)
	}
	s.state = models.RotationState{}
	s.fit.Clear()
	f := s.renderLocked(s.now())
	s.mu.Unlock()

	s.publish(f)
	return f
}

// Replace swaps in a refreshed category list. The list is replaced in place.
// When the category on display still exists (by title) rotation resumes
// there at its first page; otherwise it restarts at (0,0).
func (s *Session) Replace(categories []models.Category) Frame {
	s.mu.Lock()
	current := ""
	if s.state.CategoryIndex < len(s.categories) {
		current = s.categories[s.state.CategoryIndex].Title
	}

	s.fit.Clear()
	s.categories = append(s.categories[:0], categories...)

	s.state = models.RotationState{}
	if current != "" {
		for i := range s.categories {
			if s.categories[i].Title == current {
				s.state.CategoryIndex = i
				break
			}
		}
	}
	f := s.renderLocked(s.now())
	s.mu.Unlock()

	s.publish(f)
	return f
}

// SetColumns changes the layout mode and re-renders when it differs
func (s *Session) SetColumns(n int) {
	if n <= 0 {
		n = 2
	}
	s.mu.Lock()
	if s.columns == n {
		s.mu.Unlock()
		return
	}
	s.columns = n
	s.fit.Clear()
	f := s.renderLocked(s.now())
	s.mu.Unlock()

	s.publish(f)
}

// ClearMemo forgets every measured fit without re-rendering
func (s *Session) ClearMemo() {
	s.mu.Lock()
	s.fit.Clear()
	s.mu.Unlock()
}

// Render runs a render pass with the current state
func (s *Session) Render() Frame {
	s.mu.Lock()
	f := s.renderLocked(s.now())
	s.mu.Unlock()

	s.publish(f)
	return f
}

func (s *Session) publish(f Frame) {
	if s.onRender != nil {
		s.onRender(f)
	}
}
