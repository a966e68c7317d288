// Package editor binds an editing surface to Markup held by an external
// collaborator.
//
// External Markup is applied to the surface without echoing it back, and
// bursts of live edits are debounced into a single change notification
// carrying the serialized document.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/yaklabco/markbridge/internal/logging"
	"github.com/yaklabco/markbridge/pkg/convert"
	"github.com/yaklabco/markbridge/pkg/htmltree"
	"github.com/yaklabco/markbridge/pkg/markup"
	"github.com/yaklabco/markbridge/pkg/rtree"
	"github.com/yaklabco/markbridge/pkg/sanitize"
	"github.com/yaklabco/markbridge/pkg/serialize"
)

// DefaultDebounce is the idle period after the last edit before a change
// is delivered.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrReadOnly is returned when inserting into a read-only binding.
	ErrReadOnly = errors.New("editor is read-only")

	// ErrDisposed is returned by operations on a disposed binding.
	ErrDisposed = errors.New("editor binding is disposed")
)

// Mode is the state of a binding.
type Mode uint8

const (
	// ModeIdle means no external change is being applied and no edit is pending.
	ModeIdle Mode = iota

	// ModeApplyingExternal means surface changes are caused by SetMarkup
	// and must not be reported.
	ModeApplyingExternal

	// ModeEditing means a debounced notification is pending.
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeApplyingExternal:
		return "applying-external"
	case ModeEditing:
		return "editing"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Options configures a binding.
type Options struct {
	// Debounce is the idle window after the last edit. Zero means
	// DefaultDebounce.
	Debounce time.Duration

	ReadOnly    bool
	Placeholder string

	// Scheduler drives the debounce timer. Nil means RealClock.
	Scheduler Scheduler

	// Policy checks inserted link and image targets. Nil means the
	// default sanitizer policy.
	Policy *sanitize.Policy

	Logger    *log.Logger
	Parse     []markup.Option
	Serialize []serialize.Option
}

// Binding connects a Surface to a change callback.
type Binding struct {
	id        string
	surface   Surface
	onChange  func(string)
	conv      *convert.Converter
	scheduler Scheduler
	debounce  time.Duration
	policy    *sanitize.Policy
	logger    *log.Logger

	mu          sync.Mutex
	mode        Mode
	lastEmitted string
	readOnly    bool
	disposed    bool
	generation  uint64
	timer       Timer
	unsubscribe func()
}

// Bind loads initialMarkup into surface and starts reporting edits to
// onChange. The initial content is never reported back.
func Bind(surface Surface, initialMarkup string, onChange func(string), opts Options) *Binding {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealClock()
	}
	if opts.Policy == nil {
		opts.Policy = sanitize.DefaultPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if onChange == nil {
		onChange = func(string) {}
	}

	id := uuid.NewString()
	b := &Binding{
		id:        id,
		surface:   surface,
		onChange:  onChange,
		conv:      convert.NewConverter(opts.Parse, opts.Serialize),
		scheduler: opts.Scheduler,
		debounce:  opts.Debounce,
		policy:    opts.Policy,
		logger:    opts.Logger.With(logging.FieldBinding, id),
		readOnly:  opts.ReadOnly,
	}

	surface.SetReadOnly(opts.ReadOnly)
	surface.SetPlaceholder(opts.Placeholder)
	b.unsubscribe = surface.Subscribe(b.handleChange)

	b.logger.Debug("binding created", logging.FieldDebounce, opts.Debounce, "read_only", opts.ReadOnly)

	//nolint:errcheck // a fresh binding is never disposed
	b.SetMarkup(initialMarkup)

	return b
}

// ID returns the binding's unique identifier.
func (b *Binding) ID() string {
	return b.id
}

// Mode returns the current state.
func (b *Binding) Mode() Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// LastEmitted returns the Markup most recently applied or reported.
func (b *Binding) LastEmitted() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastEmitted
}

// Markup serializes the current surface content without reporting it.
func (b *Binding) Markup() string {
	return b.conv.ToMarkup(b.surface.Content())
}

// SetMarkup applies Markup from the collaborator. Content that renders the
// same as the surface's current document is not reapplied. Either way src
// becomes the last emitted value, so the change is never echoed back.
func (b *Binding) SetMarkup(src string) error {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return ErrDisposed
	}

	tree := b.conv.ToRenderable(src)
	b.lastEmitted = src
	if htmltree.Render(tree) == htmltree.Render(b.surface.Content()) {
		b.mu.Unlock()
		b.logger.Debug("external markup matches surface", logging.FieldBytes, len(src))
		return nil
	}

	b.stopTimer()
	b.mode = ModeApplyingExternal
	b.mu.Unlock()

	b.logger.Debug("applying external markup", logging.FieldBytes, len(src))
	b.surface.SetContent(tree)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.disposed && b.mode == ModeApplyingExternal {
		b.schedule(0, b.settle)
	}
	return nil
}

// InsertLink inserts a link labelled text at the cursor. The target is
// checked before anything is inserted.
func (b *Binding) InsertLink(href, text string) error {
	if err := b.checkInsert(href); err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	href = strings.TrimSpace(href)
	if text == "" {
		text = href
	}
	b.surface.Insert(rtree.NewLink(href, "", rtree.NewText(text)))
	return nil
}

// InsertImage inserts an image at the cursor. The source is checked before
// anything is inserted.
func (b *Binding) InsertImage(src, alt string) error {
	if err := b.checkInsert(src); err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	b.surface.Insert(rtree.NewImage(strings.TrimSpace(src), alt, ""))
	return nil
}

func (b *Binding) checkInsert(target string) error {
	b.mu.Lock()
	disposed, readOnly := b.disposed, b.readOnly
	b.mu.Unlock()

	switch {
	case disposed:
		return ErrDisposed
	case readOnly:
		return ErrReadOnly
	}
	if err := b.policy.CheckTarget(target); err != nil {
		b.logger.Debug("rejected insertion", logging.FieldTarget, target, logging.FieldError, err)
		return err
	}
	return nil
}

// SetReadOnly toggles read-only mode on the binding and its surface.
func (b *Binding) SetReadOnly(readOnly bool) {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	b.readOnly = readOnly
	b.mu.Unlock()
	b.surface.SetReadOnly(readOnly)
}

// Flush delivers a pending edit immediately instead of waiting for the
// debounce window to elapse.
func (b *Binding) Flush() {
	b.mu.Lock()
	if b.disposed || b.mode != ModeEditing {
		b.mu.Unlock()
		return
	}
	b.stopTimer()
	b.emitLocked()
}

// Dispose stops reporting changes. Pending edits are dropped. Calling
// Dispose more than once is harmless.
func (b *Binding) Dispose() {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	b.disposed = true
	b.stopTimer()
	b.mode = ModeIdle
	unsubscribe := b.unsubscribe
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	b.logger.Debug("binding disposed")
}

func (b *Binding) handleChange() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disposed || b.mode == ModeApplyingExternal {
		return
	}
	b.mode = ModeEditing
	b.schedule(b.debounce, b.fire)
}

// schedule replaces the pending timer. Callbacks from replaced timers see
// a stale generation and do nothing. Callers hold b.mu.
func (b *Binding) schedule(d time.Duration, fn func(gen uint64)) {
	b.stopTimer()
	gen := b.generation
	b.timer = b.scheduler.AfterFunc(d, func() { fn(gen) })
}

// stopTimer cancels the pending timer and invalidates its callback.
// Callers hold b.mu.
func (b *Binding) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.generation++
}

func (b *Binding) settle(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disposed || gen != b.generation || b.mode != ModeApplyingExternal {
		return
	}
	b.timer = nil
	b.mode = ModeIdle
}

func (b *Binding) fire(gen uint64) {
	b.mu.Lock()
	if b.disposed || gen != b.generation || b.mode != ModeEditing {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.emitLocked()
}

// emitLocked serializes the surface, returns to idle and reports the
// result if it differs from the last emitted value. It is called with
// b.mu held and releases it before invoking the callback.
func (b *Binding) emitLocked() {
	out := b.conv.ToMarkup(b.surface.Content())
	b.mode = ModeIdle

	if out == b.lastEmitted {
		b.mu.Unlock()
		b.logger.Debug("edit produced no change")
		return
	}
	b.lastEmitted = out
	onChange := b.onChange
	b.mu.Unlock()

	b.logger.Debug("reporting change", logging.FieldBytes, len(out))
	onChange(out)
}
