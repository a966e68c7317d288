package editor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/yaklabco/markbridge/pkg/editor"
	"github.com/yaklabco/markbridge/pkg/rtree"
	"github.com/yaklabco/markbridge/pkg/sanitize"
)

// fakeScheduler runs scheduled functions when the test advances time.
type fakeScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*fakeTimer
}

type fakeTimer struct {
	due     time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	pending := !t.stopped
	t.stopped = true
	return pending
}

//nolint:ireturn // implements editor.Scheduler
func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) editor.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer := &fakeTimer{due: s.now + d, fn: fn}
	s.tasks = append(s.tasks, timer)
	return timer
}

// Advance moves the clock forward and runs every due, unstopped task.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due, rest []*fakeTimer
	for _, task := range s.tasks {
		if task.due <= s.now {
			due = append(due, task)
		} else {
			rest = append(rest, task)
		}
	}
	s.tasks = rest
	s.mu.Unlock()

	for _, task := range due {
		if !task.stopped {
			task.stopped = true
			task.fn()
		}
	}
}

type BindingSuite struct {
	suite.Suite

	surface   *editor.MemorySurface
	scheduler *fakeScheduler
	binding   *editor.Binding

	mu      sync.Mutex
	changes []string
}

func TestBindingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BindingSuite))
}

func (s *BindingSuite) SetupTest() {
	s.surface = editor.NewMemorySurface()
	s.scheduler = &fakeScheduler{}
	s.changes = nil
	s.binding = editor.Bind(s.surface, "# Title\n", s.record, editor.Options{
		Debounce:    100 * time.Millisecond,
		Scheduler:   s.scheduler,
		Placeholder: "Write something",
	})
	s.scheduler.Advance(0)
}

func (s *BindingSuite) record(markup string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, markup)
}

func (s *BindingSuite) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.changes...)
}

func (s *BindingSuite) appendParagraph(text string) {
	s.surface.Edit(func(doc *rtree.Node) {
		rtree.AppendChild(doc, rtree.NewBlock(rtree.NodeParagraph, rtree.NewText(text)))
	})
}

func (s *BindingSuite) TestInitialMarkupIsNotEchoed() {
	s.scheduler.Advance(time.Second)

	s.Empty(s.recorded())
	s.Equal(editor.ModeIdle, s.binding.Mode())
	s.Equal("# Title\n", s.binding.LastEmitted())
	s.Equal("Title", rtree.PlainText(s.surface.Content()))
	s.Equal("Write something", s.surface.Placeholder())
	s.NotEmpty(s.binding.ID())
}

func (s *BindingSuite) TestDebounceCoalescesBursts() {
	s.appendParagraph("one")
	s.scheduler.Advance(40 * time.Millisecond)
	s.appendParagraph("two")
	s.scheduler.Advance(40 * time.Millisecond)
	s.appendParagraph("three")
	s.scheduler.Advance(90 * time.Millisecond)

	s.Empty(s.recorded())
	s.Equal(editor.ModeEditing, s.binding.Mode())

	s.scheduler.Advance(10 * time.Millisecond)

	s.Equal([]string{"# Title\n\none\n\ntwo\n\nthree\n"}, s.recorded())
	s.Equal(editor.ModeIdle, s.binding.Mode())
}

func (s *BindingSuite) TestUnchangedSerializationIsSilent() {
	s.surface.Edit(func(*rtree.Node) {})
	s.scheduler.Advance(time.Second)

	s.Empty(s.recorded())
	s.Equal(editor.ModeIdle, s.binding.Mode())
}

func (s *BindingSuite) TestSetMarkupDoesNotEcho() {
	s.Require().NoError(s.binding.SetMarkup("Hello *world*"))

	s.Equal(editor.ModeApplyingExternal, s.binding.Mode())
	s.Equal("Hello world", rtree.PlainText(s.surface.Content()))

	s.scheduler.Advance(0)
	s.Equal(editor.ModeIdle, s.binding.Mode())

	s.scheduler.Advance(time.Second)
	s.Empty(s.recorded())
	s.Equal("Hello *world*", s.binding.LastEmitted())

	s.appendParagraph("more")
	s.scheduler.Advance(time.Second)
	s.Equal([]string{"Hello *world*\n\nmore\n"}, s.recorded())
}

func (s *BindingSuite) TestSetMarkupDropsPendingEdit() {
	s.appendParagraph("draft")
	s.Require().NoError(s.binding.SetMarkup("replaced"))
	s.scheduler.Advance(time.Second)

	s.Empty(s.recorded())
	s.Equal("replaced", rtree.PlainText(s.surface.Content()))
}

func (s *BindingSuite) TestSetMarkupWithSameRenderingIsNotReapplied() {
	s.Require().NoError(s.binding.SetMarkup("Title\n=====\n"))

	s.Equal(editor.ModeIdle, s.binding.Mode())
	s.Equal("Title\n=====\n", s.binding.LastEmitted())
}

func (s *BindingSuite) TestInsertLink() {
	s.Require().NoError(s.binding.InsertLink(" https://example.com ", "site"))
	s.scheduler.Advance(time.Second)

	s.Equal([]string{"# Title\n\n[site](https://example.com)\n"}, s.recorded())
}

func (s *BindingSuite) TestInsertImage() {
	s.Require().NoError(s.binding.InsertImage("/img.png", "logo"))
	s.scheduler.Advance(time.Second)

	s.Equal([]string{"# Title\n\n![logo](/img.png)\n"}, s.recorded())
}

func (s *BindingSuite) TestInsertRejectsBadTargets() {
	err := s.binding.InsertLink("javascript:alert(1)", "x")
	s.Require().ErrorIs(err, sanitize.ErrUnsafeScheme)

	err = s.binding.InsertImage("  ", "alt")
	s.Require().ErrorIs(err, sanitize.ErrEmptyTarget)

	s.scheduler.Advance(time.Second)
	s.Empty(s.recorded())
	s.Equal("Title", rtree.PlainText(s.surface.Content()))
}

func (s *BindingSuite) TestReadOnly() {
	s.binding.SetReadOnly(true)

	s.True(s.surface.ReadOnly())
	s.Require().ErrorIs(s.binding.InsertLink("https://example.com", ""), editor.ErrReadOnly)

	s.appendParagraph("ignored")
	s.scheduler.Advance(time.Second)
	s.Empty(s.recorded())
}

func (s *BindingSuite) TestFlush() {
	s.appendParagraph("now")
	s.binding.Flush()

	s.Equal([]string{"# Title\n\nnow\n"}, s.recorded())

	s.scheduler.Advance(time.Second)
	s.Len(s.recorded(), 1)
}

func (s *BindingSuite) TestDispose() {
	s.appendParagraph("pending")
	s.binding.Dispose()
	s.binding.Dispose()

	s.scheduler.Advance(time.Second)
	s.appendParagraph("after")
	s.scheduler.Advance(time.Second)

	s.Empty(s.recorded())
	s.Require().ErrorIs(s.binding.SetMarkup("x"), editor.ErrDisposed)
	s.Require().ErrorIs(s.binding.InsertLink("https://example.com", ""), editor.ErrDisposed)
	s.Equal(editor.ModeIdle, s.binding.Mode())
}

func TestBind_ReadOnlyOption(t *testing.T) {
	t.Parallel()

	surface := editor.NewMemorySurface()
	binding := editor.Bind(surface, "", nil, editor.Options{ReadOnly: true, Scheduler: &fakeScheduler{}})
	defer binding.Dispose()

	assert.True(t, surface.ReadOnly())
	assert.ErrorIs(t, binding.InsertImage("/a.png", ""), editor.ErrReadOnly)
	assert.Equal(t, editor.ModeIdle, binding.Mode())
}

func TestBind_RealClock(t *testing.T) {
	t.Parallel()

	surface := editor.NewMemorySurface()
	got := make(chan string, 1)
	binding := editor.Bind(surface, "", func(markup string) { got <- markup },
		editor.Options{Debounce: 10 * time.Millisecond})
	defer binding.Dispose()

	surface.Edit(func(doc *rtree.Node) {
		rtree.AppendChild(doc, rtree.NewBlock(rtree.NodeParagraph, rtree.NewText("typed")))
	})

	select {
	case markup := <-got:
		assert.Equal(t, "typed\n", markup)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no change delivered")
	}
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", editor.ModeIdle.String())
	assert.Equal(t, "applying-external", editor.ModeApplyingExternal.String())
	assert.Equal(t, "editing", editor.ModeEditing.String())
	assert.Equal(t, "mode(9)", editor.Mode(9).String())
}
