package editor

import (
	"slices"
	"sync"
	"time"

	"github.com/yaklabco/markbridge/pkg/rtree"
)

// Surface is an interactive editing surface. Trees crossing this boundary
// are snapshots: Content returns a copy and SetContent and Insert must not
// retain the caller's nodes.
type Surface interface {
	// Content returns a snapshot of the current document.
	Content() *rtree.Node

	// SetContent replaces the document.
	SetContent(tree *rtree.Node)

	// Insert places an inline node at the cursor.
	Insert(n *rtree.Node)

	SetReadOnly(readOnly bool)
	SetPlaceholder(text string)

	// Subscribe registers fn to be called after every content change and
	// returns a function that removes the subscription.
	Subscribe(fn func()) (unsubscribe func())
}

// Timer is a pending scheduled call.
type Timer interface {
	// Stop cancels the call and reports whether it was still pending.
	Stop() bool
}

// Scheduler runs functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type clock struct{}

func (clock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// RealClock returns a Scheduler backed by time.AfterFunc.
//
//nolint:ireturn // callers only need the Scheduler behavior
func RealClock() Scheduler {
	return clock{}
}

// MemorySurface is an in-memory Surface. The cursor is always at the end
// of the document. It is safe for concurrent use.
type MemorySurface struct {
	mu          sync.Mutex
	doc         *rtree.Node
	readOnly    bool
	placeholder string
	subscribers map[int]func()
	nextID      int
}

// NewMemorySurface creates a surface holding an empty document.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		doc:         rtree.NewDocument(),
		subscribers: make(map[int]func()),
	}
}

// Content returns a copy of the document.
func (s *MemorySurface) Content() *rtree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rtree.Clone(s.doc)
}

// SetContent replaces the document with a copy of tree.
func (s *MemorySurface) SetContent(tree *rtree.Node) {
	s.mu.Lock()
	if tree == nil {
		s.doc = rtree.NewDocument()
	} else {
		s.doc = rtree.Clone(tree)
	}
	s.mu.Unlock()
	s.notify()
}

// Insert appends a copy of n to the last paragraph, starting a new
// paragraph when the document does not end in one.
func (s *MemorySurface) Insert(n *rtree.Node) {
	if n == nil {
		return
	}
	s.mu.Lock()
	target := s.doc.LastChild
	if target == nil || target.Kind != rtree.NodeParagraph {
		target = rtree.NewBlock(rtree.NodeParagraph)
		rtree.AppendChild(s.doc, target)
	}
	rtree.AppendChild(target, rtree.Clone(n))
	s.mu.Unlock()
	s.notify()
}

// Edit applies a user edit to the live document. Edits are ignored while
// the surface is read-only.
func (s *MemorySurface) Edit(fn func(doc *rtree.Node)) {
	s.mu.Lock()
	if s.readOnly {
		s.mu.Unlock()
		return
	}
	fn(s.doc)
	s.mu.Unlock()
	s.notify()
}

func (s *MemorySurface) SetReadOnly(readOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = readOnly
}

// ReadOnly reports whether user edits are ignored.
func (s *MemorySurface) ReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

func (s *MemorySurface) SetPlaceholder(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placeholder = text
}

// Placeholder returns the text shown while the document is empty.
func (s *MemorySurface) Placeholder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeholder
}

func (s *MemorySurface) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// notify calls subscribers in subscription order without holding the lock.
func (s *MemorySurface) notify() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subscribers[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
