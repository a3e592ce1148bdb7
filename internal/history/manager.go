package history

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/types"
)

const DefaultMaxHistory = 50

// Surface is the drawing surface the manager drives.
// Implementations must not call back into the Manager from these methods.
type Surface interface {
	// RenderBlank blanks the visible canvas.
	RenderBlank()
	// RenderSnapshot starts showing req.Snapshot. Completion may be asynchronous;
	// callers check ResolveRedisplay before presenting the result.
	RenderSnapshot(req Redisplay)
	// CaptureSnapshot serializes the current pixels.
	CaptureSnapshot() (types.Snapshot, error)
}

// Redisplay is a request to show a snapshot, stamped with the generation
// of the transition that issued it.
type Redisplay struct {
	Generation uint64
	Page       int
	Snapshot   types.Snapshot
}

type pendingEvent struct {
	typ  event.Type
	data interface{}
}

// Manager owns the document: every page, its stacks and the current page index.
type Manager struct {
	surface    Surface
	events     *event.Manager
	pages      map[int]*Page
	current    int
	maxHistory int
	generation uint64 // Bumped by every transition that changes what the surface must show
	mutex      sync.Mutex
}

// NewManager creates a history manager with a blank first page.
// events may be nil.
func NewManager(surface Surface, events *event.Manager, maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{
		surface:    surface,
		events:     events,
		pages:      map[int]*Page{0: newPage(0)},
		current:    0,
		maxHistory: maxHistory,
	}
}

func (m *Manager) emit(pending []pendingEvent) {
	if m.events == nil {
		return
	}
	for _, p := range pending {
		m.events.Dispatch(p.typ, p.data)
	}
}

// commitLocked records s as the latest state of page idx. Must hold mutex.
func (m *Manager) commitLocked(page *Page, s types.Snapshot) pendingEvent {
	evicted := page.push(s, m.maxHistory)
	page.redo = nil
	page.snapshot = s
	if page.Index == m.current {
		m.generation++
	}
	if evicted > 0 {
		logger.DebugTagf("history", "History: Page %d dropped %d oldest entr(y/ies)", page.Index, evicted)
	}
	logger.DebugTagf("history", "History: Page %d committed %s. Undo: %d", page.Index, s.Short(), len(page.undo))
	return pendingEvent{event.TypeSnapshotCommitted, event.SnapshotCommittedData{
		Page:     page.Index,
		Snapshot: s,
		Evicted:  evicted,
	}}
}

// showLocked asks the surface to display the current page's snapshot. Must hold mutex.
func (m *Manager) showLocked(page *Page) {
	if page.snapshot.IsBlank() {
		m.surface.RenderBlank()
		return
	}
	m.surface.RenderSnapshot(Redisplay{
		Generation: m.generation,
		Page:       page.Index,
		Snapshot:   page.snapshot,
	})
}

// Commit appends snapshot to the page's undo stack, evicting the oldest entry
// past the bound, clears its redo stack and makes snapshot current.
// It returns false if the page has never been visited.
func (m *Manager) Commit(pageIndex int, snapshot types.Snapshot) bool {
	m.mutex.Lock()
	page, ok := m.pages[pageIndex]
	if !ok {
		m.mutex.Unlock()
		logger.Warnf("History: Commit to unknown page %d ignored", pageIndex)
		return false
	}
	ev := m.commitLocked(page, snapshot)
	m.mutex.Unlock()

	m.emit([]pendingEvent{ev})
	return true
}

// CommitLive captures the surface and commits it on the current page.
// A failed capture is not committed.
func (m *Manager) CommitLive() error {
	m.mutex.Lock()
	snap, err := m.surface.CaptureSnapshot()
	if err != nil {
		m.mutex.Unlock()
		return fmt.Errorf("capture page %d: %w", m.current+1, err)
	}
	ev := m.commitLocked(m.pages[m.current], snap)
	m.mutex.Unlock()

	m.emit([]pendingEvent{ev})
	return nil
}

// Undo moves the page one step back. It returns false when there is nothing to undo.
func (m *Manager) Undo(pageIndex int) bool {
	m.mutex.Lock()
	page, ok := m.pages[pageIndex]
	if !ok || len(page.undo) == 0 {
		m.mutex.Unlock()
		logger.DebugTagf("history", "History: Nothing to undo on page %d", pageIndex)
		return false
	}

	last := page.undo[len(page.undo)-1]
	page.undo = page.undo[:len(page.undo)-1]
	page.redo = append(page.redo, last)
	page.snapshot = page.top()

	if pageIndex == m.current {
		m.generation++
		m.showLocked(page)
	}
	data := event.HistoryStepData{
		Page:      pageIndex,
		Snapshot:  page.snapshot,
		UndoDepth: len(page.undo),
		RedoDepth: len(page.redo),
	}
	m.mutex.Unlock()

	logger.DebugTagf("history", "History: Page %d undid %s. Undo: %d, Redo: %d",
		pageIndex, last.Short(), data.UndoDepth, data.RedoDepth)
	m.emit([]pendingEvent{{event.TypeHistoryUndone, data}})
	return true
}

// Redo re-applies the most recently undone snapshot. It returns false when there is nothing to redo.
func (m *Manager) Redo(pageIndex int) bool {
	m.mutex.Lock()
	page, ok := m.pages[pageIndex]
	if !ok || len(page.redo) == 0 {
		m.mutex.Unlock()
		logger.DebugTagf("history", "History: Nothing to redo on page %d", pageIndex)
		return false
	}

	next := page.redo[len(page.redo)-1]
	page.redo = page.redo[:len(page.redo)-1]
	page.push(next, m.maxHistory)
	page.snapshot = next

	if pageIndex == m.current {
		m.generation++
		m.showLocked(page)
	}
	data := event.HistoryStepData{
		Page:      pageIndex,
		Snapshot:  next,
		UndoDepth: len(page.undo),
		RedoDepth: len(page.redo),
	}
	m.mutex.Unlock()

	logger.DebugTagf("history", "History: Page %d redid %s. Undo: %d, Redo: %d",
		pageIndex, next.Short(), data.UndoDepth, data.RedoDepth)
	m.emit([]pendingEvent{{event.TypeHistoryRedone, data}})
	return true
}

// GotoPage commits the live surface of the current page, then switches to target,
// creating it blank on first visit. Negative targets are rejected with false.
// If the capture fails nothing changes and the error is returned.
func (m *Manager) GotoPage(target int) (bool, error) {
	if target < 0 {
		logger.DebugTagf("history", "History: Rejected navigation to page index %d", target)
		return false, nil
	}

	m.mutex.Lock()
	snap, err := m.surface.CaptureSnapshot()
	if err != nil {
		m.mutex.Unlock()
		return false, fmt.Errorf("capture page %d before navigation: %w", m.current+1, err)
	}
	pending := []pendingEvent{m.commitLocked(m.pages[m.current], snap)}

	from := m.current
	page, exists := m.pages[target]
	created := !exists
	if created {
		page = newPage(target)
		m.pages[target] = page
		pending = append(pending, pendingEvent{event.TypePageCreated, event.PageCreatedData{Page: target}})
	}
	m.current = target
	m.generation++
	m.showLocked(page)
	m.mutex.Unlock()

	logger.DebugTagf("history", "History: Page %d -> %d (created: %v)", from, target, created)
	pending = append(pending, pendingEvent{event.TypePageChanged, event.PageChangedData{
		From:    from,
		To:      target,
		Created: created,
	}})
	m.emit(pending)
	return true, nil
}

// NextPage moves to the page after the current one.
func (m *Manager) NextPage() (bool, error) {
	return m.GotoPage(m.CurrentIndex() + 1)
}

// PrevPage moves to the page before the current one. On the first page it does nothing.
func (m *Manager) PrevPage() (bool, error) {
	return m.GotoPage(m.CurrentIndex() - 1)
}

// Clear blanks the page and commits the blank state, so clearing can be undone.
func (m *Manager) Clear(pageIndex int) bool {
	m.mutex.Lock()
	page, ok := m.pages[pageIndex]
	if !ok {
		m.mutex.Unlock()
		logger.Warnf("History: Clear of unknown page %d ignored", pageIndex)
		return false
	}
	if pageIndex == m.current {
		m.generation++
		m.surface.RenderBlank()
	}
	ev := m.commitLocked(page, types.Snapshot{})
	m.mutex.Unlock()

	m.emit([]pendingEvent{
		{event.TypeBoardCleared, event.BoardClearedData{Page: pageIndex}},
		ev,
	})
	return true
}

// Redisplay re-renders the current page, e.g. after the surface was resized.
func (m *Manager) Redisplay() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.generation++
	m.showLocked(m.pages[m.current])
}

// ResolveRedisplay reports whether a completed redisplay is still the latest
// one. Stale completions must be dropped by the caller.
func (m *Manager) ResolveRedisplay(req Redisplay) bool {
	m.mutex.Lock()
	latest := m.generation
	fresh := req.Generation == latest && req.Page == m.current
	m.mutex.Unlock()

	if !fresh {
		logger.DebugTagf("history", "History: Discarding stale redisplay of %s (generation %d, latest %d)",
			req.Snapshot.Short(), req.Generation, latest)
		m.emit([]pendingEvent{{event.TypeRedisplayDiscarded, event.RedisplayDiscardedData{
			Generation: req.Generation,
			Latest:     latest,
			Snapshot:   req.Snapshot,
		}}})
	}
	return fresh
}

// CurrentIndex returns the 0-based index of the current page.
func (m *Manager) CurrentIndex() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.current
}

// CurrentPageNumber returns the 1-based number of the current page.
func (m *Manager) CurrentPageNumber() int {
	return m.CurrentIndex() + 1
}

// Current returns the current page's snapshot.
func (m *Manager) Current() types.Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.pages[m.current].snapshot
}

// Snapshot returns the current snapshot of a page.
func (m *Manager) Snapshot(pageIndex int) (types.Snapshot, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	page, ok := m.pages[pageIndex]
	if !ok {
		return types.Snapshot{}, false
	}
	return page.snapshot, true
}

// Snapshots returns the current snapshot of every page keyed by index.
func (m *Manager) Snapshots() map[int]types.Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make(map[int]types.Snapshot, len(m.pages))
	for idx, page := range m.pages {
		out[idx] = page.snapshot
	}
	return out
}

// Pages returns the indexes of every visited page in ascending order.
func (m *Manager) Pages() []int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make([]int, 0, len(m.pages))
	for idx := range m.pages {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// PageCount returns how many pages have been visited.
func (m *Manager) PageCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.pages)
}

// Depth returns the undo and redo stack sizes of a page.
func (m *Manager) Depth(pageIndex int) (undo, redo int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	page, ok := m.pages[pageIndex]
	if !ok {
		return 0, 0
	}
	return len(page.undo), len(page.redo)
}

// UndoStack returns a copy of a page's undo stack, oldest first.
func (m *Manager) UndoStack(pageIndex int) []types.Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	page, ok := m.pages[pageIndex]
	if !ok {
		return nil
	}
	return page.UndoStack()
}

// MaxHistory returns the undo bound.
func (m *Manager) MaxHistory() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.maxHistory
}

// SetMaxHistory changes the undo bound. Longer stacks are trimmed on their next commit.
func (m *Manager) SetMaxHistory(n int) {
	if n <= 0 {
		n = DefaultMaxHistory
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.maxHistory = n
}
