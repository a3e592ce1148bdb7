package event

import "testing"

func TestDispatchOrderAndConsume(t *testing.T) {
	m := NewManager()
	var calls []string

	m.Subscribe(TypePageChanged, func(e Event) bool {
		calls = append(calls, "first")
		if d := e.Data.(PageChangedData); d.To != 2 {
			t.Errorf("data = %+v", d)
		}
		return false
	})
	m.Subscribe(TypePageChanged, func(e Event) bool {
		calls = append(calls, "second")
		return true
	})
	m.Subscribe(TypePageChanged, func(e Event) bool {
		calls = append(calls, "third")
		return false
	})

	m.Dispatch(TypePageChanged, PageChangedData{From: 1, To: 2})

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v, want [first second]", calls)
	}
}

func TestDispatchWithoutHandlers(t *testing.T) {
	m := NewManager()
	m.Dispatch(TypeAppReady, AppReadyData{})
}

func TestSubscribeDuringDispatch(t *testing.T) {
	m := NewManager()
	late := 0
	m.Subscribe(TypeBoardCleared, func(e Event) bool {
		m.Subscribe(TypeBoardCleared, func(e Event) bool {
			late++
			return false
		})
		return false
	})

	m.Dispatch(TypeBoardCleared, BoardClearedData{})
	if late != 0 {
		t.Errorf("handler added during dispatch ran %d times", late)
	}
}

func TestTypeString(t *testing.T) {
	if got := TypeSnapshotCommitted.String(); got != "SnapshotCommitted" {
		t.Errorf("String() = %q", got)
	}
	if got := Type(999).String(); got != "Unknown" {
		t.Errorf("String() = %q", got)
	}
}
