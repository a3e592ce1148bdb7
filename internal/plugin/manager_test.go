package plugin

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/types"
)

type nopBoard struct{}

func (nopBoard) CurrentPageNumber() int                                  { return 1 }
func (nopBoard) PageCount() int                                          { return 1 }
func (nopBoard) Snapshots() map[int]types.Snapshot                       { return nil }
func (nopBoard) ExportAll(context.Context) ([]string, error)             { return nil, nil }
func (nopBoard) DispatchEvent(event.Type, interface{})                   {}
func (nopBoard) SubscribeEvent(event.Type, event.Handler)                {}
func (nopBoard) SetStatusMessage(string, ...interface{})                 {}
func (nopBoard) GetPluginConfigValue(string, string) (interface{}, bool) { return nil, false }

type recorder struct {
	name    string
	initErr error
	log     *[]string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Initialize(BoardAPI) error {
	*r.log = append(*r.log, "init "+r.name)
	return r.initErr
}

func (r *recorder) Shutdown() error {
	*r.log = append(*r.log, "shutdown "+r.name)
	return nil
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	var log []string
	m := NewManager()
	if err := m.Register(&recorder{name: "a", log: &log}); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(&recorder{name: "a", log: &log}); err == nil {
		t.Error("duplicate registration accepted")
	}
	if err := m.Register(&recorder{name: "", log: &log}); err == nil {
		t.Error("empty name accepted")
	}
	if _, ok := m.GetPlugin("a"); !ok {
		t.Error("GetPlugin(a) not found")
	}
}

func TestLifecycleOrder(t *testing.T) {
	var log []string
	m := NewManager()
	m.Register(&recorder{name: "b", log: &log})
	m.Register(&recorder{name: "a", log: &log})
	m.Register(&recorder{name: "c", log: &log, initErr: errors.New("boom")})

	m.InitializePlugins(nopBoard{})
	if err := m.ShutdownPlugins(); err != nil {
		t.Fatal(err)
	}

	want := []string{"init a", "init b", "init c", "shutdown b", "shutdown a"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("lifecycle = %v, want %v", log, want)
	}
	if !reflect.DeepEqual(m.Names(), []string{"a", "b", "c"}) {
		t.Errorf("Names = %v", m.Names())
	}
}
