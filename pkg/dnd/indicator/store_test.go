package indicator

import (
	"sync"
	"testing"

	"github.com/matzehuels/treetable/pkg/dnd"
)

func TestStoreGetSet(t *testing.T) {
	s := New()
	if _, ok := s.Get(); ok {
		t.Fatal("new store has an indicator")
	}

	s.Set(&dnd.Indicator{RowID: "a", Kind: dnd.PositionAbove})
	got, ok := s.Get()
	if !ok || got != (dnd.Indicator{RowID: "a", Kind: dnd.PositionAbove}) {
		t.Errorf("Get() = %+v, %v", got, ok)
	}

	s.Clear()
	if _, ok := s.Get(); ok {
		t.Error("Get() after Clear() still set")
	}
}

func TestStoreSetCopiesValue(t *testing.T) {
	s := New()
	ind := &dnd.Indicator{RowID: "a", Kind: dnd.PositionBelow}
	s.Set(ind)
	ind.RowID = "b"

	if got, _ := s.Get(); got.RowID != "a" {
		t.Errorf("RowID = %q, want a", got.RowID)
	}
}

func TestStoreNotifiesOnlyOnChange(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func() { calls++ })

	steps := []struct {
		ind  *dnd.Indicator
		want int
	}{
		{nil, 0},
		{&dnd.Indicator{RowID: "a", Kind: dnd.PositionAbove}, 1},
		{&dnd.Indicator{RowID: "a", Kind: dnd.PositionAbove}, 1},
		{&dnd.Indicator{RowID: "a", Kind: dnd.PositionBelow}, 2},
		{&dnd.Indicator{RowID: "b", Kind: dnd.PositionBelow}, 3},
		{nil, 4},
		{nil, 4},
	}
	for i, step := range steps {
		s.Set(step.ind)
		if calls != step.want {
			t.Errorf("step %d: calls = %d, want %d", i, calls, step.want)
		}
	}
}

func TestStoreUnsubscribe(t *testing.T) {
	s := New()
	var a, b int
	unsubA := s.Subscribe(func() { a++ })
	s.Subscribe(func() { b++ })

	s.Set(&dnd.Indicator{RowID: "x", Kind: dnd.PositionAbove})
	unsubA()
	unsubA()
	s.Clear()

	if a != 1 || b != 2 {
		t.Errorf("calls = %d, %d, want 1, 2", a, b)
	}
}

func TestStoreListenerMayReenter(t *testing.T) {
	s := New()
	var seen dnd.Indicator
	s.Subscribe(func() { seen, _ = s.Get() })

	s.Set(&dnd.Indicator{RowID: "r", Kind: dnd.PositionMakeChild})
	if seen.RowID != "r" {
		t.Errorf("listener saw %+v", seen)
	}
}

func TestForRow(t *testing.T) {
	s := New()
	s.Set(&dnd.Indicator{RowID: "a", Kind: dnd.PositionBelow})

	if kind, ok := s.ForRow("a"); !ok || kind != dnd.PositionBelow {
		t.Errorf("ForRow(a) = %q, %v", kind, ok)
	}
	if _, ok := s.ForRow("b"); ok {
		t.Error("ForRow(b) ok, want false")
	}
}

func TestWatchRow(t *testing.T) {
	s := New()
	type event struct {
		kind dnd.Position
		ok   bool
	}
	var got []event
	s.WatchRow("a", func(kind dnd.Position, ok bool) { got = append(got, event{kind, ok}) })

	s.Set(&dnd.Indicator{RowID: "b", Kind: dnd.PositionAbove})
	s.Set(&dnd.Indicator{RowID: "a", Kind: dnd.PositionAbove})
	s.Set(&dnd.Indicator{RowID: "a", Kind: dnd.PositionBelow})
	s.Set(&dnd.Indicator{RowID: "c", Kind: dnd.PositionBelow})
	s.Set(&dnd.Indicator{RowID: "b", Kind: dnd.PositionBelow})
	s.Clear()

	want := []event{
		{dnd.PositionAbove, true},
		{dnd.PositionBelow, true},
		{"", false},
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStoreConcurrent(t *testing.T) {
	s := New()
	var mu sync.Mutex
	calls := 0
	s.Subscribe(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				if j%2 == 0 {
					s.Set(&dnd.Indicator{RowID: string(rune('a' + i)), Kind: dnd.PositionAbove})
				} else {
					s.Clear()
				}
				s.ForRow("a")
			}
		}()
	}
	wg.Wait()

	// Every goroutine ends with a Clear.
	if _, ok := s.Get(); ok {
		t.Error("Get() after final Clear() still set")
	}
	if calls == 0 {
		t.Error("listener never called")
	}
}
