package readback

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		t       Transfer
		w, h    int
		opts    []Option
		wantErr error
	}{
		{"nil transfer", nil, 4, 4, nil, ErrNilTransfer},
		{"zero width", newFakeTransfer(), 0, 4, nil, ErrInvalidDimensions},
		{"negative height", newFakeTransfer(), 4, -1, nil, ErrInvalidDimensions},
		{"short snapshot", newFakeTransfer(), 4, 4, []Option{WithSnapshot(make([]byte, 10))}, ErrSnapshotSize},
		{"allocation failure", &fakeTransfer{failAllocate: true}, 4, 4, nil, errInjected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.t, tt.w, tt.h, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewInitialState(t *testing.T) {
	ft := newFakeTransfer()
	s, err := New(ft, 512, 512)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if got, want := len(s.Snapshot()), 512*512*4; got != want {
		t.Errorf("len(Snapshot()) = %d, want %d", got, want)
	}
	if ft.width != 512 || ft.height != 512 {
		t.Errorf("transfer allocated %dx%d, want 512x512", ft.width, ft.height)
	}
	if s.Roles() != InitialRoles() {
		t.Errorf("Roles() = %+v, want initial", s.Roles())
	}
	if s.Mode() != ModeStaged {
		t.Errorf("Mode() = %v, want ModeStaged", s.Mode())
	}
	if s.Ready() {
		t.Error("Ready() = true before any tick")
	}
}

func TestTickCallOrder(t *testing.T) {
	ft := newFakeTransfer()
	s, err := New(ft, 2, 2)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick() = %v", err)
		}
	}
	want := []string{
		"allocate",
		"copy 1", "fetch 0",
		"copy 0", "fetch 1",
		"copy 1", "fetch 0",
	}
	if !reflect.DeepEqual(ft.calls, want) {
		t.Errorf("calls = %v, want %v", ft.calls, want)
	}
}

func TestStagedOneFrameLatency(t *testing.T) {
	ft := newFakeTransfer()
	s, err := New(ft, 4, 4)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	for n := byte(1); n <= 10; n++ {
		ft.render(n)
		prev := s.Roles()
		if err := s.Tick(); err != nil {
			t.Fatalf("tick %d: %v", n, err)
		}
		// Strict alternation: this tick's read buffer was the last write.
		if got := s.Roles(); got.Read != prev.Write || got.Write != prev.Read {
			t.Fatalf("tick %d: roles %+v after %+v", n, got, prev)
		}
		if n == 1 {
			if !uniform(s.Snapshot(), 0) {
				t.Fatalf("tick 1: snapshot should hold the untouched buffer")
			}
			if s.Ready() {
				t.Fatal("tick 1: Ready() = true, want false")
			}
			continue
		}
		if !uniform(s.Snapshot(), n-1) {
			t.Fatalf("tick %d: snapshot = %d, want frame %d", n, s.Snapshot()[0], n-1)
		}
		if !s.Ready() {
			t.Fatalf("tick %d: Ready() = false", n)
		}
	}
}

func TestSnapshotNeverReallocated(t *testing.T) {
	buf := make([]byte, 8*8*4)
	s, err := New(newFakeTransfer(), 8, 8, WithSnapshot(buf))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick() = %v", err)
		}
		snap := s.Snapshot()
		if len(snap) != len(buf) || &snap[0] != &buf[0] {
			t.Fatalf("tick %d: snapshot was reallocated", i)
		}
	}
}

func TestSynchronousZeroLatency(t *testing.T) {
	ft := newFakeTransfer()
	s, err := New(ft, 4, 4, WithMode(ModeSynchronous))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	for n := byte(1); n <= 4; n++ {
		ft.render(n)
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick() = %v", err)
		}
		if !uniform(s.Snapshot(), n) {
			t.Fatalf("tick %d: snapshot = %d, want %d", n, s.Snapshot()[0], n)
		}
		if !s.Ready() {
			t.Fatalf("tick %d: Ready() = false", n)
		}
	}
	if s.Roles() != InitialRoles() {
		t.Errorf("synchronous mode changed roles to %+v", s.Roles())
	}
}

func TestModesAgreeAtSteadyState(t *testing.T) {
	staged, synced := newFakeTransfer(), newFakeTransfer()
	a, err := New(staged, 4, 4)
	if err != nil {
		t.Fatalf("New(staged) = %v", err)
	}
	b, err := New(synced, 4, 4, WithMode(ModeSynchronous))
	if err != nil {
		t.Fatalf("New(sync) = %v", err)
	}

	// Constant scene.
	for i := 0; i < 3; i++ {
		staged.render(42)
		synced.render(42)
		if err := a.Tick(); err != nil {
			t.Fatal(err)
		}
		if err := b.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("staged and synchronous snapshots differ at steady state")
	}
}

func TestTickErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeTransfer)
		mode  Mode
	}{
		{"copy", func(f *fakeTransfer) { f.failCopy = true }, ModeStaged},
		{"fetch", func(f *fakeTransfer) { f.failFetch = true }, ModeStaged},
		{"sync", func(f *fakeTransfer) { f.failSync = true }, ModeSynchronous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFakeTransfer()
			s, err := New(ft, 2, 2, WithMode(tt.mode))
			if err != nil {
				t.Fatalf("New() = %v", err)
			}
			tt.setup(ft)
			if err := s.Tick(); !errors.Is(err, errInjected) {
				t.Fatalf("Tick() error = %v, want injected", err)
			}
			if s.Roles() != InitialRoles() {
				t.Errorf("failed tick changed roles to %+v", s.Roles())
			}
			if s.Ticks() != 0 {
				t.Errorf("failed tick counted: Ticks() = %d", s.Ticks())
			}
		})
	}
}

func TestTickRejectsInvalidRoles(t *testing.T) {
	ft := newFakeTransfer()
	if err := ft.Allocate(1, 1); err != nil {
		t.Fatal(err)
	}
	_, err := Tick(ft, Roles{Read: 1, Write: 1}, make([]byte, 4))
	if !errors.Is(err, ErrInvalidRoles) {
		t.Fatalf("Tick() error = %v, want ErrInvalidRoles", err)
	}
	if len(ft.calls) != 1 {
		t.Errorf("transfer was used despite invalid roles: %v", ft.calls)
	}
}

func TestClose(t *testing.T) {
	ft := newFakeTransfer()
	s, err := New(ft, 2, 2)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
	if ft.releases != 1 {
		t.Errorf("Release called %d times, want 1", ft.releases)
	}
	if err := s.Tick(); !errors.Is(err, ErrClosed) {
		t.Errorf("Tick() after Close = %v, want ErrClosed", err)
	}
}
