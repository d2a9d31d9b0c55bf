package readback

import (
	"errors"
	"testing"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want string
	}{
		{"Staged", ModeStaged, "Staged"},
		{"Synchronous", ModeSynchronous, "Synchronous"},
		{"Unknown", Mode(99), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.want {
				t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestModeLatency(t *testing.T) {
	if got := ModeStaged.Latency(); got != 1 {
		t.Errorf("ModeStaged.Latency() = %d, want 1", got)
	}
	if got := ModeSynchronous.Latency(); got != 0 {
		t.Errorf("ModeSynchronous.Latency() = %d, want 0", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"staged", ModeStaged, false},
		{"PBO", ModeStaged, false},
		{"", ModeStaged, false},
		{" Sync ", ModeSynchronous, false},
		{"synchronous", ModeSynchronous, false},
		{"adaptive", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMode) {
					t.Fatalf("ParseMode(%q) error = %v, want ErrUnknownMode", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
