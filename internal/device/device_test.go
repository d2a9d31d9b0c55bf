package device

import (
	"errors"
	"testing"

	"github.com/gogpu/readback/render"
)

type hostProvider struct {
	render.NullDeviceHandle
	d *Device
}

func (h hostProvider) HalDevice() any { return h.d.Device }
func (h hostProvider) HalQueue() any  { return h.d.Queue }

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", BackendSoftware, false},
		{"CPU", BackendSoftware, false},
		{" noop ", BackendNoop, false},
		{"Vulkan", BackendVulkan, false},
		{"metal", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackend(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownBackend) {
					t.Fatalf("ParseBackend(%q) error = %v, want ErrUnknownBackend", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseBackend(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestOpenNoop(t *testing.T) {
	d, err := Open(BackendNoop)
	if err != nil {
		t.Fatalf("Open(noop) failed: %v", err)
	}
	if d.Device == nil || d.Queue == nil {
		t.Fatal("expected device and queue")
	}
	d.Close()
	d.Close()
	if d.Device != nil {
		t.Error("expected nil device after Close")
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(BackendSoftware); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Open(software) error = %v, want ErrUnavailable", err)
	}
	if _, err := Open("metal"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(metal) error = %v, want ErrUnknownBackend", err)
	}
}

func TestAdaptersNoop(t *testing.T) {
	adapters, err := Adapters(BackendNoop)
	if err != nil {
		t.Fatalf("Adapters(noop) failed: %v", err)
	}
	if len(adapters) == 0 {
		t.Fatal("expected at least one noop adapter")
	}
	selected := 0
	for _, a := range adapters {
		if a.Selected {
			selected++
		}
	}
	if selected != 1 {
		t.Errorf("%d adapters selected, want 1", selected)
	}
}

func TestFromProvider(t *testing.T) {
	host, err := Open(BackendNoop)
	if err != nil {
		t.Fatalf("Open(noop) failed: %v", err)
	}
	defer host.Close()

	d, err := FromProvider(hostProvider{d: host})
	if err != nil {
		t.Fatalf("FromProvider failed: %v", err)
	}
	d.Close()
	if host.Device == nil {
		t.Error("closing an adopted device must not destroy the host's device")
	}

	if _, err := FromProvider(render.NullDeviceHandle{}); !errors.Is(err, render.ErrNoHALAccess) {
		t.Errorf("FromProvider(null) error = %v, want ErrNoHALAccess", err)
	}
}
