// Package device opens wgpu HAL devices for the demo: a Vulkan adapter, the
// noop backend for headless tests, or a device owned by a host application.
package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/readback"
	"github.com/gogpu/readback/render"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
)

// Backend names accepted by Open.
const (
	BackendSoftware = "software"
	BackendNoop     = "noop"
	BackendVulkan   = "vulkan"
)

var (
	// ErrUnknownBackend is returned for a backend name Open does not know.
	ErrUnknownBackend = errors.New("device: unknown backend")

	// ErrUnavailable is returned when a backend is not registered or has no
	// adapters.
	ErrUnavailable = errors.New("device: backend unavailable")
)

// instanceCreator is the part of a HAL backend Open needs.
type instanceCreator interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Adapter describes one enumerated GPU adapter.
type Adapter struct {
	Index    int
	Name     string
	Type     gputypes.DeviceType
	Selected bool
}

// Device is an open HAL device with its queue.
type Device struct {
	Device  hal.Device
	Queue   hal.Queue
	Adapter string

	instance hal.Instance
	owned    bool
}

// ParseBackend normalizes a backend name. The empty name is software.
func ParseBackend(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "", BackendSoftware, "cpu":
		return BackendSoftware, nil
	case BackendNoop, BackendVulkan:
		return n, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

func backendFor(name string) (instanceCreator, error) {
	switch name {
	case BackendNoop:
		return &noop.API{}, nil
	case BackendVulkan:
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("%w: vulkan backend not registered", ErrUnavailable)
		}
		return b, nil
	case BackendSoftware:
		return nil, fmt.Errorf("%w: software backend has no GPU device", ErrUnavailable)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// selectAdapter prefers a discrete GPU, then an integrated one, then the
// first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) int {
	for _, want := range []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU} {
		for i := range adapters {
			if adapters[i].Info.DeviceType == want {
				return i
			}
		}
	}
	return 0
}

// Open creates an instance for the named backend and opens the preferred
// adapter.
func Open(name string) (*Device, error) {
	backend, err := backendFor(name)
	if err != nil {
		return nil, err
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", ErrUnavailable)
	}
	selected := &adapters[selectAdapter(adapters)]
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	readback.Logger().Info("device: adapter selected",
		"backend", name, "adapter", selected.Info.Name)

	return &Device{
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Adapter:  selected.Info.Name,
		instance: instance,
		owned:    true,
	}, nil
}

// Adapters lists the adapters of the named backend, marking the one Open
// would select.
func Adapters(name string) ([]Adapter, error) {
	backend, err := backendFor(name)
	if err != nil {
		return nil, err
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	defer instance.Destroy()

	exposed := instance.EnumerateAdapters(nil)
	if len(exposed) == 0 {
		return nil, nil
	}
	sel := selectAdapter(exposed)
	out := make([]Adapter, len(exposed))
	for i := range exposed {
		out[i] = Adapter{
			Index:    i,
			Name:     exposed[i].Info.Name,
			Type:     exposed[i].Info.DeviceType,
			Selected: i == sel,
		}
	}
	return out, nil
}

// FromProvider adopts the HAL device behind a host's device provider. The
// device stays owned by the host; Close does not destroy it.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	d, q, err := render.HALDevice(provider)
	if err != nil {
		return nil, err
	}
	return &Device{Device: d, Queue: q, Adapter: "host"}, nil
}

// Close destroys the device and then the instance, if Open created them.
// Safe to call multiple times.
func (d *Device) Close() {
	if !d.owned {
		return
	}
	if d.Device != nil {
		d.Device.Destroy()
		d.Device = nil
		d.Queue = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
