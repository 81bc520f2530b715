//go:build windows
// +build windows

package switcher

import (
	wca "github.com/moutend/go-wca"
	"go.uber.org/zap"
)

// wcaDeviceDirectory resolves endpoints through the multimedia device
// enumerator. Every call creates and releases its own enumerator; nothing
// COM-backed is held between events.
type wcaDeviceDirectory struct {
	logger *zap.SugaredLogger
}

// NewDeviceDirectory builds the production device directory.
// COM must already be initialized on the calling thread.
func NewDeviceDirectory(logger *zap.SugaredLogger) DeviceDirectory {
	return &wcaDeviceDirectory{logger: logger.Named("devices")}
}

func (d *wcaDeviceDirectory) ListActiveOutputs() ([]AudioDevice, error) {
	var mmde *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
		d.logger.Warnw("Failed to create device enumerator", "error", err)
		return nil, &EnumerationError{Err: err}
	}
	defer mmde.Release()

	var collection *wca.IMMDeviceCollection
	if err := mmde.EnumAudioEndpoints(wca.ERender, wca.DEVICE_STATE_ACTIVE, &collection); err != nil {
		d.logger.Warnw("Failed to enumerate render endpoints", "error", err)
		return nil, &EnumerationError{Err: err}
	}
	defer collection.Release()

	var count uint32
	if err := collection.GetCount(&count); err != nil {
		return nil, &EnumerationError{Err: err}
	}

	devices := make([]AudioDevice, 0, count)

	for i := uint32(0); i < count; i++ {
		var endpoint *wca.IMMDevice
		if err := collection.Item(i, &endpoint); err != nil {
			d.logger.Warnw("Failed to get endpoint from collection, skipping", "index", i, "error", err)
			continue
		}

		device, err := describeEndpoint(endpoint)
		endpoint.Release()

		if err != nil {
			d.logger.Warnw("Failed to describe endpoint, skipping", "index", i, "error", err)
			continue
		}

		devices = append(devices, device)
	}

	d.logger.Debugw("Enumerated active outputs", "count", len(devices))

	return devices, nil
}

func (d *wcaDeviceDirectory) DefaultOutputID() (string, error) {
	var mmde *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
		d.logger.Warnw("Failed to create device enumerator", "error", err)
		return "", &QueryError{Err: err}
	}
	defer mmde.Release()

	var endpoint *wca.IMMDevice
	if err := mmde.GetDefaultAudioEndpoint(wca.ERender, wca.EConsole, &endpoint); err != nil {
		d.logger.Warnw("Failed to get default render endpoint", "error", err)
		return "", &QueryError{Err: err}
	}
	defer endpoint.Release()

	var id string
	if err := endpoint.GetId(&id); err != nil {
		return "", &QueryError{Err: err}
	}

	return id, nil
}

// describeEndpoint reads the stable id and friendly name off an endpoint
func describeEndpoint(endpoint *wca.IMMDevice) (AudioDevice, error) {
	var id string
	if err := endpoint.GetId(&id); err != nil {
		return AudioDevice{}, &EnumerationError{Err: err}
	}

	var properties *wca.IPropertyStore
	if err := endpoint.OpenPropertyStore(wca.STGM_READ, &properties); err != nil {
		return AudioDevice{}, &EnumerationError{Err: err}
	}
	defer properties.Release()

	var value wca.PROPVARIANT
	if err := properties.GetValue(&wca.PKEY_Device_FriendlyName, &value); err != nil {
		return AudioDevice{}, &EnumerationError{Err: err}
	}

	return AudioDevice{ID: id, Name: value.String()}, nil
}
