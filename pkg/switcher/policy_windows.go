//go:build windows
// +build windows

package switcher

import (
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"go.uber.org/zap"
)

// The policy configuration object is not part of the documented audio API.
// Its class and interface ids are stable across Windows versions to date,
// but the contract below is observed behavior, not a published one.
var (
	clsidPolicyConfig = ole.NewGUID("{870AF99C-171D-4F9E-AF0D-E63DF40C2BC9}")
	iidPolicyConfig   = ole.NewGUID("{F8679F50-850A-41CF-9C72-430F290290C8}")
)

type iPolicyConfig struct {
	ole.IUnknown
}

// iPolicyConfigVtbl mirrors the interface's binary layout. Only
// SetDefaultEndpoint is called; the ten preceding entries exist purely to
// keep it at its correct slot (13: three IUnknown methods plus ten before it).
// A mismatch here would call an arbitrary method, so the layout is the one
// invariant this file must protect.
type iPolicyConfigVtbl struct {
	ole.IUnknownVtbl
	GetMixFormat          uintptr
	GetDeviceFormat       uintptr
	ResetDeviceFormat     uintptr
	SetDeviceFormat       uintptr
	GetProcessingPeriod   uintptr
	SetProcessingPeriod   uintptr
	GetShareMode          uintptr
	SetShareMode          uintptr
	GetPropertyValue      uintptr
	SetPropertyValue      uintptr
	SetDefaultEndpoint    uintptr
	SetEndpointVisibility uintptr
}

func (v *iPolicyConfig) vtbl() *iPolicyConfigVtbl {
	return (*iPolicyConfigVtbl)(unsafe.Pointer(v.RawVTable))
}

func (v *iPolicyConfig) setDefaultEndpoint(deviceID string, role Role) error {
	idPtr, err := syscall.UTF16PtrFromString(deviceID)
	if err != nil {
		return err
	}

	hr, _, _ := syscall.Syscall(
		v.vtbl().SetDefaultEndpoint,
		3,
		uintptr(unsafe.Pointer(v)),
		uintptr(unsafe.Pointer(idPtr)),
		uintptr(role),
	)
	if hr != 0 {
		return &RoleSetError{Role: role, HResult: uint32(hr)}
	}

	return nil
}

// PolicyConfigService switches the OS default output through the policy
// object. Each switch activates a fresh instance and releases it before
// returning, so no COM state outlives a single call.
type PolicyConfigService struct {
	logger *zap.SugaredLogger
}

// NewPolicyConfigService builds the production endpoint switcher.
// COM must already be initialized on the calling thread.
func NewPolicyConfigService(logger *zap.SugaredLogger) *PolicyConfigService {
	return &PolicyConfigService{logger: logger.Named("policy")}
}

// activate instantiates the policy object and negotiates the extended
// interface. The two failure modes are reported distinctly: failing to
// create the class at all versus the class existing but rejecting the
// interface id (layout drift on a newer OS build).
func (p *PolicyConfigService) activate() (*iPolicyConfig, error) {
	unknown, err := ole.CreateInstance(clsidPolicyConfig, ole.IID_IUnknown)
	if err != nil {
		p.logger.Warnw("Failed to create policy config object", "error", err)
		return nil, &ActivationError{Err: err}
	}
	defer unknown.Release()

	var pc *iPolicyConfig
	hr, _, _ := syscall.Syscall(
		unknown.VTable().QueryInterface,
		3,
		uintptr(unsafe.Pointer(unknown)),
		uintptr(unsafe.Pointer(iidPolicyConfig)),
		uintptr(unsafe.Pointer(&pc)),
	)
	if hr != 0 {
		p.logger.Warnw("Policy config interface rejected", "hresult", uint32(hr))
		return nil, &InterfaceUnavailableError{HResult: uint32(hr)}
	}

	return pc, nil
}

// SetDefaultOutput makes the device the default for all output roles.
// Role application has no cross-role atomicity; on a mid-sequence failure
// the earlier roles remain switched and the error names the one that failed.
func (p *PolicyConfigService) SetDefaultOutput(deviceID string) error {
	pc, err := p.activate()
	if err != nil {
		return err
	}
	defer pc.Release()

	if err := applyAllRoles(pc, deviceID); err != nil {
		return err
	}

	p.logger.Debugw("Applied default output across all roles", "deviceID", deviceID)

	return nil
}

// Probe verifies the extended interface negotiates on this OS build without
// switching anything. Run once at startup so drift is reported immediately
// instead of on the first hotkey press.
func (p *PolicyConfigService) Probe() error {
	pc, err := p.activate()
	if err != nil {
		return err
	}
	pc.Release()

	return nil
}
