package switcher

import "fmt"

// Role is one of the OS's default-device contexts. Each role independently
// tracks a default output, and a switch is only externally complete once
// all three are updated.
type Role uint32

const (
	RoleConsole Role = iota
	RoleMultimedia
	RoleCommunications
)

var outputRoles = []Role{RoleConsole, RoleMultimedia, RoleCommunications}

func (r Role) String() string {
	switch r {
	case RoleConsole:
		return "console"
	case RoleMultimedia:
		return "multimedia"
	case RoleCommunications:
		return "communications"
	default:
		return fmt.Sprintf("role(%d)", uint32(r))
	}
}

// endpointPolicy is the negotiated extended policy interface, narrowed to the
// one operation this system needs. The concrete implementation lives in
// policy_windows.go; tests substitute a fake to exercise the role sequencing.
type endpointPolicy interface {
	setDefaultEndpoint(deviceID string, role Role) error
}

// applyAllRoles assigns the device as default for every output role, in a
// fixed order. There is no cross-role atomicity on this path: if a role
// fails, earlier roles stay applied and the returned error names the
// failing role via RoleSetError.
func applyAllRoles(policy endpointPolicy, deviceID string) error {
	for _, role := range outputRoles {
		if err := policy.setDefaultEndpoint(deviceID, role); err != nil {
			return fmt.Errorf("apply default output %s: %w", deviceID, err)
		}
	}

	return nil
}
