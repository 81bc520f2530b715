package switcher

import "fmt"

// EnumerationError means the audio subsystem could not be reached to list endpoints
type EnumerationError struct {
	Err error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate audio endpoints: %v", e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// QueryError means the current default endpoint could not be resolved
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query default audio endpoint: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ActivationError means the policy object class could not be instantiated at all,
// which indicates the audio subsystem is fundamentally unavailable
type ActivationError struct {
	Err error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("activate audio policy object: %v", e.Err)
}

func (e *ActivationError) Unwrap() error { return e.Err }

// InterfaceUnavailableError means the capability query for the undocumented
// policy interface was rejected. This is kept distinct from a per-call failure:
// it signals the interface layout likely no longer matches on this OS build
// and the whole switching mechanism may be non-functional, not just one attempt.
type InterfaceUnavailableError struct {
	HResult uint32
}

func (e *InterfaceUnavailableError) Error() string {
	return fmt.Sprintf("audio policy interface unavailable (hr=0x%08X): default-device switching may not work on this OS build", e.HResult)
}

// RoleSetError names the specific device role whose default assignment failed.
// Roles already applied before the failure are left as-is; re-running the
// sequence is safe because re-setting an already-correct role is a no-op.
type RoleSetError struct {
	Role    Role
	HResult uint32
}

func (e *RoleSetError) Error() string {
	return fmt.Sprintf("set default endpoint for %s role (hr=0x%08X)", e.Role, e.HResult)
}
