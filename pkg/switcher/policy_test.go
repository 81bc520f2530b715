package switcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePolicy struct {
	applied  []Role
	failRole Role
	failWith error
}

func (f *fakePolicy) setDefaultEndpoint(deviceID string, role Role) error {
	if f.failWith != nil && role == f.failRole {
		return f.failWith
	}

	f.applied = append(f.applied, role)
	return nil
}

func TestApplyAllRolesCoversEveryRoleInOrder(t *testing.T) {
	policy := &fakePolicy{}

	err := applyAllRoles(policy, "dev-1")
	require.NoError(t, err)

	assert.Equal(t, []Role{RoleConsole, RoleMultimedia, RoleCommunications}, policy.applied)
}

func TestApplyAllRolesStopsAtFailingRole(t *testing.T) {
	roleErr := &RoleSetError{Role: RoleCommunications, HResult: 0x80070005}
	policy := &fakePolicy{failRole: RoleCommunications, failWith: roleErr}

	err := applyAllRoles(policy, "dev-1")
	require.Error(t, err)

	// earlier roles stay applied, and the error names the failing role
	assert.Equal(t, []Role{RoleConsole, RoleMultimedia}, policy.applied)

	var got *RoleSetError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, RoleCommunications, got.Role)
	assert.Contains(t, got.Error(), "communications")
}

func TestApplyAllRolesMidSequenceFailureThenRetry(t *testing.T) {
	policy := &fakePolicy{
		failRole: RoleMultimedia,
		failWith: errors.New("transient"),
	}

	require.Error(t, applyAllRoles(policy, "dev-1"))
	assert.Equal(t, []Role{RoleConsole}, policy.applied)

	// retrying re-applies from the top; re-setting an already-correct role is harmless
	policy.failWith = nil
	require.NoError(t, applyAllRoles(policy, "dev-1"))
	assert.Equal(t, []Role{RoleConsole, RoleConsole, RoleMultimedia, RoleCommunications}, policy.applied)
}

func TestRoleStrings(t *testing.T) {
	assert.Equal(t, "console", RoleConsole.String())
	assert.Equal(t, "multimedia", RoleMultimedia.String())
	assert.Equal(t, "communications", RoleCommunications.String())
}
