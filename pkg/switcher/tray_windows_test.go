//go:build windows
// +build windows

package switcher

import (
	"testing"

	"github.com/lxn/win"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContextMenu(t *testing.T) {
	menu := win.CreatePopupMenu()
	require.NotZero(t, menu)
	defer win.DestroyMenu(menu)

	assert.True(t, appendMenuItem(menu, 0, menuCmdToggle, "Toggle output"))
	assert.True(t, appendMenuItem(menu, 1, menuCmdReconfigure, "Reconfigure..."))
	assert.True(t, appendMenuSeparator(menu, 2))
	assert.True(t, appendMenuItem(menu, 3, menuCmdQuit, "Quit"))
}
