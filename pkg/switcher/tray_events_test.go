package switcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrayEventAction(t *testing.T) {
	assert.Equal(t, trayActionToggleConsole, trayEventAction(trayEventLeftUp))
	assert.Equal(t, trayActionShowMenu, trayEventAction(trayEventRightUp))

	// moves, button-downs and double clicks do nothing
	for _, event := range []uintptr{0x0200, 0x0201, 0x0203, 0x0204} {
		assert.Equal(t, trayActionNone, trayEventAction(event), "event 0x%04X", event)
	}
}
