//go:build windows
// +build windows

package switcher

import (
	"syscall"

	"github.com/lxn/win"
)

// wmAppCommand carries a cross-process command in wParam, posted by a later
// CLI invocation to the resident instance's message window
const wmAppCommand = win.WM_APP + 2

// Cross-process command ids
const (
	cmdToggle = iota + 1
	cmdSpeakers
	cmdHeadphones
)

// messageWindowClass names the resident instance's hidden message window;
// later invocations locate it by this class to deliver commands
const messageWindowClass = "AudioSwitcherMsg"

// ResidentInstanceRunning reports whether a resident instance's message
// window exists
func ResidentInstanceRunning() bool {
	return findResidentWindow() != 0
}

// NotifyResidentInstance posts a command to a running instance's message
// window. Returns false when no instance is resident, in which case the
// caller handles the command itself.
func NotifyResidentInstance(command uintptr) bool {
	hwnd := findResidentWindow()
	if hwnd == 0 {
		return false
	}

	return win.PostMessage(hwnd, wmAppCommand, command, 0) != 0
}

func findResidentWindow() win.HWND {
	classPtr, _ := syscall.UTF16PtrFromString(messageWindowClass)

	return win.FindWindow(classPtr, nil)
}
