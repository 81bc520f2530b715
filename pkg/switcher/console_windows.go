//go:build windows
// +build windows

package switcher

import (
	"syscall"

	"github.com/lxn/win"
)

var (
	modKernel32          = syscall.NewLazyDLL("kernel32.dll")
	procGetConsoleWindow = modKernel32.NewProc("GetConsoleWindow")
)

// consoleWindow wraps the process's own console so the app can surface it
// for setup and tuck it away while resident. Marking it as a tool window
// keeps it off the taskbar and out of Alt+Tab while hidden.
type consoleWindow struct {
	hwnd win.HWND
}

func newConsoleWindow() *consoleWindow {
	hwnd, _, _ := procGetConsoleWindow.Call()

	if hwnd != 0 {
		exStyle := win.GetWindowLong(win.HWND(hwnd), win.GWL_EXSTYLE)
		win.SetWindowLong(win.HWND(hwnd), win.GWL_EXSTYLE, exStyle|win.WS_EX_TOOLWINDOW)
	}

	return &consoleWindow{hwnd: win.HWND(hwnd)}
}

// Show brings the console forward. No-op when the process has no console
// (started from a GUI shell without one).
func (c *consoleWindow) Show() {
	if c.hwnd == 0 {
		return
	}

	win.ShowWindow(c.hwnd, win.SW_SHOW)
	win.SetForegroundWindow(c.hwnd)
}

// Hide removes the console from view without destroying it
func (c *consoleWindow) Hide() {
	if c.hwnd == 0 {
		return
	}

	win.ShowWindow(c.hwnd, win.SW_HIDE)
}

// Toggle flips the console between shown and hidden
func (c *consoleWindow) Toggle() {
	if c.hwnd == 0 {
		return
	}

	if win.IsWindowVisible(c.hwnd) {
		c.Hide()
	} else {
		c.Show()
	}
}
