//go:build windows
// +build windows

package switcher

import (
	"fmt"
	"syscall"

	"go.uber.org/zap"
)

var (
	modUser32 = syscall.NewLazyDLL("user32.dll")

	procRegisterHotKey   = modUser32.NewProc("RegisterHotKey")
	procUnregisterHotKey = modUser32.NewProc("UnregisterHotKey")
)

// Hotkey ids within our thread's queue. WM_HOTKEY carries the id in wParam.
const (
	hotkeyIDToggle      = 1
	hotkeyIDReconfigure = 2
)

// reconfigureHotkey is the fixed in-place setup shortcut, not user-configurable
var reconfigureHotkey = Hotkey{Modifiers: ModControl | ModNoRepeat, Key: 'O'}

// globalShortcuts registers system-wide hotkeys against the calling thread's
// message queue (hwnd 0). WM_HOTKEY then lands in that thread's pump, which
// is why registration must happen on the locked control thread.
type globalShortcuts struct {
	logger     *zap.SugaredLogger
	registered []int
}

// NewGlobalShortcuts builds the production shortcut registrar
func NewGlobalShortcuts(logger *zap.SugaredLogger) ShortcutRegistrar {
	return &globalShortcuts{logger: logger.Named("shortcuts")}
}

// Register claims the toggle shortcut and the fixed reconfigure shortcut.
// On any failure everything already claimed is rolled back, so the registrar
// ends up holding either both shortcuts or neither.
func (gs *globalShortcuts) Register(toggle Hotkey) error {
	if err := gs.registerOne(hotkeyIDToggle, toggle); err != nil {
		return fmt.Errorf("register toggle hotkey: %w", err)
	}

	if err := gs.registerOne(hotkeyIDReconfigure, reconfigureHotkey); err != nil {
		gs.Unregister()
		return fmt.Errorf("register reconfigure hotkey: %w", err)
	}

	return nil
}

func (gs *globalShortcuts) registerOne(id int, hk Hotkey) error {
	ret, _, err := procRegisterHotKey.Call(
		0,
		uintptr(id),
		uintptr(hk.Modifiers),
		uintptr(hk.Key),
	)
	if ret == 0 {
		gs.logger.Warnw("RegisterHotKey failed",
			"id", id,
			"modifiers", hk.Modifiers,
			"key", hk.Key,
			"error", err)

		return fmt.Errorf("RegisterHotKey: %w", err)
	}

	gs.registered = append(gs.registered, id)
	gs.logger.Debugw("Registered hotkey", "id", id, "modifiers", hk.Modifiers, "key", hk.Key)

	return nil
}

// Unregister releases every claimed shortcut. Idempotent.
func (gs *globalShortcuts) Unregister() {
	for _, id := range gs.registered {
		if ret, _, err := procUnregisterHotKey.Call(0, uintptr(id)); ret == 0 {
			gs.logger.Warnw("UnregisterHotKey failed", "id", id, "error", err)
		}
	}

	gs.registered = nil
}
