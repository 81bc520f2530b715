package switcher

// Mouse messages the shell relays through the tray callback's lParam
const (
	trayEventLeftUp  = 0x0202 // WM_LBUTTONUP
	trayEventRightUp = 0x0205 // WM_RBUTTONUP
)

type trayAction int

const (
	trayActionNone trayAction = iota
	trayActionToggleConsole
	trayActionShowMenu
)

// trayEventAction maps mouse activity over the tray icon to an action:
// left click toggles console visibility, right click opens the context
// menu. Everything else (moves, double clicks, button-downs) is ignored.
func trayEventAction(event uintptr) trayAction {
	switch event {
	case trayEventLeftUp:
		return trayActionToggleConsole
	case trayEventRightUp:
		return trayActionShowMenu
	default:
		return trayActionNone
	}
}
