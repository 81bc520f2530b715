//go:build windows
// +build windows

package switcher

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
	"go.uber.org/zap"

	"audioswitcher/pkg/switcher/icon"
)

var procCreateIconFromResourceEx = modUser32.NewProc("CreateIconFromResourceEx")

// trayCallbackMsg is the private message the shell posts to our window for
// mouse activity over the tray icon
const trayCallbackMsg = win.WM_APP + 1

// Context menu command ids, returned by TrackPopupMenuEx
const (
	menuCmdToggle      = 1001
	menuCmdReconfigure = 1002
	menuCmdQuit        = 1003
)

const (
	trayIconUID      = 1
	trayIconWidth    = 16
	iconVersionWin30 = 0x00030000
)

// trayIndicator is the notification-area icon plus its context menu. Both
// endpoint icons are decoded and loaded once up front; Update only swaps
// which handle the shell shows.
type trayIndicator struct {
	logger *zap.SugaredLogger

	hwnd           win.HWND
	iconSpeakers   win.HICON
	iconHeadphones win.HICON
	menu           win.HMENU
	added          bool
	speakersActive bool
}

// NewTrayIndicator creates the tray icon bound to the given message window.
// Mouse activity over the icon arrives as trayCallbackMsg on that window.
func NewTrayIndicator(logger *zap.SugaredLogger, hwnd win.HWND) (*trayIndicator, error) {
	logger = logger.Named("tray")

	iconSpeakers, err := loadTrayIcon(icon.Speakers)
	if err != nil {
		return nil, fmt.Errorf("load speakers icon: %w", err)
	}

	iconHeadphones, err := loadTrayIcon(icon.Headphones)
	if err != nil {
		win.DestroyIcon(iconSpeakers)
		return nil, fmt.Errorf("load headphones icon: %w", err)
	}

	menu := win.CreatePopupMenu()
	appendMenuItem(menu, 0, menuCmdToggle, "Toggle output")
	appendMenuItem(menu, 1, menuCmdReconfigure, "Reconfigure...")
	appendMenuSeparator(menu, 2)
	appendMenuItem(menu, 3, menuCmdQuit, "Quit")

	t := &trayIndicator{
		logger:         logger,
		hwnd:           hwnd,
		iconSpeakers:   iconSpeakers,
		iconHeadphones: iconHeadphones,
		menu:           menu,
	}

	logger.Debug("Created tray indicator")

	return t, nil
}

// loadTrayIcon picks the best-fitting image out of the embedded container
// and turns it into an icon handle
func loadTrayIcon(container []byte) (win.HICON, error) {
	image, err := SelectIconImage(container, trayIconWidth)
	if err != nil {
		return 0, err
	}

	ret, _, callErr := procCreateIconFromResourceEx.Call(
		uintptr(unsafe.Pointer(&image[0])),
		uintptr(len(image)),
		1, // icon, not cursor
		iconVersionWin30,
		trayIconWidth,
		trayIconWidth,
		0,
	)
	if ret == 0 {
		return 0, fmt.Errorf("CreateIconFromResourceEx: %w", callErr)
	}

	return win.HICON(ret), nil
}

func appendMenuItem(menu win.HMENU, position, id uint32, text string) bool {
	textPtr, _ := syscall.UTF16PtrFromString(text)

	mii := win.MENUITEMINFO{
		FMask:      win.MIIM_ID | win.MIIM_STRING,
		WID:        id,
		DwTypeData: textPtr,
	}
	mii.CbSize = uint32(unsafe.Sizeof(mii))

	return win.InsertMenuItem(menu, position, true, &mii)
}

func appendMenuSeparator(menu win.HMENU, position uint32) bool {
	mii := win.MENUITEMINFO{
		FMask: win.MIIM_FTYPE,
		FType: win.MFT_SEPARATOR,
	}
	mii.CbSize = uint32(unsafe.Sizeof(mii))

	return win.InsertMenuItem(menu, position, true, &mii)
}

// Update reflects the active endpoint in the icon and its tooltip.
// The first call adds the icon; later calls modify it in place.
func (t *trayIndicator) Update(speakersActive bool) {
	t.speakersActive = speakersActive

	nid := t.iconData()

	cmd := uint32(win.NIM_MODIFY)
	if !t.added {
		cmd = win.NIM_ADD
	}

	if !win.Shell_NotifyIcon(cmd, &nid) {
		t.logger.Warnw("Shell_NotifyIcon failed", "cmd", cmd)
		return
	}

	t.added = true
	t.logger.Debugw("Updated tray icon", "speakersActive", speakersActive)
}

func (t *trayIndicator) iconData() win.NOTIFYICONDATA {
	nid := win.NOTIFYICONDATA{
		HWnd:             t.hwnd,
		UID:              trayIconUID,
		UFlags:           win.NIF_ICON | win.NIF_MESSAGE | win.NIF_TIP,
		UCallbackMessage: trayCallbackMsg,
		HIcon:            t.iconHeadphones,
	}
	nid.CbSize = uint32(unsafe.Sizeof(nid))

	tip := "Audio: Headphones"
	if t.speakersActive {
		nid.HIcon = t.iconSpeakers
		tip = "Audio: Speakers"
	}

	tipUTF16, _ := syscall.UTF16FromString(tip)
	copy(nid.SzTip[:], tipUTF16)

	return nid
}

// ShowMenu pops the context menu at the cursor and returns the chosen
// command id, or 0 when the menu was dismissed. Blocks until the menu closes.
func (t *trayIndicator) ShowMenu() int {
	var cursor win.POINT
	win.GetCursorPos(&cursor)

	// the menu won't dismiss on an outside click unless our window is foreground
	win.SetForegroundWindow(t.hwnd)

	cmd := win.TrackPopupMenuEx(
		t.menu,
		win.TPM_RETURNCMD|win.TPM_NONOTIFY,
		cursor.X,
		cursor.Y,
		t.hwnd,
		nil,
	)

	return int(cmd)
}

// Release removes the icon from the tray and frees the loaded resources
func (t *trayIndicator) Release() {
	if t.added {
		nid := win.NOTIFYICONDATA{HWnd: t.hwnd, UID: trayIconUID}
		nid.CbSize = uint32(unsafe.Sizeof(nid))

		if !win.Shell_NotifyIcon(win.NIM_DELETE, &nid) {
			t.logger.Warn("Failed to remove tray icon")
		}

		t.added = false
	}

	win.DestroyMenu(t.menu)
	win.DestroyIcon(t.iconSpeakers)
	win.DestroyIcon(t.iconHeadphones)

	t.logger.Debug("Released tray indicator")
}
