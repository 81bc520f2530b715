//go:build windows
// +build windows

package switcher

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"github.com/lxn/win"
	"go.uber.org/zap"

	"audioswitcher/pkg/switcher/util"
)

// wmConfigReload tells the control thread a freshly validated config is
// waiting in the pending slot (posted by the watcher goroutine)
const wmConfigReload = win.WM_APP + 3

const coInitApartmentThreaded = 0x2

// resident routes wndproc calls back to the single running Switcher.
// The callback is created once; Windows callbacks can't capture state.
var (
	resident         *Switcher
	wndProcCallback  uintptr
	wndProcCreateOne sync.Once
)

// Switcher is the resident application: it owns the control thread, the
// hidden message window, the pump, and the controller behind them. Exactly
// one exists per process.
type Switcher struct {
	logger   *zap.SugaredLogger
	notifier Notifier
	store    *ConfigStore

	hwnd       win.HWND
	console    *consoleWindow
	tray       *trayIndicator
	controller *Controller

	pendingConfigLock sync.Mutex
	pendingConfig     *Config
}

// NewSwitcher builds the resident application around an already-created
// config store
func NewSwitcher(logger *zap.SugaredLogger, notifier Notifier, store *ConfigStore) *Switcher {
	return &Switcher{
		logger:   logger.Named("switcher"),
		notifier: notifier,
		store:    store,
	}
}

// Run owns the calling goroutine until the app exits. It locks the control
// thread, initializes COM on it, performs first-run setup if needed, then
// pumps messages until the controller reaches its terminal state.
func (s *Switcher) Run() error {
	// hotkey registrations and COM apartment state are per-thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, coInitApartmentThreaded); err != nil {
		return fmt.Errorf("initialize COM: %w", err)
	}
	defer ole.CoUninitialize()

	s.console = newConsoleWindow()

	if err := s.createMessageWindow(); err != nil {
		return err
	}
	defer win.DestroyWindow(s.hwnd)

	devices := NewDeviceDirectory(s.logger)
	policy := NewPolicyConfigService(s.logger)

	// fail loudly up front if this OS build rejects the policy interface,
	// rather than on the first hotkey press
	if err := policy.Probe(); err != nil {
		var unavailable *InterfaceUnavailableError
		if errors.As(err, &unavailable) {
			s.logger.Warnw("Policy interface probe failed, switching may not work", "error", err)
			s.notifier.Notify("Audio switching may not work!", err.Error())
		} else {
			s.logger.Errorw("Audio subsystem unavailable", "error", err)
			return fmt.Errorf("probe audio policy: %w", err)
		}
	}

	setup := NewConsoleSetup(s.logger, devices, os.Stdin, os.Stdout, s.console.Show, s.console.Hide)

	cfg, err := s.store.Load()
	if errors.Is(err, ErrNoConfig) {
		s.logger.Info("No config found, running first-time setup")

		var ok bool
		if cfg, ok = setup.Run(); !ok {
			s.logger.Info("First-time setup cancelled, exiting")
			return nil
		}

		if err := s.store.Save(cfg); err != nil {
			s.logger.Warnw("Failed to save initial config", "error", err)
			s.notifier.Notify("Failed to save configuration!", "Settings are active for this session only.")
		}

		fmt.Printf("Configuration saved to %s\n", s.store.Path())
	} else if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tray, err := NewTrayIndicator(s.logger, s.hwnd)
	if err != nil {
		return fmt.Errorf("create tray indicator: %w", err)
	}
	s.tray = tray

	s.controller = NewController(
		s.logger,
		s.notifier,
		cfg,
		devices,
		policy,
		tray,
		NewGlobalShortcuts(s.logger),
		setup,
		NewSystemCue(s.logger),
		s.store.Save,
	)

	if err := s.controller.Start(); err != nil {
		s.notifier.Notify("AudioSwitcher failed to start!", err.Error())
		tray.Release()
		return fmt.Errorf("start controller: %w", err)
	}
	defer s.controller.Shutdown()

	// external edits to the config file land here, get parked in the
	// pending slot and replayed onto the control thread via the pump
	go s.store.Watch(func(newCfg *Config) {
		s.pendingConfigLock.Lock()
		s.pendingConfig = newCfg
		s.pendingConfigLock.Unlock()

		win.PostMessage(s.hwnd, wmConfigReload, 0, 0)
	})
	defer s.store.StopWatching()

	// Ctrl+C in the console becomes a regular quit
	interrupt := util.SetupCloseHandler()
	go func() {
		<-interrupt
		win.PostMessage(s.hwnd, win.WM_CLOSE, 0, 0)
	}()

	s.console.Hide()
	s.logger.Info("Resident and pumping messages")

	s.pump()

	s.logger.Info("Exiting")

	return nil
}

func (s *Switcher) createMessageWindow() error {
	wndProcCreateOne.Do(func() {
		wndProcCallback = syscall.NewCallback(residentWndProc)
	})
	resident = s

	classNamePtr, _ := syscall.UTF16PtrFromString(messageWindowClass)

	wc := win.WNDCLASSEX{
		LpfnWndProc:   wndProcCallback,
		HInstance:     win.GetModuleHandle(nil),
		LpszClassName: classNamePtr,
	}
	wc.CbSize = uint32(unsafe.Sizeof(wc))

	if win.RegisterClassEx(&wc) == 0 {
		return errors.New("register message window class")
	}

	// hidden top-level window: findable by class from later invocations,
	// unlike a message-only window
	hwnd := win.CreateWindowEx(
		0,
		classNamePtr,
		classNamePtr,
		0,
		0, 0, 0, 0,
		0,
		0,
		wc.HInstance,
		nil,
	)
	if hwnd == 0 {
		return errors.New("create message window")
	}

	s.hwnd = hwnd

	return nil
}

// pump runs the message loop. Thread hotkeys registered against hwnd 0
// arrive as thread messages, so WM_HOTKEY is handled here rather than in
// the wndproc; everything else is dispatched normally.
func (s *Switcher) pump() {
	var msg win.MSG

	for {
		if ret := win.GetMessage(&msg, 0, 0, 0); ret <= 0 {
			return
		}

		if msg.Message == win.WM_HOTKEY {
			s.handleHotkey(msg.WParam)
		} else {
			win.TranslateMessage(&msg)
			win.DispatchMessage(&msg)
		}

		if s.controller.Mode() == ModeExiting {
			return
		}
	}
}

func (s *Switcher) handleHotkey(id uintptr) {
	switch id {
	case hotkeyIDToggle:
		s.controller.HandleToggle()
	case hotkeyIDReconfigure:
		s.controller.HandleReconfigure()
	default:
		s.logger.Debugw("Ignoring unknown hotkey id", "id", id)
	}
}

func (s *Switcher) handleTrayCallback(event uintptr) {
	switch trayEventAction(event) {
	case trayActionToggleConsole:
		s.console.Toggle()

	case trayActionShowMenu:
		switch s.tray.ShowMenu() {
		case menuCmdToggle:
			s.controller.HandleToggle()
		case menuCmdReconfigure:
			s.controller.HandleReconfigure()
		case menuCmdQuit:
			s.controller.HandleQuit()
		}
	}
}

func (s *Switcher) handleAppCommand(command uintptr) {
	switch command {
	case cmdToggle:
		s.controller.HandleToggle()
	case cmdSpeakers:
		s.controller.HandleSelect(true)
	case cmdHeadphones:
		s.controller.HandleSelect(false)
	default:
		s.logger.Debugw("Ignoring unknown app command", "command", command)
	}
}

func (s *Switcher) handleConfigReload() {
	s.pendingConfigLock.Lock()
	newCfg := s.pendingConfig
	s.pendingConfig = nil
	s.pendingConfigLock.Unlock()

	if newCfg == nil {
		return
	}

	s.controller.HandleConfigReload(newCfg)
}

func residentWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	s := resident

	// messages can arrive while the window exists but the controller is
	// still being wired up; let those fall through
	if s == nil || s.controller == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case trayCallbackMsg:
		s.handleTrayCallback(lParam)
		return 0

	case wmAppCommand:
		s.handleAppCommand(wParam)
		return 0

	case wmConfigReload:
		s.handleConfigReload()
		return 0

	case win.WM_CLOSE:
		s.controller.HandleQuit()
		return 0
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}
