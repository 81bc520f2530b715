package switcher

import (
	"fmt"

	"go.uber.org/zap"
)

// AudioDevice is one active output endpoint: a stable opaque id plus a
// human-readable name. Produced by the device directory, never mutated.
type AudioDevice struct {
	ID   string
	Name string
}

// DeviceDirectory enumerates active output endpoints and resolves the
// current interactive default
type DeviceDirectory interface {
	ListActiveOutputs() ([]AudioDevice, error)
	DefaultOutputID() (string, error)
}

// EndpointSwitcher flips the OS default output across all consumer roles
type EndpointSwitcher interface {
	SetDefaultOutput(deviceID string) error
}

// Indicator is the tray-resident element reflecting the active endpoint
type Indicator interface {
	Update(speakersActive bool)
	Release()
}

// ShortcutRegistrar owns the global toggle and reconfigure shortcuts
type ShortcutRegistrar interface {
	Register(toggle Hotkey) error
	Unregister()
}

// SetupFlow runs the interactive device/hotkey selection. ok is false when
// the user cancelled.
type SetupFlow interface {
	Run() (cfg *Config, ok bool)
}

// Cue plays the audible switch confirmation
type Cue interface {
	Play()
}

// Mode is the controller's lifecycle state
type Mode int

const (
	ModeRunning Mode = iota
	ModeReconfiguring
	ModeExiting
)

func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "running"
	case ModeReconfiguring:
		return "reconfiguring"
	case ModeExiting:
		return "exiting"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Controller owns the application state and drives every collaborator.
// All handlers run on the single control thread; events are serialized by
// the platform's message delivery, so state is mutated only between fully
// processed events and no locking is needed.
type Controller struct {
	logger   *zap.SugaredLogger
	notifier Notifier

	devices   DeviceDirectory
	switcher  EndpointSwitcher
	indicator Indicator
	shortcuts ShortcutRegistrar
	setup     SetupFlow
	cue       Cue
	persist   func(*Config) error

	cfg  *Config
	mode Mode

	// speakersActive is a best-effort cache of which configured endpoint is
	// the default. It is resolved by live query only at startup and after
	// reconfiguration, and otherwise tracks the outcome of switch attempts;
	// a change made behind our back (OS settings, another app) will not be
	// observed until the next re-resolve.
	speakersActive bool
}

// NewController wires the controller to its collaborators. The returned
// controller is in ModeRunning but has not yet resolved state or registered
// shortcuts; call Start.
func NewController(
	logger *zap.SugaredLogger,
	notifier Notifier,
	cfg *Config,
	devices DeviceDirectory,
	switcher EndpointSwitcher,
	indicator Indicator,
	shortcuts ShortcutRegistrar,
	setup SetupFlow,
	cue Cue,
	persist func(*Config) error,
) *Controller {
	return &Controller{
		logger:    logger.Named("controller"),
		notifier:  notifier,
		cfg:       cfg,
		devices:   devices,
		switcher:  switcher,
		indicator: indicator,
		shortcuts: shortcuts,
		setup:     setup,
		cue:       cue,
		persist:   persist,
		mode:      ModeRunning,
	}
}

// Start resolves the initial output state against the live default and
// registers the global shortcuts. A registration failure is fatal: without
// the primary shortcut the app has no reason to stay resident.
func (c *Controller) Start() error {
	c.resolveActiveOutput()
	c.indicator.Update(c.speakersActive)

	hk, err := ParseHotkey(c.cfg.HotkeySpec)
	if err != nil {
		// NewConfig validated the hotkey spec, so this only fires on a hand-edited file
		return fmt.Errorf("parse configured hotkey: %w", err)
	}

	if err := c.shortcuts.Register(hk); err != nil {
		return fmt.Errorf("register toggle shortcut: %w", err)
	}

	c.logger.Infow("Controller started",
		"speakersActive", c.speakersActive,
		"hotkey", c.cfg.HotkeySpec)

	return nil
}

// Mode returns the controller's current lifecycle state
func (c *Controller) Mode() Mode {
	return c.mode
}

// SpeakersActive reports the cached active-output flag
func (c *Controller) SpeakersActive() bool {
	return c.speakersActive
}

// Config returns the currently active configuration
func (c *Controller) Config() *Config {
	return c.cfg
}

// resolveActiveOutput syncs the cached flag against the live default.
// On query failure we assume speakers rather than failing: a wrong
// indicator is recoverable, a dead app is not.
func (c *Controller) resolveActiveOutput() {
	id, err := c.devices.DefaultOutputID()
	if err != nil {
		c.logger.Warnw("Failed to query current default output, assuming speakers", "error", err)
		c.speakersActive = true
		return
	}

	c.speakersActive = id == c.cfg.SpeakersID
}

// HandleToggle flips the default output to the other configured endpoint.
// On failure the state and indicator stay unchanged and the error is
// surfaced to the user.
func (c *Controller) HandleToggle() {
	if c.mode != ModeRunning {
		c.logger.Debugw("Ignoring toggle outside running mode", "mode", c.mode)
		return
	}

	c.switchTo(!c.speakersActive)
}

// HandleSelect switches directly to the named endpoint (CLI surface).
// Unlike toggle it is idempotent by request rather than by state: asking
// for the endpoint we already believe is active still re-applies it, which
// repairs drift caused by external changes.
func (c *Controller) HandleSelect(speakers bool) {
	if c.mode != ModeRunning {
		c.logger.Debugw("Ignoring select outside running mode", "mode", c.mode)
		return
	}

	c.switchTo(speakers)
}

func (c *Controller) switchTo(speakers bool) {
	target := c.cfg.HeadphonesID
	label := "Headphones"
	if speakers {
		target = c.cfg.SpeakersID
		label = "Speakers"
	}

	if err := c.switcher.SetDefaultOutput(target); err != nil {
		c.logger.Warnw("Failed to switch default output", "target", label, "error", err)
		c.notifier.Notify("Failed to switch audio output!", err.Error())
		return
	}

	c.speakersActive = speakers
	c.indicator.Update(c.speakersActive)
	c.cue.Play()

	c.logger.Infow("Switched default output", "to", label)
}

// HandleReconfigure runs the setup flow in place. Both shortcuts are
// released for its duration; cancellation exits the app (original behavior),
// success swaps the config wholesale and re-arms everything.
func (c *Controller) HandleReconfigure() {
	if c.mode != ModeRunning {
		c.logger.Debugw("Ignoring reconfigure outside running mode", "mode", c.mode)
		return
	}

	c.logger.Info("Entering reconfiguration")
	c.mode = ModeReconfiguring
	c.shortcuts.Unregister()

	newCfg, ok := c.setup.Run()
	if !ok {
		c.logger.Info("Setup cancelled, exiting")
		c.mode = ModeExiting
		return
	}

	if err := c.persist(newCfg); err != nil {
		// keep going with the new config in memory; it just won't survive a restart
		c.logger.Warnw("Failed to persist new config", "error", err)
		c.notifier.Notify("Failed to save configuration!", "The new settings are active but could not be written to disk.")
	}

	c.cfg = newCfg
	c.resolveActiveOutput()

	hk, err := ParseHotkey(c.cfg.HotkeySpec)
	if err == nil {
		err = c.shortcuts.Register(hk)
	}
	if err != nil {
		c.logger.Errorw("Failed to re-register shortcuts after setup, exiting", "error", err)
		c.notifier.Notify("Failed to register hotkey!", err.Error())
		c.mode = ModeExiting
		return
	}

	c.indicator.Update(c.speakersActive)
	c.mode = ModeRunning

	c.logger.Infow("Reconfiguration complete",
		"speakersActive", c.speakersActive,
		"hotkey", c.cfg.HotkeySpec)
}

// HandleConfigReload swaps in a config that changed on disk behind our
// back (external edit of the file). Same re-arm sequence as a successful
// setup, minus the interactive flow and the persist step.
func (c *Controller) HandleConfigReload(newCfg *Config) {
	if c.mode != ModeRunning {
		c.logger.Debugw("Ignoring config reload outside running mode", "mode", c.mode)
		return
	}

	c.logger.Info("Applying externally edited config")
	c.shortcuts.Unregister()

	c.cfg = newCfg
	c.resolveActiveOutput()

	hk, err := ParseHotkey(c.cfg.HotkeySpec)
	if err == nil {
		err = c.shortcuts.Register(hk)
	}
	if err != nil {
		c.logger.Errorw("Failed to re-register shortcuts after config reload, exiting", "error", err)
		c.notifier.Notify("Failed to register hotkey!", err.Error())
		c.mode = ModeExiting
		return
	}

	c.indicator.Update(c.speakersActive)
}

// HandleQuit moves the controller to its terminal state
func (c *Controller) HandleQuit() {
	c.logger.Info("Quit requested")
	c.mode = ModeExiting
}

// Shutdown releases everything the controller owns: indicator resources
// and shortcut registrations. Safe to call exactly once, at exit. The
// extended policy handle is never held across events, so there is nothing
// to release on that front here.
func (c *Controller) Shutdown() {
	c.shortcuts.Unregister()
	c.indicator.Release()
	c.logger.Debug("Controller shut down")
}
