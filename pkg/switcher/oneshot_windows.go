//go:build windows
// +build windows

package switcher

import (
	"fmt"
	"runtime"
	"strings"

	ole "github.com/go-ole/go-ole"
	"go.uber.org/zap"
)

// Command names accepted on the command line
const (
	CommandToggle     = "toggle"
	CommandSpeakers   = "speakers"
	CommandHeadphones = "headphones"
)

// CommandNames lists every accepted CLI command
var CommandNames = []string{CommandToggle, CommandSpeakers, CommandHeadphones}

var commandIDs = map[string]uintptr{
	CommandToggle:     cmdToggle,
	CommandSpeakers:   cmdSpeakers,
	CommandHeadphones: cmdHeadphones,
}

// DispatchCommand delivers a CLI command to the resident instance when one
// exists, and otherwise performs the switch itself in one shot. The one-shot
// path resolves "toggle" against the live default rather than any cached
// state, since no state survives between invocations.
func DispatchCommand(logger *zap.SugaredLogger, notifier Notifier, name string) error {
	logger = logger.Named("oneshot")

	id, ok := commandIDs[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}

	if NotifyResidentInstance(id) {
		logger.Debugw("Delivered command to resident instance", "command", name)
		return nil
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, coInitApartmentThreaded); err != nil {
		return fmt.Errorf("initialize COM: %w", err)
	}
	defer ole.CoUninitialize()

	store, err := NewConfigStore(logger, notifier)
	if err != nil {
		return err
	}

	cfg, err := store.Load()
	if err != nil {
		return fmt.Errorf("no usable config; run audioswitcher once to set up: %w", err)
	}

	devices := NewDeviceDirectory(logger)

	target := cfg.SpeakersID
	switch id {
	case cmdHeadphones:
		target = cfg.HeadphonesID
	case cmdToggle:
		currentID, err := devices.DefaultOutputID()
		if err != nil {
			return err
		}
		if currentID == cfg.SpeakersID {
			target = cfg.HeadphonesID
		}
	}

	if err := NewPolicyConfigService(logger).SetDefaultOutput(target); err != nil {
		return err
	}

	NewSystemCue(logger).Play()
	logger.Infow("One-shot switch complete", "command", name)

	return nil
}
