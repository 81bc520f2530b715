//go:build windows
// +build windows

package switcher

import (
	"syscall"
	"unsafe"

	"go.uber.org/zap"
)

var (
	modWinmm       = syscall.NewLazyDLL("winmm.dll")
	procPlaySoundW = modWinmm.NewProc("PlaySoundW")
)

const (
	sndAsync     = 0x0001
	sndNoDefault = 0x0002
	sndAlias     = 0x00010000
)

// systemCue plays the system notification sound after a successful switch.
// Played asynchronously through whichever device just became the default,
// which doubles as an audible confirmation that the right endpoint took over.
type systemCue struct {
	logger *zap.SugaredLogger
	alias  *uint16
}

// NewSystemCue builds the confirmation cue player
func NewSystemCue(logger *zap.SugaredLogger) Cue {
	alias, _ := syscall.UTF16PtrFromString("SystemAsterisk")

	return &systemCue{
		logger: logger.Named("cue"),
		alias:  alias,
	}
}

func (s *systemCue) Play() {
	ret, _, err := procPlaySoundW.Call(
		uintptr(unsafe.Pointer(s.alias)),
		0,
		sndAlias|sndAsync|sndNoDefault,
	)
	if ret == 0 {
		s.logger.Debugw("PlaySound failed", "error", err)
	}
}
