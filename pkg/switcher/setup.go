package switcher

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// consoleSetup drives the interactive device and hotkey selection over a
// plain line-oriented console. Reads and writes go through injected
// streams; the visibility hook brings the console window forward on
// platforms that hide it while resident.
type consoleSetup struct {
	logger  *zap.SugaredLogger
	devices DeviceDirectory
	in      io.Reader
	out     io.Writer

	// show/hide bracket the flow around the console window; either may be nil
	show func()
	hide func()
}

// NewConsoleSetup builds the interactive setup flow
func NewConsoleSetup(
	logger *zap.SugaredLogger,
	devices DeviceDirectory,
	in io.Reader,
	out io.Writer,
	show func(),
	hide func(),
) SetupFlow {
	return &consoleSetup{
		logger:  logger.Named("setup"),
		devices: devices,
		in:      in,
		out:     out,
		show:    show,
		hide:    hide,
	}
}

// Run walks the user through picking both endpoints and the toggle shortcut.
// Returns ok == false when input ends early or no devices are present;
// a returned config is always valid.
func (s *consoleSetup) Run() (*Config, bool) {
	if s.show != nil {
		s.show()
	}
	if s.hide != nil {
		defer s.hide()
	}

	outputs, err := s.devices.ListActiveOutputs()
	if err != nil {
		s.logger.Warnw("Failed to enumerate outputs during setup", "error", err)
		fmt.Fprintf(s.out, "Could not list audio outputs: %v\n", err)
		return nil, false
	}

	// two distinct endpoints are required, so one device is as useless as none
	if len(outputs) < 2 {
		fmt.Fprintf(s.out, "Need at least two active audio outputs, found %d. Connect a device and try again.\n", len(outputs))
		return nil, false
	}

	fmt.Fprintln(s.out, "Active audio outputs:")
	for i, dev := range outputs {
		fmt.Fprintf(s.out, "  [%d] %s\n", i, dev.Name)
	}
	fmt.Fprintln(s.out)

	scanner := bufio.NewScanner(s.in)

	for {
		speakers, ok := s.promptDevice(scanner, outputs, "speakers")
		if !ok {
			return nil, false
		}

		headphones, ok := s.promptDevice(scanner, outputs, "headphones")
		if !ok {
			return nil, false
		}

		if speakers.ID == headphones.ID {
			fmt.Fprintln(s.out, "Speakers and headphones must be different devices. Let's try again.")
			continue
		}

		hotkeySpec, ok := s.promptHotkey(scanner)
		if !ok {
			return nil, false
		}

		cfg, err := NewConfig(speakers.ID, headphones.ID, hotkeySpec)
		if err != nil {
			// both inputs were validated above, so this shouldn't trigger
			s.logger.Warnw("Setup produced an invalid config", "error", err)
			fmt.Fprintf(s.out, "Invalid selection: %v. Let's try again.\n", err)
			continue
		}

		s.logger.Infow("Setup complete",
			"speakers", speakers.Name,
			"headphones", headphones.Name,
			"hotkey", hotkeySpec)

		return cfg, true
	}
}

// promptDevice asks for one endpoint by list index, re-prompting until the
// input parses and is in range. ok is false on end of input.
func (s *consoleSetup) promptDevice(scanner *bufio.Scanner, outputs []AudioDevice, role string) (AudioDevice, bool) {
	for {
		fmt.Fprintf(s.out, "Pick your %s [0-%d]: ", role, len(outputs)-1)

		line, ok := readLine(scanner)
		if !ok {
			return AudioDevice{}, false
		}

		index, err := strconv.Atoi(line)
		if err != nil || index < 0 || index >= len(outputs) {
			fmt.Fprintf(s.out, "Please enter a number between 0 and %d.\n", len(outputs)-1)
			continue
		}

		return outputs[index], true
	}
}

// promptHotkey asks for the toggle shortcut, defaulting on empty input.
// The error message depends on what was wrong with the attempt.
func (s *consoleSetup) promptHotkey(scanner *bufio.Scanner) (string, bool) {
	for {
		fmt.Fprintf(s.out, "Toggle hotkey (e.g. Ctrl+Alt+S, Win+F9) [%s]: ", defaultHotkeySpec)

		line, ok := readLine(scanner)
		if !ok {
			return "", false
		}

		if line == "" {
			return defaultHotkeySpec, true
		}

		if _, err := ParseHotkey(line); err != nil {
			var multiErr *MultipleKeysError
			var unknownErr *UnknownKeyError

			switch {
			case errors.Is(err, ErrNoKey):
				fmt.Fprintln(s.out, "That's only modifiers; add a key, like Ctrl+Alt+S.")
			case errors.As(err, &multiErr):
				fmt.Fprintf(s.out, "Only one key allowed, but got both %q and %q.\n", multiErr.First, multiErr.Second)
			case errors.As(err, &unknownErr):
				fmt.Fprintf(s.out, "Don't know the key %q.\n", unknownErr.Token)
			default:
				fmt.Fprintf(s.out, "Couldn't parse that hotkey: %v.\n", err)
			}
			continue
		}

		return line, true
	}
}

func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}

	return strings.TrimSpace(scanner.Text()), true
}
