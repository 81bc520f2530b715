//go:build windows
// +build windows

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"audioswitcher/pkg/switcher"
)

var verbose = flag.Bool("verbose", false, "show debug logs")

func main() {
	flag.Usage = usage
	flag.Parse()

	logger, err := switcher.NewLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	notifier, err := switcher.NewDesktopNotifier(logger)
	if err != nil {
		logger.Errorw("Failed to create notifier", "error", err)
		os.Exit(1)
	}

	args := flag.Args()

	if len(args) > 0 {
		command := strings.ToLower(args[0])
		if !funk.ContainsString(switcher.CommandNames, command) {
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
			usage()
			os.Exit(1)
		}

		if err := switcher.DispatchCommand(logger, notifier, command); err != nil {
			logger.Errorw("Command failed", "command", command, "error", err)
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		return
	}

	if switcher.ResidentInstanceRunning() {
		fmt.Fprintln(os.Stderr, "audioswitcher is already running")
		os.Exit(1)
	}

	warnAboutStaleInstances(logger)

	store, err := switcher.NewConfigStore(logger, notifier)
	if err != nil {
		logger.Errorw("Failed to create config store", "error", err)
		os.Exit(1)
	}

	if err := switcher.NewSwitcher(logger, notifier, store).Run(); err != nil {
		logger.Errorw("Fatal error", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// warnAboutStaleInstances flags same-named processes that never got as far
// as creating the message window (hung setup, crashed pump). They won't
// receive commands, and their hotkey registrations may still be held.
func warnAboutStaleInstances(logger *zap.SugaredLogger) {
	processes, err := ps.Processes()
	if err != nil {
		logger.Debugw("Failed to list processes", "error", err)
		return
	}

	self := filepath.Base(os.Args[0])
	others := 0

	for _, process := range processes {
		if process.Pid() != os.Getpid() && strings.EqualFold(process.Executable(), self) {
			others++
		}
	}

	if others > 0 {
		logger.Warnw("Found other instances without a message window; they may be stale",
			"count", others)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: audioswitcher [-verbose] [toggle|speakers|headphones]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "With no command, runs resident with a tray icon and global hotkey.")
	fmt.Fprintln(os.Stderr, "With a command, switches the default output and exits (delivered to")
	fmt.Fprintln(os.Stderr, "the resident instance when one is running).")
	flag.PrintDefaults()
}
