package switcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"audioswitcher/pkg/switcher/util"
)

// Config is the single persisted record: the two selected endpoints and the
// toggle shortcut. It is immutable once created; reconfiguration replaces it
// wholesale rather than mutating fields.
type Config struct {
	SpeakersID   string
	HeadphonesID string
	HotkeySpec   string
}

// ErrNoConfig signals a first run: the config file doesn't exist yet
var ErrNoConfig = errors.New("config file does not exist")

var errSameDevice = errors.New("speakers and headphones must be different devices")

const (
	appDirName     = "AudioSwitcher"
	configName     = "config"
	configType     = "yaml"
	configFilename = configName + "." + configType

	configKeySpeakers   = "speakers"
	configKeyHeadphones = "headphones"
	configKeyHotkey     = "hotkey"

	defaultHotkeySpec = "Ctrl+Alt+S"
)

// NewConfig validates and builds a Config. It rejects equal endpoint
// selections and unparseable hotkey specs, so a Config in hand is always
// internally consistent.
func NewConfig(speakersID, headphonesID, hotkeySpec string) (*Config, error) {
	if speakersID == headphonesID {
		return nil, errSameDevice
	}

	if speakersID == "" || headphonesID == "" {
		return nil, errors.New("both endpoint ids must be set")
	}

	if _, err := ParseHotkey(hotkeySpec); err != nil {
		return nil, fmt.Errorf("validate hotkey spec %q: %w", hotkeySpec, err)
	}

	return &Config{
		SpeakersID:   speakersID,
		HeadphonesID: headphonesID,
		HotkeySpec:   hotkeySpec,
	}, nil
}

// ConfigStore owns the on-disk config record and its file watcher
type ConfigStore struct {
	logger   *zap.SugaredLogger
	notifier Notifier

	v    *viper.Viper
	dir  string
	path string

	stopWatcherChannel chan bool
}

// NewConfigStore sets up a viper instance over the per-user config directory
func NewConfigStore(logger *zap.SugaredLogger, notifier Notifier) (*ConfigStore, error) {
	logger = logger.Named("config")

	dir := filepath.Join(xdg.ConfigHome, appDirName)
	if err := util.EnsureDirExists(dir); err != nil {
		return nil, fmt.Errorf("ensure config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	v.SetDefault(configKeySpeakers, "")
	v.SetDefault(configKeyHeadphones, "")
	v.SetDefault(configKeyHotkey, defaultHotkeySpec)

	cs := &ConfigStore{
		logger:             logger,
		notifier:           notifier,
		v:                  v,
		dir:                dir,
		path:               filepath.Join(dir, configFilename),
		stopWatcherChannel: make(chan bool),
	}

	logger.Debugw("Created config store", "path", cs.path)

	return cs, nil
}

// Path returns the config file location (shown to the user in setup output)
func (cs *ConfigStore) Path() string {
	return cs.path
}

// Load reads and validates the config record from disk
func (cs *ConfigStore) Load() (*Config, error) {
	if !util.FileExists(cs.path) {
		cs.logger.Debugw("Config file not found", "path", cs.path)
		return nil, ErrNoConfig
	}

	if err := cs.v.ReadInConfig(); err != nil {
		cs.logger.Warnw("Viper failed to read config", "error", err)
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := NewConfig(
		cs.v.GetString(configKeySpeakers),
		cs.v.GetString(configKeyHeadphones),
		cs.v.GetString(configKeyHotkey),
	)
	if err != nil {
		cs.logger.Warnw("Config file holds an invalid record", "error", err)
		return nil, fmt.Errorf("validate config: %w", err)
	}

	cs.logger.Infow("Loaded config",
		"speakers", cfg.SpeakersID,
		"headphones", cfg.HeadphonesID,
		"hotkey", cfg.HotkeySpec)

	return cfg, nil
}

// Save rewrites the config record wholesale
func (cs *ConfigStore) Save(cfg *Config) error {
	cs.v.Set(configKeySpeakers, cfg.SpeakersID)
	cs.v.Set(configKeyHeadphones, cfg.HeadphonesID)
	cs.v.Set(configKeyHotkey, cfg.HotkeySpec)

	if err := cs.v.WriteConfigAs(cs.path); err != nil {
		cs.logger.Warnw("Failed to write config file", "error", err, "path", cs.path)
		return fmt.Errorf("write config: %w", err)
	}

	cs.logger.Infow("Saved config", "path", cs.path)

	return nil
}

// Watch starts watching the config file for external edits and calls
// onReload with the freshly validated record whenever one lands. Invalid
// edits are surfaced and ignored; the previous config stays active.
// Blocks until StopWatching is called.
func (cs *ConfigStore) Watch(onReload func(*Config)) {
	cs.logger.Debugw("Starting to watch config file for changes", "path", cs.path)

	const (
		minTimeBetweenReloadAttempts = time.Millisecond * 500
		delayBetweenEventAndReload   = time.Millisecond * 50
	)

	lastAttemptedReload := time.Now()

	cs.v.WatchConfig()
	cs.v.OnConfigChange(func(event fsnotify.Event) {

		// many editors write a file twice; debounce duplicates
		if event.Op&fsnotify.Write != fsnotify.Write {
			return
		}

		now := time.Now()
		if !lastAttemptedReload.Add(minTimeBetweenReloadAttempts).Before(now) {
			return
		}
		lastAttemptedReload = now

		cs.logger.Debugw("Config file modified, attempting reload", "event", event)

		// let the editor finish flushing before we read
		<-time.After(delayBetweenEventAndReload)

		cfg, err := cs.Load()
		if err != nil {
			cs.logger.Warnw("Failed to reload edited config file, keeping previous config", "error", err)
			cs.notifier.Notify("Invalid configuration!", "The edited config file could not be loaded; keeping the previous settings.")
			return
		}

		cs.logger.Info("Reloaded config successfully")
		onReload(cfg)
	})

	<-cs.stopWatcherChannel
	cs.logger.Debug("Stopping config file watcher")
	cs.v.OnConfigChange(nil)
}

// StopWatching signals the filesystem watcher to stop
func (cs *ConfigStore) StopWatching() {
	cs.stopWatcherChannel <- true
}
