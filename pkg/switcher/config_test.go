package switcher

import (
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConfigValidation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg, err := NewConfig("spk-id", "hp-id", "Ctrl+Alt+S")
		require.NoError(t, err)
		assert.Equal(t, "spk-id", cfg.SpeakersID)
		assert.Equal(t, "hp-id", cfg.HeadphonesID)
	})

	t.Run("same device twice", func(t *testing.T) {
		_, err := NewConfig("spk-id", "spk-id", "Ctrl+Alt+S")
		assert.ErrorIs(t, err, errSameDevice)
	})

	t.Run("empty endpoint id", func(t *testing.T) {
		_, err := NewConfig("", "hp-id", "Ctrl+Alt+S")
		assert.Error(t, err)
	})

	t.Run("bad hotkey spec", func(t *testing.T) {
		_, err := NewConfig("spk-id", "hp-id", "Ctrl+Alt")
		assert.ErrorIs(t, err, ErrNoKey)
	})
}

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	store, err := NewConfigStore(zap.NewNop().Sugar(), &silentNotifier{})
	require.NoError(t, err)

	return store
}

func TestConfigStoreLoadBeforeFirstSave(t *testing.T) {
	store := newTestConfigStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestConfigStoreRoundTrip(t *testing.T) {
	store := newTestConfigStore(t)

	cfg, err := NewConfig("spk-id", "hp-id", "Win+F9")
	require.NoError(t, err)
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestConfigStoreRejectsInvalidRecord(t *testing.T) {
	store := newTestConfigStore(t)

	cfg, err := NewConfig("spk-id", "hp-id", "Ctrl+Alt+S")
	require.NoError(t, err)
	require.NoError(t, store.Save(cfg))

	// degrade the record behind the store's back
	store.v.Set(configKeyHeadphones, "spk-id")
	require.NoError(t, store.v.WriteConfigAs(store.path))

	_, err = store.Load()
	assert.ErrorIs(t, err, errSameDevice)
}
