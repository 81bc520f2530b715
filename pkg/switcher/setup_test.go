package switcher

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runSetup(t *testing.T, devices *fakeDevices, input string) (*Config, bool, string) {
	t.Helper()

	var out bytes.Buffer
	setup := NewConsoleSetup(zap.NewNop().Sugar(), devices, strings.NewReader(input), &out, nil, nil)

	cfg, ok := setup.Run()
	return cfg, ok, out.String()
}

func setupDevices() *fakeDevices {
	return &fakeDevices{
		outputs: []AudioDevice{
			{ID: "spk-id", Name: "Speakers (Realtek Audio)"},
			{ID: "hp-id", Name: "Headphones (USB DAC)"},
		},
	}
}

func TestSetupHappyPath(t *testing.T) {
	cfg, ok, out := runSetup(t, setupDevices(), "0\n1\nWin+F9\n")

	require.True(t, ok)
	assert.Equal(t, "spk-id", cfg.SpeakersID)
	assert.Equal(t, "hp-id", cfg.HeadphonesID)
	assert.Equal(t, "Win+F9", cfg.HotkeySpec)

	assert.Contains(t, out, "Speakers (Realtek Audio)")
	assert.Contains(t, out, "Headphones (USB DAC)")
}

func TestSetupEmptyHotkeyUsesDefault(t *testing.T) {
	cfg, ok, _ := runSetup(t, setupDevices(), "0\n1\n\n")

	require.True(t, ok)
	assert.Equal(t, "Ctrl+Alt+S", cfg.HotkeySpec)
}

func TestSetupEqualSelectionsRestart(t *testing.T) {
	// picks the same device twice, then gets it right on the second pass
	cfg, ok, out := runSetup(t, setupDevices(), "0\n0\n1\n0\n\n")

	require.True(t, ok)
	assert.Equal(t, "hp-id", cfg.SpeakersID)
	assert.Equal(t, "spk-id", cfg.HeadphonesID)
	assert.Contains(t, out, "must be different devices")
}

func TestSetupInvalidIndexReprompts(t *testing.T) {
	cfg, ok, out := runSetup(t, setupDevices(), "banana\n7\n-1\n0\n1\n\n")

	require.True(t, ok)
	assert.Equal(t, "spk-id", cfg.SpeakersID)
	assert.Contains(t, out, "between 0 and 1")
}

func TestSetupHotkeyErrorsExplainThemselves(t *testing.T) {
	cfg, ok, out := runSetup(t, setupDevices(), "0\n1\nCtrl+Alt\nCtrl+S+F1\nCtrl+Zz\nCtrl+Alt+H\n")

	require.True(t, ok)
	assert.Equal(t, "Ctrl+Alt+H", cfg.HotkeySpec)

	assert.Contains(t, out, "only modifiers")
	assert.Contains(t, out, `"S"`)
	assert.Contains(t, out, `"F1"`)
	assert.Contains(t, out, `"Zz"`)
}

func TestSetupEndOfInputCancels(t *testing.T) {
	cfg, ok, _ := runSetup(t, setupDevices(), "0\n")

	assert.False(t, ok)
	assert.Nil(t, cfg)
}

func TestSetupTooFewDevicesCancels(t *testing.T) {
	tests := []struct {
		name    string
		outputs []AudioDevice
	}{
		{"no devices", nil},
		{"single device", []AudioDevice{{ID: "spk-id", Name: "Speakers"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, ok, out := runSetup(t, &fakeDevices{outputs: tt.outputs}, "")

			assert.False(t, ok)
			assert.Nil(t, cfg)
			assert.Contains(t, out, "at least two active audio outputs")
		})
	}
}

func TestSetupEnumerationFailureCancels(t *testing.T) {
	devices := &fakeDevices{listErr: errors.New("audio subsystem gone")}

	cfg, ok, out := runSetup(t, devices, "")

	assert.False(t, ok)
	assert.Nil(t, cfg)
	assert.Contains(t, out, "Could not list audio outputs")
}

func TestSetupBracketsConsoleVisibility(t *testing.T) {
	var events []string

	var out bytes.Buffer
	setup := NewConsoleSetup(
		zap.NewNop().Sugar(),
		setupDevices(),
		strings.NewReader("0\n1\n\n"),
		&out,
		func() { events = append(events, "show") },
		func() { events = append(events, "hide") },
	)

	_, ok := setup.Run()

	require.True(t, ok)
	assert.Equal(t, []string{"show", "hide"}, events)
}
