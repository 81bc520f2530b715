package switcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		spec string
		want Hotkey
	}{
		{"Ctrl+Alt+S", Hotkey{Modifiers: ModControl | ModAlt | ModNoRepeat, Key: 'S'}},
		{"ctrl+alt+s", Hotkey{Modifiers: ModControl | ModAlt | ModNoRepeat, Key: 'S'}},
		{"CTRL+ALT+S", Hotkey{Modifiers: ModControl | ModAlt | ModNoRepeat, Key: 'S'}},
		{"Alt+Ctrl+S", Hotkey{Modifiers: ModControl | ModAlt | ModNoRepeat, Key: 'S'}},
		{"Ctrl+Ctrl+S", Hotkey{Modifiers: ModControl | ModNoRepeat, Key: 'S'}},
		{"Win+F9", Hotkey{Modifiers: ModWin | ModNoRepeat, Key: 0x78}},
		{"Shift+Space", Hotkey{Modifiers: ModShift | ModNoRepeat, Key: 0x20}},
		{"Control+5", Hotkey{Modifiers: ModControl | ModNoRepeat, Key: '5'}},
		{"Super+\\", Hotkey{Modifiers: ModWin | ModNoRepeat, Key: 0xDC}},
		{"F12", Hotkey{Modifiers: ModNoRepeat, Key: 0x7B}},
		{" Ctrl + Alt + S ", Hotkey{Modifiers: ModControl | ModAlt | ModNoRepeat, Key: 'S'}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseHotkey(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHotkeyAlwaysSetsNoRepeat(t *testing.T) {
	hk, err := ParseHotkey("S")
	require.NoError(t, err)
	assert.NotZero(t, hk.Modifiers&ModNoRepeat)
}

func TestParseHotkeyModifiersOnly(t *testing.T) {
	specs := []string{"Ctrl+Alt", "", "   ", "+", "Ctrl+Alt+"}

	for _, spec := range specs {
		_, err := ParseHotkey(spec)
		assert.ErrorIs(t, err, ErrNoKey, "spec %q", spec)
	}
}

func TestParseHotkeyMultipleKeys(t *testing.T) {
	_, err := ParseHotkey("Ctrl+S+F1")
	require.Error(t, err)

	var multiErr *MultipleKeysError
	require.ErrorAs(t, err, &multiErr)
	assert.Equal(t, "S", multiErr.First)
	assert.Equal(t, "F1", multiErr.Second)
}

func TestParseHotkeyUnknownKey(t *testing.T) {
	_, err := ParseHotkey("Ctrl+Alt+Zz")
	require.Error(t, err)

	var unknownErr *UnknownKeyError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "Zz", unknownErr.Token)
}

func TestParseHotkeyPunctuation(t *testing.T) {
	punctuation := map[string]uint16{
		"/": 0xBF,
		";": 0xBA,
		"'": 0xDE,
		"[": 0xDB,
		"]": 0xDD,
		"-": 0xBD,
		"=": 0xBB,
		",": 0xBC,
		".": 0xBE,
		"`": 0xC0,
	}

	for token, code := range punctuation {
		hk, err := ParseHotkey("Ctrl+" + token)
		require.NoError(t, err, "token %q", token)
		assert.Equal(t, code, hk.Key, "token %q", token)
	}
}
