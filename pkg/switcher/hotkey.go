package switcher

import (
	"errors"
	"fmt"
	"strings"
)

// Win32 hotkey modifier flags, as passed to RegisterHotKey
const (
	ModAlt      uint16 = 0x0001
	ModControl  uint16 = 0x0002
	ModShift    uint16 = 0x0004
	ModWin      uint16 = 0x0008
	ModNoRepeat uint16 = 0x4000
)

// Hotkey is a parsed shortcut: a set of modifier flags plus a single virtual-key code
type Hotkey struct {
	Modifiers uint16
	Key       uint16
}

// ErrNoKey is returned when a hotkey spec contains only modifiers
var ErrNoKey = errors.New("no key specified in hotkey")

// MultipleKeysError is returned when a hotkey spec contains more than one non-modifier token
type MultipleKeysError struct {
	First  string
	Second string
}

func (e *MultipleKeysError) Error() string {
	return fmt.Sprintf("multiple keys specified: already had %q, got %q", e.First, e.Second)
}

// UnknownKeyError is returned for a token that is neither a modifier nor a recognized key name
type UnknownKeyError struct {
	Token string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key: %q", e.Token)
}

// named keys beyond plain alphanumerics: function keys, space and the OEM punctuation row
var namedKeyCodes = map[string]uint16{
	"F1":    0x70,
	"F2":    0x71,
	"F3":    0x72,
	"F4":    0x73,
	"F5":    0x74,
	"F6":    0x75,
	"F7":    0x76,
	"F8":    0x77,
	"F9":    0x78,
	"F10":   0x79,
	"F11":   0x7A,
	"F12":   0x7B,
	"SPACE": 0x20,
	"\\":    0xDC, // VK_OEM_5
	"/":     0xBF, // VK_OEM_2
	";":     0xBA, // VK_OEM_1
	"'":     0xDE, // VK_OEM_7
	"[":     0xDB, // VK_OEM_4
	"]":     0xDD, // VK_OEM_6
	"-":     0xBD, // VK_OEM_MINUS
	"=":     0xBB, // VK_OEM_PLUS
	",":     0xBC, // VK_OEM_COMMA
	".":     0xBE, // VK_OEM_PERIOD
	"`":     0xC0, // VK_OEM_3
}

// ParseHotkey parses a spec string like "Ctrl+Alt+S" into a Hotkey.
// Tokens are +-separated and case-insensitive; modifier order doesn't matter
// and duplicate modifiers are idempotent. MOD_NOREPEAT is always set so a
// held key fires once per press, not once per auto-repeat interval.
func ParseHotkey(spec string) (Hotkey, error) {
	hk := Hotkey{Modifiers: ModNoRepeat}
	firstKeyToken := ""

	for _, part := range strings.Split(spec, "+") {
		token := strings.TrimSpace(part)

		// empty and whitespace-only tokens carry no key; an all-empty
		// spec falls through to ErrNoKey below
		if token == "" {
			continue
		}

		switch strings.ToUpper(token) {
		case "CTRL", "CONTROL":
			hk.Modifiers |= ModControl
		case "ALT":
			hk.Modifiers |= ModAlt
		case "SHIFT":
			hk.Modifiers |= ModShift
		case "WIN", "WINDOWS", "SUPER":
			hk.Modifiers |= ModWin
		default:
			if hk.Key != 0 {
				return Hotkey{}, &MultipleKeysError{First: firstKeyToken, Second: token}
			}

			code, err := keyCode(token)
			if err != nil {
				return Hotkey{}, err
			}

			hk.Key = code
			firstKeyToken = token
		}
	}

	if hk.Key == 0 {
		return Hotkey{}, ErrNoKey
	}

	return hk, nil
}

func keyCode(token string) (uint16, error) {
	if code, ok := namedKeyCodes[strings.ToUpper(token)]; ok {
		return code, nil
	}

	// single alphanumeric character maps straight to its virtual-key code
	if len(token) == 1 {
		c := token[0]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return uint16(c), nil
		}
	}

	return 0, &UnknownKeyError{Token: token}
}
