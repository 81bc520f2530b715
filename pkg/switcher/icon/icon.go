// Package icon embeds the multi-resolution tray indicator containers.
// Each holds 16px and 32px images; the best fit for the tray is picked
// at runtime.
package icon

import _ "embed"

//go:embed speakers.ico
var Speakers []byte

//go:embed headphones.ico
var Headphones []byte
