package scene

import (
	"bytes"
	_ "embed"
)

//go:embed demo.toml
var demoTOML []byte

// Demo returns the built-in scene used when no file is given.
func Demo() (*File, error) {
	return Decode(bytes.NewReader(demoTOML), FormatTOML)
}
