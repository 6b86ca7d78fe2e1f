// Package debug implements opt-in protocol debug logging, gated on
// the WAYLAND_DEBUG environment variable. A positive integer or the
// value "server" turns it on.
package debug

import (
	"log"
	"os"
	"strconv"
)

var debug = func(string, ...any) {}

func init() {
	v := os.Getenv("WAYLAND_DEBUG")
	enabled := v == "server"
	if !enabled {
		debugLevel, err := strconv.ParseInt(v, 10, 0)
		enabled = err == nil && debugLevel > 0
	}
	if enabled {
		debug = func(str string, args ...any) { log.Printf(str, args...) }
	}
}

func Printf(str string, args ...any) {
	debug(str, args...)
}
