// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Command mpv-mpris is built with -buildmode=c-shared and loaded by mpv as a
// C plugin, e.g. from ~/.config/mpv/scripts/mpris.so.
package main

// #cgo pkg-config: mpv
// #include <mpv/client.h>
import "C"

import (
	"unsafe"

	"github.com/spezifisch/mpv-mpris/mpvplayer/cplugin"
	"github.com/spezifisch/mpv-mpris/plugin"
)

// mpv calls this on a thread of its own and destroys handle once it
// returns.
//
//export mpv_open_cplugin
func mpv_open_cplugin(handle *C.mpv_handle) C.int {
	if handle == nil {
		return 1
	}
	return C.int(plugin.Run(cplugin.New(unsafe.Pointer(handle)), plugin.Options{}))
}

func main() {}
