// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package cplugin

// #include <stdlib.h>
import "C"

import "unsafe"

// argv is a NULL-terminated char* array in C memory, as mpv_command wants.
type argv struct {
	ptr **C.char
	n   int
}

func newArgv(args []string) *argv {
	size := C.size_t(unsafe.Sizeof((*C.char)(nil)))
	ptr := (**C.char)(C.calloc(C.size_t(len(args)+1), size))
	slots := unsafe.Slice(ptr, len(args)+1)
	for i, a := range args {
		slots[i] = C.CString(a)
	}
	return &argv{ptr: ptr, n: len(args)}
}

// strings reads the array back up to the terminating NULL.
func (a *argv) strings() []string {
	var out []string
	for _, s := range unsafe.Slice(a.ptr, a.n+1) {
		if s == nil {
			break
		}
		out = append(out, C.GoString(s))
	}
	return out
}

// terminated reports whether the slot after the last argument is NULL.
func (a *argv) terminated() bool {
	return unsafe.Slice(a.ptr, a.n+1)[a.n] == nil
}

func (a *argv) free() {
	for _, s := range unsafe.Slice(a.ptr, a.n) {
		C.free(unsafe.Pointer(s))
	}
	C.free(unsafe.Pointer(a.ptr))
}
