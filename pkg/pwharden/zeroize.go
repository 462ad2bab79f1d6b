package pwharden

import "runtime"

// ZeroizeBytes overwrites buf with zeros. runtime.KeepAlive keeps the stores
// from being eliminated (golang/go#33325).
//
// Copies made by the garbage collector or by callers are out of reach; use it
// on buffers you own as soon as they are no longer needed.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
