package sqlgen

import (
	"bytes"
	"sync"
)

// bufferPool hands out script buffers. Reset keeps the grown capacity, so a
// reused buffer rarely reallocates.
var bufferPool = sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(8 << 10)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(b *bytes.Buffer) {
	b.Reset()
	bufferPool.Put(b)
}
