// Package walkio provides pooled buffers for the JSON tree codec, mirroring
// the teacher corpus's practice of routing repeated small JSON encodes
// through a sync.Pool-backed bytes.Buffer rather than allocating fresh
// buffers per call.
package walkio

import (
	"bytes"
	"encoding/json"
	"sync"
)

const (
	bufferInitialSize = 4096    // 4KB covers most single-grammar trees
	bufferMaxSize     = 1 << 20 // 1MB cap; oversized buffers are left for GC
)

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, bufferInitialSize))
	},
}

// GetBuffer retrieves a reset buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool unless it has grown oversized.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	if buf.Cap() > bufferMaxSize {
		return
	}
	bufferPool.Put(buf)
}

// MarshalJSON marshals v using a pooled buffer and an encoder, stripping
// the trailing newline json.Encoder adds (which plain json.Marshal does
// not emit, and which the wire format does not expect).
func MarshalJSON(v any) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	enc := json.NewEncoder(buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	n := buf.Len()
	if n > 0 && buf.Bytes()[n-1] == '\n' {
		n--
	}
	out := make([]byte, n)
	copy(out, buf.Bytes())
	return out, nil
}
