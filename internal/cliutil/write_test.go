package cliutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "Hello, %s!", "World")
	assert.Equal(t, "Hello, World!", buf.String())
}

func TestWritefNoArgs(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "Simple message")
	assert.Equal(t, "Simple message", buf.String())
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestWritefWriteErrorDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Writef(errorWriter{}, "this will fail")
	})
}
