package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join("..", "..", "..", "testdata", name)
}

func TestValidateOutputFormat(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat(FormatText))
	assert.NoError(t, ValidateOutputFormat(FormatJSON))
	assert.Error(t, ValidateOutputFormat("xml"))
	assert.Error(t, ValidateOutputFormat(""))
}

func TestHandleValidateValidDocument(t *testing.T) {
	err := HandleValidate([]string{
		"--quiet",
		testdataPath(t, "simple-schema.json"),
		testdataPath(t, "simple-events-valid.json"),
	})
	assert.NoError(t, err)
}

func TestHandleValidateErrorPaths(t *testing.T) {
	t.Run("wrong arg count", func(t *testing.T) {
		err := HandleValidate([]string{testdataPath(t, "simple-schema.json")})
		assert.Error(t, err)
	})

	t.Run("non-existent schema", func(t *testing.T) {
		err := HandleValidate([]string{"/nonexistent/schema.json", testdataPath(t, "simple-events-valid.json")})
		assert.Error(t, err)
	})

	t.Run("non-existent events", func(t *testing.T) {
		err := HandleValidate([]string{testdataPath(t, "simple-schema.json"), "/nonexistent/events.json"})
		assert.Error(t, err)
	})

	t.Run("invalid format flag", func(t *testing.T) {
		err := HandleValidate([]string{"--format", "xml", testdataPath(t, "simple-schema.json"), testdataPath(t, "simple-events-valid.json")})
		assert.Error(t, err)
	})
}
