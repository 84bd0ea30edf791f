package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffazizzi/relaxwalk/event"
)

func TestLoadEventsDecodesAllKinds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"kind": "enterStartTag", "local": "root"},
		{"kind": "attributeName", "local": "id"},
		{"kind": "attributeValue", "value": "1"},
		{"kind": "leaveStartTag"},
		{"kind": "text", "value": "hi"},
		{"kind": "endTag", "local": "root"},
		{"kind": "attributeNameAndValue", "local": "lang", "value": "en"},
		{"kind": "startTagAndAttributes", "local": "p", "attrs": [{"local": "class", "value": "x"}]}
	]`), 0o644))

	events, err := LoadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 8)
	assert.Equal(t, event.EnterStartTag, events[0].Kind())
	assert.Equal(t, event.StartTagAndAttributes, events[7].Kind())
}

func TestLoadEventsRejectsEmptyText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"kind": "text", "value": ""}]`), 0o644))
	_, err := LoadEvents(path)
	assert.Error(t, err)
}

func TestLoadEventsRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"kind": "bogus"}]`), 0o644))
	_, err := LoadEvents(path)
	assert.Error(t, err)
}

func TestLoadEventsMissingFile(t *testing.T) {
	_, err := LoadEvents("/nonexistent/events.json")
	assert.Error(t, err)
}
