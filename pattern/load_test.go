package pattern

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/namepat"
)

func TestLoadRequiresASource(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsMultipleSources(t *testing.T) {
	_, err := Load(WithBytes([]byte(`{}`)), WithReader(bytes.NewReader(nil)))
	require.Error(t, err)
}

func TestLoadFromBytes(t *testing.T) {
	a := NewArena()
	el := a.NewElement("", namepat.Name{NS: "", Name: "doc"}, a.NewText(""))
	g := &Grammar{Arena: a, StartID: el, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}
	data, err := WriteTreeToJSON(g, false)
	require.NoError(t, err)

	result, err := Load(WithBytes(data))
	require.NoError(t, err)
	assert.Equal(t, KindElement, result.Grammar.Node(result.Grammar.StartID).Kind)
	assert.Nil(t, result.Manifest, "no manifest without a file path source")
}

func TestLoadFileBuildsManifest(t *testing.T) {
	a := NewArena()
	el := a.NewElement("", namepat.Name{NS: "", Name: "doc"}, a.NewText(""))
	g := &Grammar{Arena: a, StartID: el, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}
	data, err := WriteTreeToJSON(g, false)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "grammar.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	result, err := LoadFile(path, WithCreateManifest(true))
	require.NoError(t, err)
	require.NotNil(t, result.Manifest)
	require.Len(t, result.Manifest.Entries, 1)
	assert.Equal(t, path, result.Manifest.Entries[0].FilePath)
	assert.NotEmpty(t, result.Manifest.Entries[0].Hash)
}

func TestLoadPropagatesPreparationErrors(t *testing.T) {
	a := NewArena()
	ref := a.NewRef("", "missing")
	g := &Grammar{Arena: a, StartID: ref, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}
	data, err := WriteTreeToJSON(g, false)
	require.NoError(t, err)

	_, err = Load(WithBytes(data))
	require.Error(t, err)
}
