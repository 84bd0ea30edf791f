package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/namepat"
)

func TestWriteReadRoundTripSimple(t *testing.T) {
	g := buildSimpleGrammar(t)
	data, err := WriteTreeToJSON(g, false)
	require.NoError(t, err)

	g2, err := ReadTreeFromJSON(data, datatype.NewRegistry())
	require.NoError(t, err)

	require.NoError(t, g2.ResolveAll())
	_, err = g2.Prepare()
	require.NoError(t, err)

	assert.Equal(t, KindElement, g2.Node(g2.StartID).Kind)
	assert.True(t, g2.HasAttribute(g2.StartID))
}

func TestWriteReadRoundTripWithDefines(t *testing.T) {
	a := NewArena()
	text := a.NewText("")
	define := a.NewDefine("", "body", text)
	ref := a.NewRef("", "body")
	el := a.NewElement("", namepat.Name{NS: "", Name: "doc"}, ref)
	g := &Grammar{
		Arena:        a,
		StartID:      el,
		DefineByName: map[string]ID{"body": define},
		Datatypes:    datatype.NewRegistry(),
	}
	data, err := WriteTreeToJSON(g, false)
	require.NoError(t, err)

	g2, err := ReadTreeFromJSON(data, datatype.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, g2.ResolveAll())

	refID := g2.Node(g2.StartID).ContentID
	require.Equal(t, KindRef, g2.Node(refID).Kind)
	assert.NotEqual(t, NoID, g2.Node(refID).ResolvedID)
}

func TestWriteReadRoundTripWithOrigins(t *testing.T) {
	a := NewArena()
	el := a.NewElement("start/doc", namepat.Name{NS: "", Name: "doc"}, a.NewText("start/doc/text"))
	g := &Grammar{Arena: a, StartID: el, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}

	data, err := WriteTreeToJSON(g, true)
	require.NoError(t, err)

	g2, err := ReadTreeFromJSON(data, datatype.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, "start/doc", g2.Node(g2.StartID).Origin)
}

func TestReadTreeRejectsWrongVersion(t *testing.T) {
	_, err := ReadTreeFromJSON([]byte(`{"v":1,"o":0,"d":"[]"}`), datatype.NewRegistry())
	require.Error(t, err)
}

func TestReadTreeRejectsMalformedEnvelope(t *testing.T) {
	_, err := ReadTreeFromJSON([]byte(`not json`), datatype.NewRegistry())
	require.Error(t, err)
}

func TestValueAndDataRoundTrip(t *testing.T) {
	a := NewArena()
	val := a.NewValue("", "42", "integer", datatype.XSDDatatypesURI, "")
	dataNode := a.NewData("", "integer", datatype.XSDDatatypesURI, []datatype.Param{
		{Name: "minInclusive", Value: "0"},
	}, NoID)
	group := a.NewGroup("", val, dataNode)
	g := &Grammar{Arena: a, StartID: group, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}

	data, err := WriteTreeToJSON(g, false)
	require.NoError(t, err)

	g2, err := ReadTreeFromJSON(data, datatype.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, g2.ResolveAll())
	_, err = g2.Prepare()
	require.NoError(t, err)

	valNode := g2.Node(g2.Node(g2.StartID).AID)
	assert.Equal(t, "42", valNode.ValueRaw)
	assert.Equal(t, int64(42), valNode.PrecomputedValue())
}

func TestNameClassChoiceRoundTrip(t *testing.T) {
	a := NewArena()
	nc := namepat.NameChoice{
		A: namepat.Name{NS: "urn:a", Name: "foo"},
		B: namepat.NsName{NS: "urn:b", Except: namepat.Name{NS: "urn:b", Name: "bar"}},
	}
	el := a.NewElement("", nc, a.NewText(""))
	g := &Grammar{Arena: a, StartID: el, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}

	data, err := WriteTreeToJSON(g, false)
	require.NoError(t, err)

	g2, err := ReadTreeFromJSON(data, datatype.NewRegistry())
	require.NoError(t, err)

	got, ok := g2.Node(g2.StartID).NameClass.(namepat.NameChoice)
	require.True(t, ok)
	assert.True(t, got.Match("urn:a", "foo"))
	bNs, ok := got.B.(namepat.NsName)
	require.True(t, ok)
	assert.Equal(t, "urn:b", bNs.NS)
}
