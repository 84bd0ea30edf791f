package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/namepat"
)

// buildSimpleGrammar constructs: start = element{"", "doc"}( group( attribute{"", "id"}(text), text ) ),
// with no defines, directly against the arena API.
func buildSimpleGrammar(t *testing.T) *Grammar {
	t.Helper()
	a := NewArena()
	text := a.NewText("text")
	attr := a.NewAttribute("attr", namepat.Name{NS: "", Name: "id"}, text)
	text2 := a.NewText("text2")
	group := a.NewGroup("group", attr, text2)
	el := a.NewElement("element", namepat.Name{NS: "", Name: "doc"}, group)
	return &Grammar{
		Arena:        a,
		StartID:      el,
		DefineByName: map[string]ID{},
		Datatypes:    datatype.NewRegistry(),
	}
}

func TestResolveNoRefsOK(t *testing.T) {
	g := buildSimpleGrammar(t)
	require.NoError(t, g.Resolve())
}

func TestResolveDanglingRef(t *testing.T) {
	a := NewArena()
	ref := a.NewRef("ref", "missing")
	g := &Grammar{Arena: a, StartID: ref, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}

	err := g.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestResolveRefToDefine(t *testing.T) {
	a := NewArena()
	text := a.NewText("")
	define := a.NewDefine("", "start", text)
	ref := a.NewRef("", "start")
	g := &Grammar{
		Arena:        a,
		StartID:      ref,
		DefineByName: map[string]ID{"start": define},
		Datatypes:    datatype.NewRegistry(),
	}
	require.NoError(t, g.ResolveAll())
	assert.Equal(t, define, g.Node(ref).ResolvedID)
}

func TestPrepareComputesHasAttribute(t *testing.T) {
	g := buildSimpleGrammar(t)
	require.NoError(t, g.Resolve())
	_, err := g.Prepare()
	require.NoError(t, err)

	assert.True(t, g.HasAttribute(g.StartID), "element containing an attribute should report hasAttribute")
}

func TestPrepareElementDoesNotLeakAttributeToParent(t *testing.T) {
	a := NewArena()
	text := a.NewText("")
	attr := a.NewAttribute("", namepat.Name{NS: "", Name: "id"}, text)
	inner := a.NewElement("", namepat.Name{NS: "", Name: "inner"}, attr)
	outerText := a.NewText("")
	group := a.NewGroup("", inner, outerText)
	outer := a.NewElement("", namepat.Name{NS: "", Name: "outer"}, group)

	g := &Grammar{Arena: a, StartID: outer, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}
	require.NoError(t, g.Resolve())
	_, err := g.Prepare()
	require.NoError(t, err)

	assert.True(t, g.HasAttribute(inner))
	assert.False(t, g.HasAttribute(outer), "attribute inside a child element must not propagate to the parent")
}

func TestPrepareCollectsNamespaces(t *testing.T) {
	a := NewArena()
	text := a.NewText("")
	el := a.NewElement("", namepat.Name{NS: "urn:example:ns", Name: "doc"}, text)
	g := &Grammar{Arena: a, StartID: el, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}
	require.NoError(t, g.Resolve())
	namespaces, err := g.Prepare()
	require.NoError(t, err)
	assert.True(t, namespaces["urn:example:ns"])
}

func TestPrepareValuePrecomputesParsedValue(t *testing.T) {
	a := NewArena()
	val := a.NewValue("", "42", "integer", datatype.XSDDatatypesURI, "")
	g := &Grammar{Arena: a, StartID: val, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}
	require.NoError(t, g.Resolve())
	_, err := g.Prepare()
	require.NoError(t, err)

	assert.NotNil(t, g.Node(val).PrecomputedValue())
}

func TestPrepareValueUnknownDatatypeFails(t *testing.T) {
	a := NewArena()
	val := a.NewValue("", "x", "no-such-type", datatype.XSDDatatypesURI, "")
	g := &Grammar{Arena: a, StartID: val, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}
	require.NoError(t, g.Resolve())
	_, err := g.Prepare()
	require.Error(t, err)
}

func TestPrepareDataChecksFacets(t *testing.T) {
	a := NewArena()
	data := a.NewData("", "integer", datatype.XSDDatatypesURI, []datatype.Param{
		{Name: "minInclusive", Value: "not-a-number"},
	}, NoID)
	g := &Grammar{Arena: a, StartID: data, DefineByName: map[string]ID{}, Datatypes: datatype.NewRegistry()}
	require.NoError(t, g.Resolve())
	_, err := g.Prepare()
	require.Error(t, err)
}
