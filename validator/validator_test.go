package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/event"
	"github.com/raffazizzi/relaxwalk/namepat"
	"github.com/raffazizzi/relaxwalk/pattern"
	"github.com/raffazizzi/relaxwalk/walker"
)

func prepareGrammar(t *testing.T, g *pattern.Grammar) *pattern.Grammar {
	t.Helper()
	require.NoError(t, g.ResolveAll())
	_, err := g.Prepare()
	require.NoError(t, err)
	return g
}

// Scenario 5: schema defines exactly one element name { text } (reachable
// via a Define named "name"), encountered somewhere it is not expected.
// Recovery should emit one error and validate the misplaced element's
// content against its sole definition.
func TestMisplacedElementUniqueDefinitionRecovers(t *testing.T) {
	a := pattern.NewArena()

	nameDefBody := a.NewElement("", namepat.Name{Name: "name"}, a.NewText(""))
	nameDefine := a.NewDefine("", "name", nameDefBody)

	// root allows only element "other"; "name" is defined but unreachable
	// from root's own content, so firing it there is misplaced.
	other := a.NewElement("", namepat.Name{Name: "other"}, a.NewEmpty(""))
	root := a.NewElement("", namepat.Name{Name: "root"}, other)

	g := prepareGrammar(t, &pattern.Grammar{
		Arena:   a,
		StartID: root,
		DefineByName: map[string]pattern.ID{
			"name": nameDefine,
		},
		Datatypes: datatype.NewRegistry(),
	})

	v, err := New(g)
	require.NoError(t, err)

	require.Equal(t, walker.StatusOk, v.FireEvent(event.NewEnterStartTag("", "root")).Status)
	require.Equal(t, walker.StatusOk, v.FireEvent(event.NewLeaveStartTag()).Status)

	outcome := v.FireEvent(event.NewEnterStartTag("", "name"))
	require.Equal(t, walker.StatusErrors, outcome.Status)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, walker.ErrUnexpectedElement, outcome.Errors[0].Kind)

	require.Equal(t, walker.StatusOk, v.FireEvent(event.NewLeaveStartTag()).Status)
	require.Equal(t, walker.StatusOk, v.FireEvent(event.NewText("hello")).Status)
	require.Equal(t, walker.StatusOk, v.FireEvent(event.NewEndTag("", "name")).Status)

	// The outer walker resumes as if "name" had never occurred: "other" is
	// still expected and accepted with no further error.
	outcome = v.FireEvent(event.NewEnterStartTag("", "other"))
	assert.Equal(t, walker.StatusOk, outcome.Status)
}

// Scenario 6: two distinct element name { ... } definitions exist, so a
// misplaced "name" has no unique recovery target. One error is emitted and
// all events until the matching endTag are ignored; the possibility set
// after resumption equals what it was before.
func TestMisplacedElementAmbiguousDefinitionSuspends(t *testing.T) {
	a := pattern.NewArena()

	def1Body := a.NewElement("", namepat.Name{Name: "name"}, a.NewText(""))
	def1 := a.NewDefine("", "name1", def1Body)
	def2Body := a.NewElement("", namepat.Name{Name: "name"}, a.NewEmpty(""))
	def2 := a.NewDefine("", "name2", def2Body)

	other := a.NewElement("", namepat.Name{Name: "other"}, a.NewEmpty(""))
	root := a.NewElement("", namepat.Name{Name: "root"}, other)

	g := prepareGrammar(t, &pattern.Grammar{
		Arena:   a,
		StartID: root,
		DefineByName: map[string]pattern.ID{
			"name1": def1,
			"name2": def2,
		},
		Datatypes: datatype.NewRegistry(),
	})

	v, err := New(g)
	require.NoError(t, err)

	v.FireEvent(event.NewEnterStartTag("", "root"))
	v.FireEvent(event.NewLeaveStartTag())

	before := v.Possible()

	outcome := v.FireEvent(event.NewEnterStartTag("", "name"))
	require.Equal(t, walker.StatusErrors, outcome.Status)
	require.Len(t, outcome.Errors, 1)

	// Everything until the matching endTag is ignored, regardless of shape.
	assert.Equal(t, walker.StatusOk, v.FireEvent(event.NewLeaveStartTag()).Status)
	assert.Equal(t, walker.StatusOk, v.FireEvent(event.NewText("anything")).Status)
	assert.Equal(t, walker.StatusOk, v.FireEvent(event.NewEndTag("", "name")).Status)

	after := v.Possible()
	assert.ElementsMatch(t, before.ToSlice(), after.ToSlice())

	outcome = v.FireEvent(event.NewEnterStartTag("", "other"))
	assert.Equal(t, walker.StatusOk, outcome.Status)
}

// A nested element sharing the misplaced element's local name, inside the
// ambiguous-recovery content, must not prematurely close the suspension.
func TestMisplacedElementSuspensionTracksNestingDepth(t *testing.T) {
	a := pattern.NewArena()
	def1Body := a.NewElement("", namepat.Name{Name: "name"}, a.NewEmpty(""))
	def1 := a.NewDefine("", "name1", def1Body)
	def2Body := a.NewElement("", namepat.Name{Name: "name"}, a.NewText(""))
	def2 := a.NewDefine("", "name2", def2Body)

	other := a.NewElement("", namepat.Name{Name: "other"}, a.NewEmpty(""))
	root := a.NewElement("", namepat.Name{Name: "root"}, other)

	g := prepareGrammar(t, &pattern.Grammar{
		Arena:   a,
		StartID: root,
		DefineByName: map[string]pattern.ID{
			"name1": def1,
			"name2": def2,
		},
		Datatypes: datatype.NewRegistry(),
	})

	v, err := New(g)
	require.NoError(t, err)
	v.FireEvent(event.NewEnterStartTag("", "root"))
	v.FireEvent(event.NewLeaveStartTag())

	v.FireEvent(event.NewEnterStartTag("", "name"))
	v.FireEvent(event.NewLeaveStartTag())
	// Nested "name" inside the ignored content.
	v.FireEvent(event.NewEnterStartTag("", "name"))
	v.FireEvent(event.NewLeaveStartTag())
	v.FireEvent(event.NewEndTag("", "name"))

	// The outer "name" is still open (only the nested one closed). A name
	// the real grammar has no definition for at all must still be silently
	// swallowed here: if the suspension had ended prematurely, this would
	// instead reach the root walker, find no candidate definitions, and
	// produce its own recovery error.
	outcome := v.FireEvent(event.NewEnterStartTag("", "bogus"))
	require.Equal(t, walker.StatusOk, outcome.Status)
	v.FireEvent(event.NewLeaveStartTag())
	v.FireEvent(event.NewEndTag("", "bogus"))

	v.FireEvent(event.NewEndTag("", "name"))
	outcome = v.FireEvent(event.NewEnterStartTag("", "other"))
	assert.Equal(t, walker.StatusOk, outcome.Status)
}

func TestCloneDivergesIndependently(t *testing.T) {
	a := pattern.NewArena()
	choiceA := a.NewElement("", namepat.Name{Name: "a"}, a.NewEmpty(""))
	choiceB := a.NewElement("", namepat.Name{Name: "b"}, a.NewEmpty(""))
	choice := a.NewChoice("", choiceA, choiceB)
	root := a.NewElement("", namepat.Name{Name: "root"}, choice)

	g := prepareGrammar(t, &pattern.Grammar{Arena: a, StartID: root, DefineByName: map[string]pattern.ID{}, Datatypes: datatype.NewRegistry()})

	v, err := New(g)
	require.NoError(t, err)
	v.FireEvent(event.NewEnterStartTag("", "root"))
	v.FireEvent(event.NewLeaveStartTag())

	clone := v.Clone()
	require.Equal(t, walker.StatusOk, v.FireEvent(event.NewEnterStartTag("", "a")).Status)
	require.Equal(t, walker.StatusOk, clone.FireEvent(event.NewEnterStartTag("", "b")).Status)
}

// element root { attribute id { text }, text }, fired entirely via the two
// compact event kinds.
func TestFireEventExpandsCompactEvents(t *testing.T) {
	a := pattern.NewArena()
	idAttr := a.NewAttribute("", namepat.Name{Name: "id"}, a.NewText(""))
	body := a.NewGroup("", idAttr, a.NewText(""))
	root := a.NewElement("", namepat.Name{Name: "root"}, body)
	g := prepareGrammar(t, &pattern.Grammar{Arena: a, StartID: root, DefineByName: map[string]pattern.ID{}, Datatypes: datatype.NewRegistry()})

	v, err := New(g)
	require.NoError(t, err)

	outcome := v.FireEvent(event.NewStartTagAndAttributes("", "root", []event.AttrKV{{Local: "id", Value: "1"}}))
	require.Equal(t, walker.StatusOk, outcome.Status)

	outcome = v.FireEvent(event.NewText("hello"))
	require.Equal(t, walker.StatusOk, outcome.Status)

	outcome = v.FireEvent(event.NewEndTag("", "root"))
	require.Equal(t, walker.StatusOk, outcome.Status)
	assert.True(t, v.CanEnd(false))
}

// A compact attributeNameAndValue naming an attribute the grammar doesn't
// declare must surface the same diagnostic firing the expanded pair would.
func TestFireEventExpandsCompactAttributeNameAndValueReportsErrors(t *testing.T) {
	a := pattern.NewArena()
	el := a.NewElement("", namepat.Name{Name: "root"}, a.NewEmpty(""))
	g := prepareGrammar(t, &pattern.Grammar{Arena: a, StartID: el, DefineByName: map[string]pattern.ID{}, Datatypes: datatype.NewRegistry()})

	v, err := New(g)
	require.NoError(t, err)
	v.FireEvent(event.NewEnterStartTag("", "root"))

	outcome := v.FireEvent(event.NewAttributeNameAndValue("", "extra", "x"))
	assert.Equal(t, walker.StatusErrors, outcome.Status)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, walker.ErrUnexpectedAttribute, outcome.Errors[0].Kind)
}

func TestEndRejectsIncompleteDocument(t *testing.T) {
	a := pattern.NewArena()
	el := a.NewElement("", namepat.Name{Name: "foo"}, a.NewText(""))
	g := prepareGrammar(t, &pattern.Grammar{Arena: a, StartID: el, DefineByName: map[string]pattern.ID{}, Datatypes: datatype.NewRegistry()})

	v, err := New(g)
	require.NoError(t, err)
	v.FireEvent(event.NewEnterStartTag("", "foo"))
	v.FireEvent(event.NewLeaveStartTag())

	assert.False(t, v.CanEnd(false))
	assert.Equal(t, walker.StatusErrors, v.End(false).Status)
}
