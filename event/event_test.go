package event

import (
	"testing"

	"github.com/raffazizzi/relaxwalk/namepat"
	"github.com/stretchr/testify/assert"
)

func TestInterningIdentity(t *testing.T) {
	a := NewEnterStartTag("", "foo")
	b := NewEnterStartTag("", "foo")
	assert.Same(t, a, b)

	c := NewEnterStartTag("", "bar")
	assert.NotSame(t, a, c)
}

func TestAttributeValueAllowsEmpty(t *testing.T) {
	e := NewAttributeValue("")
	assert.Equal(t, AttributeValue, e.Kind())
	assert.Equal(t, "", e.Value())
}

func TestKindClassification(t *testing.T) {
	assert.True(t, AttributeNameAndValue.IsCompact())
	assert.True(t, StartTagAndAttributes.IsCompact())
	assert.False(t, Text.IsCompact())

	assert.True(t, EnterStartTag.IsNameBearing())
	assert.True(t, EndTag.IsNameBearing())
	assert.True(t, AttributeName.IsNameBearing())
	assert.False(t, Text.IsNameBearing())
	assert.False(t, LeaveStartTag.IsNameBearing())
}

func TestPossibleTextIsSingleton(t *testing.T) {
	a := NewPossibleText()
	b := NewPossibleText()
	assert.Same(t, a, b)
	assert.Equal(t, "*", a.Value())
}

func TestPossibleEnterStartTagCarriesPattern(t *testing.T) {
	pat := namepat.Name{NS: "", Name: "foo"}
	e := NewPossibleEnterStartTag(pat)
	assert.Equal(t, pat, e.NamePattern())
}

func TestSetUnionAndCopyIndependence(t *testing.T) {
	s1 := NewSet(NewEnterStartTag("", "a"))
	s2 := NewSet(NewEnterStartTag("", "b"))
	s1.Union(s2)
	assert.Equal(t, 2, s1.Len())

	cp := s1.Copy()
	cp.Add(NewEnterStartTag("", "c"))
	assert.Equal(t, 2, s1.Len())
	assert.Equal(t, 3, cp.Len())
}

func TestSetFilter(t *testing.T) {
	s := NewSet(NewEnterStartTag("", "a"), NewText("hi"))
	onlyText := s.Filter(func(e *Event) bool { return e.Kind() == Text })
	assert.Equal(t, 1, onlyText.Len())
}
