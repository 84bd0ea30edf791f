package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffazizzi/relaxwalk/datatype"
	"github.com/raffazizzi/relaxwalk/namepat"
	"github.com/raffazizzi/relaxwalk/pattern"
)

// testSchemaJSON builds a tiny root(text) grammar and serializes it through
// the real wire-format encoder, so tool tests exercise the same decode path
// a client's inline schema.content would.
func testSchemaJSON(t *testing.T) string {
	t.Helper()
	a := pattern.NewArena()
	el := a.NewElement("", namepat.Name{Name: "root"}, a.NewText(""))
	g := &pattern.Grammar{Arena: a, StartID: el, DefineByName: map[string]pattern.ID{}, Datatypes: datatype.NewRegistry()}
	data, err := pattern.WriteTreeToJSON(g, false)
	require.NoError(t, err)
	return string(data)
}

func TestFireEventStartsNewSessionAndAdvances(t *testing.T) {
	sessions.reset()
	schema := testSchemaJSON(t)

	_, out, err := handleFireEvent(context.Background(), nil, fireEventInput{
		Schema: &schemaInput{Content: schema},
		Event:  eventInput{Kind: "enterStartTag", Local: "root"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.SessionID)
	assert.Equal(t, "Ok", out.Status)
	assert.Empty(t, out.Errors)

	_, out2, err := handleFireEvent(context.Background(), nil, fireEventInput{
		SessionID: out.SessionID,
		Event:     eventInput{Kind: "leaveStartTag"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ok", out2.Status)
}

func TestFireEventUnknownSessionErrors(t *testing.T) {
	sessions.reset()
	res, _, err := handleFireEvent(context.Background(), nil, fireEventInput{
		SessionID: "does-not-exist",
		Event:     eventInput{Kind: "leaveStartTag"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestFireEventMissingSchemaErrors(t *testing.T) {
	sessions.reset()
	res, _, err := handleFireEvent(context.Background(), nil, fireEventInput{
		Event: eventInput{Kind: "enterStartTag", Local: "root"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}

func TestPossibleReflectsSessionState(t *testing.T) {
	sessions.reset()
	schema := testSchemaJSON(t)

	_, fireOut, err := handleFireEvent(context.Background(), nil, fireEventInput{
		Schema: &schemaInput{Content: schema},
		Event:  eventInput{Kind: "enterStartTag", Local: "root"},
	})
	require.NoError(t, err)

	_, possibleOut, err := handlePossible(context.Background(), nil, possibleInput{SessionID: fireOut.SessionID})
	require.NoError(t, err)
	assert.False(t, possibleOut.CanEnd)
	require.Len(t, possibleOut.Events, 1)
	assert.Equal(t, "leaveStartTag", possibleOut.Events[0].Kind)
}

func TestCloneSessionDivergesFromOriginal(t *testing.T) {
	sessions.reset()
	schema := testSchemaJSON(t)

	_, fireOut, err := handleFireEvent(context.Background(), nil, fireEventInput{
		Schema: &schemaInput{Content: schema},
		Event:  eventInput{Kind: "enterStartTag", Local: "root"},
	})
	require.NoError(t, err)

	_, cloneOut, err := handleCloneSession(context.Background(), nil, cloneSessionInput{SessionID: fireOut.SessionID})
	require.NoError(t, err)
	require.NotEqual(t, fireOut.SessionID, cloneOut.ClonedSessionID)

	_, _, err = handleFireEvent(context.Background(), nil, fireEventInput{
		SessionID: fireOut.SessionID,
		Event:     eventInput{Kind: "leaveStartTag"},
	})
	require.NoError(t, err)

	// The clone never saw leaveStartTag; it still only accepts it next, not text.
	_, clonePossible, err := handlePossible(context.Background(), nil, possibleInput{SessionID: cloneOut.ClonedSessionID})
	require.NoError(t, err)
	require.Len(t, clonePossible.Events, 1)
	assert.Equal(t, "leaveStartTag", clonePossible.Events[0].Kind)
}
