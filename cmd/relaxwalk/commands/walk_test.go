package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raffazizzi/relaxwalk/event"
)

func TestHandleWalkValidDocument(t *testing.T) {
	err := HandleWalk([]string{
		testdataPath(t, "simple-schema.json"),
		testdataPath(t, "simple-events-valid.json"),
	})
	assert.NoError(t, err)
}

func TestHandleWalkErrorPaths(t *testing.T) {
	t.Run("wrong arg count", func(t *testing.T) {
		err := HandleWalk([]string{testdataPath(t, "simple-schema.json")})
		assert.Error(t, err)
	})

	t.Run("non-existent schema", func(t *testing.T) {
		err := HandleWalk([]string{"/nonexistent/schema.json", testdataPath(t, "simple-events-valid.json")})
		assert.Error(t, err)
	})
}

func TestHandleWalkReportsMissingAttribute(t *testing.T) {
	err := HandleWalk([]string{
		testdataPath(t, "simple-schema.json"),
		testdataPath(t, "simple-events-missing-attribute.json"),
	})
	assert.NoError(t, err)
}

func TestPossibleStringEmptySet(t *testing.T) {
	assert.Equal(t, "[]", possibleString(event.NewSet()))
}
