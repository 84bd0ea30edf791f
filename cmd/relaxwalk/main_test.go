package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("walk", "walk"))
	assert.Equal(t, 1, levenshteinDistance("walk", "walks"))
	assert.Equal(t, 2, levenshteinDistance("wlak", "walk"))
	assert.Equal(t, 4, levenshteinDistance("", "walk"))
	assert.Equal(t, 4, levenshteinDistance("walk", ""))
}

func TestSuggestCommand(t *testing.T) {
	assert.Equal(t, "walk", suggestCommand("walks"))
	assert.Equal(t, "validate", suggestCommand("validat"))
	assert.Equal(t, "convert", suggestCommand("covnert"))
	assert.Equal(t, "", suggestCommand("zzzzzzzzzz"))
}
