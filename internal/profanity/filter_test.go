package profanity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chatrelay/internal/profanity"
)

func TestDefaultList(t *testing.T) {
	f := profanity.NewFilter()

	assert.True(t, f.IsProfane("well damn"))
	assert.False(t, f.IsProfane("a perfectly clean sentence"))
}

func TestCaseAndPunctuation(t *testing.T) {
	f := profanity.NewFilter()

	assert.True(t, f.IsProfane("DAMN!"))
	assert.True(t, f.IsProfane("oh,damn,really"))
	// Substrings of clean words must not match.
	assert.False(t, f.IsProfane("damnation station")) // "damnation" != "damn"
	assert.False(t, f.IsProfane("classic assignment"))
}

func TestExtraWords(t *testing.T) {
	f := profanity.NewFilter("lunch", " Noon ")

	assert.True(t, f.IsProfane("free lunch at noon"))
	assert.True(t, f.IsProfane("NOON"))
	assert.False(t, f.IsProfane("free dinner at eight"))
}

func TestEmptyText(t *testing.T) {
	f := profanity.NewFilter()

	assert.False(t, f.IsProfane(""))
	assert.False(t, f.IsProfane("   "))
}
