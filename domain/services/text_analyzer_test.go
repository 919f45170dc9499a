package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTextAnalyzer_TokenizeWords(t *testing.T) {
	ta := NewDefaultTextAnalyzer()

	tokens := ta.TokenizeWords("Users, POSTS & comments!")
	assert.True(t, tokens["user"])
	assert.True(t, tokens["post"])
	assert.True(t, tokens["comment"])
	assert.Len(t, tokens, 3)
}

func TestDefaultTextAnalyzer_IsStopWord(t *testing.T) {
	ta := NewDefaultTextAnalyzer()

	tests := []struct {
		word string
		want bool
	}{
		{"the", true},
		{"create", true},
		{"app", true},
		{"blog", false},
		{"user", false},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, ta.IsStopWord(ta.Normalize(tt.word)))
		})
	}
}

func TestDefaultTextAnalyzer_Normalize(t *testing.T) {
	ta := NewDefaultTextAnalyzer()
	assert.Equal(t, "order", ta.Normalize(" Orders "))
	assert.Equal(t, "", ta.Normalize("  "))
}
