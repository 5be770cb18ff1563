package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		nodeID string
		want   string
	}{
		{"plain", "revenue", "revenue"},
		{"hyphen to underscore", "spend-a", "spend_a"},
		{"timestamp suffix stripped", "spend-a-1715112000", "spend_a"},
		{"test suffix stripped", "revenue-test", "revenue"},
		{"test then timestamp", "spend-b-test-99812", "spend_b"},
		{"uppercase lowered", "TV-Spend", "tv_spend"},
		{"digits only id kept", "2024", "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.nodeID))
		})
	}
}

func TestHeuristicMatcher_Match(t *testing.T) {
	m := NewHeuristicMatcher(false)
	columns := []string{"date", "spend_a", "spend_b", "total_revenue"}

	t.Run("exact case-insensitive match wins", func(t *testing.T) {
		col, ok := m.Match("Spend-A", columns)
		assert.True(t, ok)
		assert.Equal(t, "spend_a", col)
	})

	t.Run("node substring of column", func(t *testing.T) {
		col, ok := m.Match("revenue", columns)
		assert.True(t, ok)
		assert.Equal(t, "total_revenue", col)
	})

	t.Run("column substring of node", func(t *testing.T) {
		col, ok := m.Match("weekly-spend-a-extra", []string{"spend_a_extra"})
		assert.True(t, ok)
		assert.Equal(t, "spend_a_extra", col)
	})

	t.Run("timestamp suffix ignored", func(t *testing.T) {
		col, ok := m.Match("spend-b-1715112000", columns)
		assert.True(t, ok)
		assert.Equal(t, "spend_b", col)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := m.Match("podcast-spend", columns)
		assert.False(t, ok)
	})

	t.Run("empty column list", func(t *testing.T) {
		_, ok := m.Match("revenue", nil)
		assert.False(t, ok)
	})
}
