package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	def := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05T10:30", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-03-05T10:30:00Z", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"", def},
		{"yesterday", def},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(parseDate(tt.in, def)))
		})
	}
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "none", orDefault("", "none"))
	assert.Equal(t, "none", orDefault("   ", "none"))
	assert.Equal(t, "1234", orDefault("1234", "none"))
}

func TestLedgerPathEscapes(t *testing.T) {
	assert.Equal(t, "/alice/hisaab", ledgerPath("alice"))
	assert.Equal(t, "/a%20b/hisaab", ledgerPath("a b"))
}
