package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "pre-merge pass", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SessionName(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "SessionName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestSessionID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid id", "20260314090000-a1b2c3d4", false},
		{"empty string", "", true},
		{"no suffix", "20260314090000", true},
		{"short timestamp", "2026-a1b2c3d4", true},
		{"letters in timestamp", "2026031409000x-a1b2c3d4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SessionID(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "SessionID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestSeverity(t *testing.T) {
	for _, valid := range []string{"i", "w", "c", "info", "warning", "critical"} {
		assert.NoError(t, Severity(valid), valid)
	}
	for _, invalid := range []string{"", "blocker", "INFO"} {
		assert.Error(t, Severity(invalid), invalid)
	}
}

func TestTag(t *testing.T) {
	assert.NoError(t, Tag("security"))
	assert.NoError(t, Tag("error-handling"))
	assert.Error(t, Tag(""))
	assert.Error(t, Tag("  "))
	assert.Error(t, Tag("two words"))
}

func TestFieldWrappers(t *testing.T) {
	assert.NoError(t, SessionNameField("name", "ok"))
	assert.Error(t, SessionNameField("name", ""))
	assert.Error(t, SessionIDField("session_id", "nope"))
	assert.NoError(t, SeverityField("severity", "w"))
}
