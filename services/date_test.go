package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{name: "Valid date", input: "2026-01-27", expected: time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)},
		{name: "Surrounding spaces", input: " 2026-03-01 ", expected: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Day first", input: "27-01-2026", wantErr: true},
		{name: "Invalid day", input: "2026-01-32", wantErr: true},
		{name: "Empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDate("2026-10-17")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 17, got.Day())

	_, err = ParseOptionalDate("17/10/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
