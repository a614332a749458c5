package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected *time.Time
		wantErr  bool
	}{
		"empty is no bound": {},
		"RFC3339": {
			input:    "2019-03-04T10:30:00Z",
			expected: timePtr(time.Date(2019, 3, 4, 10, 30, 0, 0, time.UTC)),
		},
		"day": {
			input:    "2019-03-04",
			expected: timePtr(time.Date(2019, 3, 4, 0, 0, 0, 0, time.Local)),
		},
		"garbage": {
			input:   "yesterday",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			got, err := parseTime(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.expected.Equal(*got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	stdout = &buf
	require.NoError(t, printJSON(map[string]string{"id": "j-1"}))
	assert.Equal(t, "{\n  \"id\": \"j-1\"\n}\n", buf.String())
}

func timePtr(t time.Time) *time.Time {
	return &t
}
