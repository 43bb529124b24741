package deadline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2024-06-15T12:30:00", want: time.Date(2024, 6, 15, 12, 30, 0, 0, loc)},
		{input: "2024-06-15T12:30", want: time.Date(2024, 6, 15, 12, 30, 0, 0, loc)},
		{input: "2024-06-15 12:30:00.5", want: time.Date(2024, 6, 15, 12, 30, 0, 500000000, loc)},
		{input: "2024-06-15 12:30", want: time.Date(2024, 6, 15, 12, 30, 0, 0, loc)},
		{input: "2024-06-15", want: time.Date(2024, 6, 15, 0, 0, 0, 0, loc)},
		{input: "  2024-06-15T12:30:00  ", want: time.Date(2024, 6, 15, 12, 30, 0, 0, loc)},
		{input: "2024-06-15T12:30:00Z", want: time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)},
		{input: "", wantErr: true},
		{input: "not-a-date", wantErr: true},
		{input: "2024-13-45", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input, loc)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnparseable))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseInput(t *testing.T) {
	// Fixed reference time: Wednesday, January 15, 2025, 10:00:00
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("date only defaults to noon", func(t *testing.T) {
		got, err := ParseInput("2025-01-20", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC), got)
	})

	t.Run("iso timestamp is kept", func(t *testing.T) {
		got, err := ParseInput("2025-01-20T08:15", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 20, 8, 15, 0, 0, time.UTC), got)
	})

	t.Run("tomorrow", func(t *testing.T) {
		got, err := ParseInput("tomorrow", now)
		require.NoError(t, err)
		assert.Equal(t, 2025, got.Year())
		assert.Equal(t, time.January, got.Month())
		assert.Equal(t, 16, got.Day())
	})

	t.Run("next monday", func(t *testing.T) {
		got, err := ParseInput("next monday", now)
		require.NoError(t, err)
		assert.Equal(t, time.Monday, got.Weekday())
		assert.True(t, got.After(now))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseInput("   ", now)
		assert.ErrorIs(t, err, ErrUnparseable)
	})

	t.Run("nonsense", func(t *testing.T) {
		_, err := ParseInput("qwzx", now)
		assert.Error(t, err)
	})
}

func TestFormatRoundTrip(t *testing.T) {
	in := time.Date(2024, 6, 15, 9, 5, 7, 0, time.UTC)
	s := Format(in)
	assert.Equal(t, "2024-06-15T09:05:07", s)

	out, err := Parse(s, time.UTC)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestSortKey(t *testing.T) {
	_, ok := SortKey(nil, time.UTC)
	assert.False(t, ok)

	_, ok = SortKey(strPtr("garbage"), time.UTC)
	assert.False(t, ok)

	got, ok := SortKey(strPtr("2024-06-15T09:00:00"), time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), got)
}
