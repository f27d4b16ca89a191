package domain

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCycleTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"valid", "2021012400", time.Date(2021, 1, 24, 0, 0, 0, 0, time.UTC), false},
		{"valid hour", "2022121618", time.Date(2022, 12, 16, 18, 0, 0, 0, time.UTC), false},
		{"too short", "20210124", time.Time{}, true},
		{"too long", "202101240000", time.Time{}, true},
		{"non digits", "2021-01-24", time.Time{}, true},
		{"bad month", "2021130100", time.Time{}, true},
		{"bad day", "2021023000", time.Time{}, true},
		{"bad hour", "2021012425", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCycleTime(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCycleTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCycleInterval(t *testing.T) {
	got, err := ParseCycleInterval("06")
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, got)

	got, err = ParseCycleInterval("24")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, got)

	for _, bad := range []string{"6", "006", "00", "-1", "ab", ""} {
		_, err := ParseCycleInterval(bad)
		assert.ErrorIs(t, err, ErrInvalidInterval, "input %q", bad)
	}
}

func TestCycleRange_LengthAndOrder(t *testing.T) {
	tests := []struct {
		start, end, interval string
		wantLen              int
	}{
		{"2021012400", "2021012800", "24", 5},
		{"2021012400", "2021012400", "24", 1},
		{"2021012400", "2021012412", "06", 3},
		{"2021012400", "2021012423", "06", 4},
		{"2022121600", "2023011800", "24", 34},
		{"2021022800", "2021030100", "01", 25},
	}

	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end+"-"+tt.interval, func(t *testing.T) {
			r, err := ParseCycleWindow(tt.start, tt.end, tt.interval)
			require.NoError(t, err)

			cycles := slices.Collect(r.All())
			require.Len(t, cycles, tt.wantLen)
			assert.Equal(t, tt.wantLen, r.Len())
			assert.Equal(t, int(r.End.Sub(r.Start)/r.Interval)+1, len(cycles))
			assert.Equal(t, r.Start, cycles[0])
			for i := 1; i < len(cycles); i++ {
				assert.True(t, cycles[i].After(cycles[i-1]), "cycle %d not after %d", i, i-1)
				assert.Equal(t, r.Interval, cycles[i].Sub(cycles[i-1]))
			}
			assert.False(t, cycles[len(cycles)-1].After(r.End))
		})
	}
}

func TestCycleRange_EndOnGrid(t *testing.T) {
	r, err := ParseCycleWindow("2021012400", "2021012800", "24")
	require.NoError(t, err)

	cycles := slices.Collect(r.All())
	assert.Equal(t, r.End, cycles[len(cycles)-1])
	assert.Equal(t, "2021012800", FormatCycle(cycles[len(cycles)-1]))
}

func TestCycleRange_Restartable(t *testing.T) {
	r, err := ParseCycleWindow("2021012400", "2021012600", "12")
	require.NoError(t, err)

	first := slices.Collect(r.All())
	second := slices.Collect(r.All())
	assert.Equal(t, first, second)

	// Stopping early must not disturb a later full pass.
	for range r.All() {
		break
	}
	assert.Len(t, slices.Collect(r.All()), 5)
}

func TestParseCycleWindow_Errors(t *testing.T) {
	_, err := ParseCycleWindow("20210124", "2021012800", "24")
	require.ErrorIs(t, err, ErrInvalidCycleTime)
	assert.Contains(t, err.Error(), "start date")

	_, err = ParseCycleWindow("2021012400", "2021012899", "24")
	require.ErrorIs(t, err, ErrInvalidCycleTime)
	assert.Contains(t, err.Error(), "end date")

	_, err = ParseCycleWindow("2021012400", "2021012800", "24H")
	require.ErrorIs(t, err, ErrInvalidInterval)

	_, err = ParseCycleWindow("2021012800", "2021012400", "24")
	require.ErrorIs(t, err, ErrInvalidRange)
}
