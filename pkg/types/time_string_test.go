package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString_Normalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "10:00:00", "10:00:00"},
		{"missing seconds", "10:00", "10:00:00"},
		{"single digit minute", "10:0", "10:00:00"},
		{"single digit hour", "9:30", "09:30:00"},
		{"with seconds", "18:45:30", "18:45:30"},
		{"leading whitespace", " 10:00", "10:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewTimeStringFromString_Invalid(t *testing.T) {
	inputs := []string{"", "10", "25:00", "10:61", "10:00:99", "abc", "10:a0", "10:00:00:00"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := NewTimeStringFromString(input)
			assert.ErrorIs(t, err, ErrInvalidTimeString)
		})
	}
}

func TestTimeString_EqualMinute(t *testing.T) {
	// "10:0", "10:00" и "10:00:00" обозначают один и тот же слот
	a, err := NewTimeStringFromString("10:0")
	require.NoError(t, err)
	b, err := NewTimeStringFromString("10:00:00")
	require.NoError(t, err)

	assert.True(t, a.EqualMinute(b))
	assert.True(t, a.EqualMinute(TimeString("10:00:30")))
	assert.False(t, a.EqualMinute(TimeString("10:01:00")))
}

func TestTimeString_HHMM(t *testing.T) {
	assert.Equal(t, "10:00", TimeString("10:00:00").HHMM())
	assert.Equal(t, "09:05", TimeString("09:05:59").HHMM())
}

func TestTimeString_Ordering(t *testing.T) {
	early := TimeString("09:00:00")
	late := TimeString("18:30:00")

	assert.True(t, early.IsBefore(late))
	assert.True(t, late.IsAfter(early))
	assert.False(t, early.IsAfter(late))
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := TimeString("10:00:00")

	end, err := start.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, "10:45:00", end.String())

	crossed, err := start.AddMinutes(125)
	require.NoError(t, err)
	assert.Equal(t, "12:05:00", crossed.String())

	_, err = start.AddMinutes(14 * 60)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:00"))
	assert.Equal(t, "10:00:00", ts.String())

	require.NoError(t, ts.Scan([]byte("16:30:00")))
	assert.Equal(t, "16:30:00", ts.String())

	require.NoError(t, ts.Scan(time.Date(2026, 3, 15, 11, 15, 0, 0, time.UTC)))
	assert.Equal(t, "11:15:00", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}

func TestNewTimeString_FromTime(t *testing.T) {
	ts := NewTimeString(time.Date(2026, 3, 15, 8, 7, 33, 0, time.UTC))
	// Секунды обнуляются, слот задается с точностью до минуты
	assert.Equal(t, "08:07:00", ts.String())
}
