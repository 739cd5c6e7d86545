package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid", input: "09:00", want: "09:00"},
		{name: "single digit hour", input: "9:05", want: "09:05"},
		{name: "end of day", input: "23:59", want: "23:59"},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "garbage", input: "nine", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	t.Parallel()

	got, err := TimeString("10:30").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:00"), got)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	t.Parallel()

	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:01").IsAfter("10:00"))
	assert.Equal(t, 9, TimeString("09:45").Hour())
	assert.Equal(t, 45, TimeString("09:45").Minute())
}

func TestTimeString_On(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("ICT", 7*3600)
	date := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)

	got := TimeString("09:00").On(date, loc)

	assert.Equal(t, time.Date(2025, 8, 21, 9, 0, 0, 0, loc), got)
	assert.Equal(t, 2, got.UTC().Hour())
}
