package datekey

import (
	"testing"
	"time"

	"github.com/colonyops/calm/internal/core/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestFromTime(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)

	assert.Equal(t, "2024-03-10", FromTime(time.Date(2024, 3, 10, 0, 0, 0, 0, loc)))
	assert.Equal(t, "2024-03-10", FromTime(time.Date(2024, 3, 10, 23, 59, 59, 0, loc)))
	assert.Equal(t, "2024-01-01", FromTime(time.Date(2024, 1, 1, 7, 0, 0, 0, loc)))
}

func TestAddDays(t *testing.T) {
	base := time.Date(2024, 2, 28, 3, 15, 0, 0, time.UTC)

	got := AddDays(base, 1)
	assert.Equal(t, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "2024-03-01", FromTime(AddDays(base, 2)))
	assert.Equal(t, "2024-02-27", FromTime(AddDays(base, -1)))
}

func TestAddDays_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone database not available")
	}

	// 2024-03-10 is the spring-forward day in New York.
	base := time.Date(2024, 3, 9, 23, 30, 0, 0, loc)
	assert.Equal(t, "2024-03-10", FromTime(AddDays(base, 1)))
	assert.Equal(t, "2024-03-11", FromTime(AddDays(base, 2)))

	a := time.Date(2024, 3, 11, 0, 30, 0, 0, loc)
	b := time.Date(2024, 3, 10, 0, 30, 0, 0, loc)
	assert.Equal(t, 1, DayDifference(a, b), "23 hour day must still count as one day")
}

func TestAddKeyDays(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want string
	}{
		{"2024-03-10", 1, "2024-03-11"},
		{"2024-03-10", -1, "2024-03-09"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2023-03-01", -1, "2023-02-28"},
		{"2024-03-10", 0, "2024-03-10"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := AddKeyDays(tt.key, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := AddKeyDays("nope", 1)
	assert.True(t, validate.IsValidation(err))
}

func TestParse(t *testing.T) {
	got, err := Parse("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Hour())
	assert.Equal(t, time.Local, got.Location())
	assert.Equal(t, "2024-03-10", FromTime(got))

	start, err := StartOf("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, "2024-03-10", FromTime(start))
}

func TestDayDifference(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"same day", "2024-03-10", "2024-03-10", 0},
		{"one day", "2024-03-11", "2024-03-10", 1},
		{"across month", "2024-03-02", "2024-02-28", 3},
		{"across year", "2025-01-01", "2024-12-30", 2},
		{"negative clamps", "2024-03-10", "2024-03-12", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyDayDifference(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2024-03-10", "2024-03-10", false},
		{"  2024-03-10\n", "2024-03-10", false},
		{"2024-3-10", "", true},
		{"20240310", "", true},
		{"2024-02-30", "", true},
		{"2024-13-01", "", true},
		{"", "", true},
		{"tomorrow", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, validate.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, Valid(got))
		})
	}
}

func TestNormalizeDueDate(t *testing.T) {
	rfc := "2024-03-10T15:00:00Z"
	rfcTime, err := time.Parse(time.RFC3339, rfc)
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   *string
		want    *string
		wantErr bool
	}{
		{name: "nil", input: nil, want: nil},
		{name: "blank", input: ptr("  "), want: nil},
		{name: "key", input: ptr("2024-03-10"), want: ptr("2024-03-10")},
		{name: "key trimmed", input: ptr(" 2024-03-10 "), want: ptr("2024-03-10")},
		{name: "local datetime", input: ptr("2024-03-10T08:30:00"), want: ptr("2024-03-10")},
		{name: "slashes", input: ptr("2024/03/10"), want: ptr("2024-03-10")},
		{name: "us format", input: ptr("03/10/2024"), want: ptr("2024-03-10")},
		{name: "month name", input: ptr("Mar 10, 2024"), want: ptr("2024-03-10")},
		{name: "long month name", input: ptr("March 10, 2024"), want: ptr("2024-03-10")},
		{name: "rfc3339", input: ptr(rfc), want: ptr(FromTime(rfcTime.Local()))},
		{name: "impossible key", input: ptr("2024-02-31"), wantErr: true},
		{name: "garbage", input: ptr("someday"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDueDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, validate.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
