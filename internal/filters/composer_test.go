package filters

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Active
	}{
		{
			name: "empty input",
			in:   Input{},
			want: Active{},
		},
		{
			name: "start date without time stays a bare date",
			in:   Input{StartDate: "2024-06-01"},
			want: Active{Start: "2024-06-01"},
		},
		{
			name: "start date with time",
			in:   Input{StartDate: "2024-06-01", StartTime: "18:30"},
			want: Active{Start: "2024-06-01T18:30"},
		},
		{
			name: "end date defaults to end of day",
			in:   Input{StartDate: "2024-06-01", EndDate: "2024-06-01"},
			want: Active{Start: "2024-06-01", End: "2024-06-01T23:59"},
		},
		{
			name: "end date with explicit time",
			in:   Input{EndDate: "2024-06-02", EndTime: "08:00"},
			want: Active{End: "2024-06-02T08:00"},
		},
		{
			name: "time without date is ignored",
			in:   Input{StartTime: "10:00", EndTime: "11:00"},
			want: Active{},
		},
		{
			name: "same instant is allowed",
			in:   Input{StartDate: "2024-06-01", StartTime: "10:00", EndDate: "2024-06-01", EndTime: "10:00"},
			want: Active{Start: "2024-06-01T10:00", End: "2024-06-01T10:00"},
		},
		{
			name: "prices are trimmed",
			in:   Input{MinPrice: " 10 ", MaxPrice: "25.50"},
			want: Active{MinPrice: "10", MaxPrice: "25.50"},
		},
		{
			name: "explicit empty term is kept",
			in:   Input{SearchTerm: Term("")},
			want: Active{SearchTerm: Term("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		code ValidationCode
	}{
		{
			name: "end date before start date",
			in:   Input{StartDate: "2024-06-02", EndDate: "2024-06-01"},
			code: InvertedRange,
		},
		{
			name: "end time before start time on the same day",
			in:   Input{StartDate: "2024-06-01", StartTime: "20:00", EndDate: "2024-06-01", EndTime: "19:59"},
			code: InvertedRange,
		},
		{
			name: "malformed date",
			in:   Input{StartDate: "06/01/2024"},
			code: MalformedDate,
		},
		{
			name: "malformed time",
			in:   Input{EndDate: "2024-06-01", EndTime: "25:00"},
			code: MalformedTime,
		},
		{
			name: "negative price",
			in:   Input{MinPrice: "-5"},
			code: InvalidPrice,
		},
		{
			name: "non numeric price",
			in:   Input{MaxPrice: "cheap"},
			code: InvalidPrice,
		},
		{
			name: "signed price",
			in:   Input{MinPrice: "+5"},
			code: InvalidPrice,
		},
		{
			name: "negative zero price",
			in:   Input{MinPrice: "-0"},
			code: InvalidPrice,
		},
		{
			name: "exponent price",
			in:   Input{MaxPrice: "1e3"},
			code: InvalidPrice,
		},
		{
			name: "hex float price",
			in:   Input{MaxPrice: "0x1p4"},
			code: InvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.code, verr.Code)
		})
	}
}

func TestNormalizeInvertedRangeMatchesSentinel(t *testing.T) {
	_, err := Normalize(Input{StartDate: "2024-06-10", EndDate: "2024-06-01"})
	assert.ErrorIs(t, err, ErrInvertedRange)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []Input{
		{},
		{SearchTerm: Term("jazz")},
		{SearchTerm: Term("")},
		{StartDate: "2024-06-01"},
		{StartDate: "2024-06-01", StartTime: "09:15", EndDate: "2024-06-03"},
		{EndDate: "2024-06-01", EndTime: "12:00", MinPrice: "0", MaxPrice: "99.99"},
	}

	for _, in := range inputs {
		once, err := Normalize(in)
		require.NoError(t, err)

		twice, err := Normalize(once.Input())
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestHasActiveConstraints(t *testing.T) {
	assert.False(t, HasActiveConstraints(Active{}))
	assert.False(t, HasActiveConstraints(Active{SearchTerm: Term("")}))
	assert.True(t, HasActiveConstraints(Active{SearchTerm: Term("rock")}))
	assert.True(t, HasActiveConstraints(Active{Start: "2024-06-01"}))
	assert.True(t, HasActiveConstraints(Active{End: "2024-06-01T23:59"}))
	assert.True(t, HasActiveConstraints(Active{MinPrice: "0"}))
	assert.True(t, HasActiveConstraints(Active{MaxPrice: "10"}))
}

func TestPlanFetchWithoutConstraintsListsAll(t *testing.T) {
	active, err := Normalize(Input{})
	require.NoError(t, err)

	plan := PlanFetch(active)
	assert.Equal(t, ModeListAll, plan.Mode)
	assert.Nil(t, plan.Query)
}

func TestPlanFetchSearchQuery(t *testing.T) {
	active, err := Normalize(Input{SearchTerm: Term("jazz"), MinPrice: "10"})
	require.NoError(t, err)

	plan := PlanFetch(active)
	assert.Equal(t, ModeSearch, plan.Mode)
	assert.Equal(t, url.Values{"q": {"jazz"}, "minPrice": {"10"}}, plan.Query)
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		active Active
		want   url.Values
	}{
		{
			name:   "untouched term is omitted",
			active: Active{MaxPrice: "50"},
			want:   url.Values{"maxPrice": {"50"}},
		},
		{
			name:   "explicit empty term is forwarded",
			active: Active{SearchTerm: Term(""), Start: "2024-06-01"},
			want:   url.Values{"q": {""}, "startDate": {"2024-06-01"}},
		},
		{
			name: "all fields",
			active: Active{
				SearchTerm: Term("fest"),
				Start:      "2024-06-01T10:00",
				End:        "2024-06-02T23:59",
				MinPrice:   "5",
				MaxPrice:   "20",
			},
			want: url.Values{
				"q":         {"fest"},
				"startDate": {"2024-06-01T10:00"},
				"endDate":   {"2024-06-02T23:59"},
				"minPrice":  {"5"},
				"maxPrice":  {"20"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.active))
		})
	}
}
