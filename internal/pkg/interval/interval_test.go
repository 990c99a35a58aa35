package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", New(at(9, 0), at(10, 0)), New(at(11, 0), at(12, 0)), false},
		{"touching endpoints", New(at(9, 0), at(10, 0)), New(at(10, 0), at(11, 0)), false},
		{"partial", New(at(9, 0), at(10, 30)), New(at(10, 0), at(11, 0)), true},
		{"contained", New(at(9, 0), at(12, 0)), New(at(10, 0), at(11, 0)), true},
		{"identical", New(at(9, 0), at(10, 0)), New(at(9, 0), at(10, 0)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Symmetric.
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestOverlapsEmptyInterval(t *testing.T) {
	empty := New(at(10, 0), at(10, 0))
	assert.False(t, empty.Overlaps(empty))
	assert.False(t, Overlaps(at(10, 0), at(10, 0), at(9, 0), at(11, 0)))
}

func TestSubtract(t *testing.T) {
	window := New(at(9, 0), at(18, 0))

	tests := []struct {
		name     string
		occupied []Interval
		want     []Interval
	}{
		{
			name:     "nothing occupied",
			occupied: nil,
			want:     []Interval{window},
		},
		{
			name:     "whole window occupied",
			occupied: []Interval{window},
			want:     nil,
		},
		{
			name:     "booking in the middle",
			occupied: []Interval{New(at(12, 0), at(13, 30))},
			want:     []Interval{New(at(9, 0), at(12, 0)), New(at(13, 30), at(18, 0))},
		},
		{
			name:     "unsorted and overlapping each other",
			occupied: []Interval{New(at(14, 0), at(16, 0)), New(at(10, 0), at(12, 0)), New(at(11, 0), at(14, 30))},
			want:     []Interval{New(at(9, 0), at(10, 0)), New(at(16, 0), at(18, 0))},
		},
		{
			name:     "partially outside the window",
			occupied: []Interval{New(at(7, 0), at(9, 30)), New(at(17, 0), at(20, 0))},
			want:     []Interval{New(at(9, 30), at(17, 0))},
		},
		{
			name:     "fully outside the window",
			occupied: []Interval{New(at(6, 0), at(8, 0)), New(at(18, 0), at(19, 0))},
			want:     []Interval{window},
		},
		{
			name:     "covering more than the window",
			occupied: []Interval{New(at(8, 0), at(19, 0))},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subtract(window, tt.occupied))
		})
	}
}

func TestSubtractDoesNotReorderInput(t *testing.T) {
	occupied := []Interval{New(at(14, 0), at(15, 0)), New(at(10, 0), at(11, 0))}
	Subtract(New(at(9, 0), at(18, 0)), occupied)
	assert.Equal(t, at(14, 0), occupied[0].Start)
}
