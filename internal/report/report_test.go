package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"h1bstats/internal/aggregate"
)

func TestEmit(t *testing.T) {
	t.Parallel()

	rows := []aggregate.Row{
		{Value: "CA", Count: 3, Percentage: 60.0},
		{Value: "NY", Count: 2, Percentage: 40.0},
	}
	got := Emit(rows, StatesHeader)
	want := "TOP_STATES;NUMBER_CERTIFIED_APPLICATIONS;PERCENTAGE\nCA;3;60.0%\nNY;2;40.0%\n"
	require.Equal(t, want, got)

	// Byte-stable across calls.
	assert.Equal(t, got, Emit(rows, StatesHeader))
}

func TestEmit_HeaderOnly(t *testing.T) {
	t.Parallel()

	got := Emit(nil, OccupationsHeader)
	require.Equal(t, OccupationsHeader+"\n", got)
	assert.Equal(t, 1, strings.Count(got, "\n"))
}

func TestFormatPercentage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "60.0%", FormatPercentage(60))
	assert.Equal(t, "33.3%", FormatPercentage(33.3))
	assert.Equal(t, "0.1%", FormatPercentage(0.1))
	assert.Equal(t, "100.0%", FormatPercentage(100))
}

func TestPreview_ContainsRows(t *testing.T) {
	t.Parallel()

	out := Preview([]aggregate.Row{{Value: "CA", Count: 3, Percentage: 60.0}},
		"TOP STATES", "STATE")
	assert.Contains(t, out, "CA")
	assert.Contains(t, out, "60.0%")
}
