package rank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	require.Equal(t, 0, Score(0, 0, 0))
	require.Equal(t, 2, Score(1, 0, 0))
	require.Equal(t, 1, Score(0, 1, 0))
	require.Equal(t, 5, Score(0, 0, 1))
	require.Equal(t, 58, Score(24, 5, 1))
}

func TestOf(t *testing.T) {
	testcases := []struct {
		score int
		name  string
		level int
	}{
		{0, "Rookie", 1},
		{49, "Rookie", 1},
		{50, "Hunter", 2},
		{119, "Hunter", 2},
		{120, "Warrior", 3},
		{220, "Knight", 4},
		{350, "Master", 5},
		{550, "HighMaster", 6},
		{800, "GrandMaster", 7},
		{1100, "Otaku", 8},
		{1450, "OtakuKing", 9},
		{1799, "OtakuKing", 9},
		{1800, "OtakuGod", 10},
		{99999, "OtakuGod", 10},
	}

	for _, tc := range testcases {
		got := Of(tc.score)
		require.Equal(t, tc.name, got.Name, "score %d", tc.score)
		require.Equal(t, tc.level, got.Level, "score %d", tc.score)
	}
}

func TestDetectSingleCrossing(t *testing.T) {
	crossings := Detect(48, 50)
	require.Len(t, crossings, 1)
	require.Equal(t, "Rookie", crossings[0].From.Name)
	require.Equal(t, "Hunter", crossings[0].To.Name)
	require.Equal(t, 2, crossings[0].To.Level)
	require.Equal(t, 50, crossings[0].Score)
}

func TestDetectMultipleCrossings(t *testing.T) {
	crossings := Detect(45, 125)
	require.Len(t, crossings, 2)
	require.Equal(t, "Hunter", crossings[0].To.Name)
	require.Equal(t, "Warrior", crossings[1].To.Name)
	require.Equal(t, 125, crossings[0].Score)
	require.Equal(t, 125, crossings[1].Score)
}

func TestDetectNoCrossing(t *testing.T) {
	require.Empty(t, Detect(10, 20))
	require.Empty(t, Detect(50, 50))
	require.Empty(t, Detect(51, 119))

	// Demotion never crosses.
	require.Empty(t, Detect(120, 40))

	// The terminal rank emits nothing further.
	require.Empty(t, Detect(1800, 99999))
}

func TestNextThreshold(t *testing.T) {
	next, ok := NextThreshold(0)
	require.True(t, ok)
	require.Equal(t, 50, next)

	next, ok = NextThreshold(50)
	require.True(t, ok)
	require.Equal(t, 120, next)

	_, ok = NextThreshold(1800)
	require.False(t, ok)
}
