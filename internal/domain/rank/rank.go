// Package rank centralizes the otaku score law and the rank ladder. The
// stats aggregator, the promotion detector, and backfill all consult this
// table; nothing else may define thresholds.
package rank

import "golang.org/x/exp/slices"

// Score weights of law D1: otaku_score =
// 2*anime_rated + 1*character_rated + 5*reviews.
const (
	AnimeRatingWeight     = 2
	CharacterRatingWeight = 1
	ReviewWeight          = 5
)

// Score derives the otaku score from the primary counters.
func Score(animeRated, characterRated, reviews int) int {
	return AnimeRatingWeight*animeRated +
		CharacterRatingWeight*characterRated +
		ReviewWeight*reviews
}

type Rank struct {
	Name  string
	Level int
}

// thresholds[i] is the minimum score of names[i+1]. A score below
// thresholds[0] is level 1.
var thresholds = []int{50, 120, 220, 350, 550, 800, 1100, 1450, 1800}

var names = []string{
	"Rookie",
	"Hunter",
	"Warrior",
	"Knight",
	"Master",
	"HighMaster",
	"GrandMaster",
	"Otaku",
	"OtakuKing",
	"OtakuGod",
}

// MaxLevel is the terminal rank level; score increases beyond it emit
// nothing.
var MaxLevel = len(names)

// Of maps a score to its rank. Piecewise constant and monotone
// non-decreasing in score.
func Of(score int) Rank {
	level, _ := slices.BinarySearch(thresholds, score+1)
	return Rank{Name: names[level], Level: level + 1}
}

// Crossing describes one threshold passed by a score change. Score is the
// cumulative score after the event that caused the crossing, which is what
// promotion metadata records.
type Crossing struct {
	From  Rank
	To    Rank
	Score int
}

// Detect returns one crossing per threshold t with oldScore < t <= newScore,
// in ascending threshold order. A demotion (newScore < oldScore) crosses
// nothing: promotion is a historical event and is never retracted.
func Detect(oldScore, newScore int) []Crossing {
	if newScore <= oldScore {
		return nil
	}

	var crossings []Crossing
	for i, t := range thresholds {
		if oldScore < t && t <= newScore {
			crossings = append(crossings, Crossing{
				From:  Rank{Name: names[i], Level: i + 1},
				To:    Rank{Name: names[i+1], Level: i + 2},
				Score: newScore,
			})
		}
	}

	return crossings
}

// NextThreshold returns the minimum score of the next rank, or ok=false at
// the terminal rank.
func NextThreshold(score int) (int, bool) {
	for _, t := range thresholds {
		if score < t {
			return t, true
		}
	}

	return 0, false
}
