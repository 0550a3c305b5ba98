package ranking

import (
	"fmt"
	"sort"
	"time"

	"github.com/tallyhq/scorekeep/internal/model"
)

// SortOrder selects how a derived score view is ordered
type SortOrder string

const (
	// BestFirst orders by value in the game's winning direction:
	// ascending for time-based games, descending otherwise
	BestFirst SortOrder = "best"
	// WorstFirst is the exact inverse of BestFirst
	WorstFirst SortOrder = "worst"
	// NewestFirst orders by achievement time, descending
	NewestFirst SortOrder = "newest"
	// OldestFirst orders by achievement time, ascending
	OldestFirst SortOrder = "oldest"
)

// DefaultLeaderboardLimit caps leaderboard entries when no limit is given
const DefaultLeaderboardLimit = 10

// ParseSortOrder validates a sort order string, defaulting to BestFirst
// when empty
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return BestFirst, nil
	case BestFirst, WorstFirst, NewestFirst, OldestFirst:
		return SortOrder(s), nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Filter narrows a derived score view. The zero value matches everything.
type Filter struct {
	// PlayerID restricts to scores by one player when non-empty
	PlayerID model.PlayerID

	// From/To bound AchievedAt inclusively when non-zero
	From time.Time
	To   time.Time

	// Limit caps the result count when positive; applied after sorting
	Limit int
}

func (f Filter) matches(score *model.Score) bool {
	if f.PlayerID != "" && score.PlayerID != f.PlayerID {
		return false
	}
	if !f.From.IsZero() && score.AchievedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && score.AchievedAt.After(f.To) {
		return false
	}
	return true
}

// betterValue reports whether a beats b in the given ranking direction.
// Exact ties are not "better", which keeps first-encountered stability.
func betterValue(a, b float64, timeBased bool) bool {
	if timeBased {
		return a < b
	}
	return a > b
}

// Scores returns a new filtered and sorted view over a game's scores.
// The stored slice is never mutated or reordered; sorting is stable so
// equal values keep submission order.
func Scores(game *model.Game, order SortOrder, filter Filter) []model.Score {
	view := make([]model.Score, 0, len(game.Scores))
	for i := range game.Scores {
		if filter.matches(&game.Scores[i]) {
			view = append(view, game.Scores[i])
		}
	}

	switch order {
	case BestFirst:
		sort.SliceStable(view, func(i, j int) bool {
			return betterValue(view[i].Value, view[j].Value, game.IsTimeBased)
		})
	case WorstFirst:
		sort.SliceStable(view, func(i, j int) bool {
			return betterValue(view[j].Value, view[i].Value, game.IsTimeBased)
		})
	case NewestFirst:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].AchievedAt.After(view[j].AchievedAt)
		})
	case OldestFirst:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].AchievedAt.Before(view[j].AchievedAt)
		})
	}

	// The count cap applies last, after sorting
	if filter.Limit > 0 && len(view) > filter.Limit {
		view = view[:filter.Limit]
	}
	return view
}

// BestScore returns the player's single best score in the game: minimum
// value for time-based games, maximum otherwise. On an exact tie the
// score recorded first wins. The second return is false when the player
// has no scores.
func BestScore(game *model.Game, playerID model.PlayerID) (model.Score, bool) {
	var best model.Score
	found := false
	for i := range game.Scores {
		score := &game.Scores[i]
		if score.PlayerID != playerID {
			continue
		}
		if !found || betterValue(score.Value, best.Value, game.IsTimeBased) {
			best = *score
			found = true
		}
	}
	return best, found
}

// Leaderboard builds the per-game ranked list: one entry per player
// holding their best score, ordered in the game's winning direction and
// truncated to limit. Players without scores in the game are excluded.
func Leaderboard(game *model.Game, players []model.Player, limit int) []model.LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	entries := make([]model.LeaderboardEntry, 0, len(players))
	for _, player := range players {
		best, ok := BestScore(game, player.ID)
		if !ok {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			Player:    player,
			BestScore: best,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return betterValue(entries[i].BestScore.Value, entries[j].BestScore.Value, game.IsTimeBased)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
