package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case Score:
		o.printScore(v)
	case []Score:
		o.printScores(v)
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Game response type (matches API)
type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsTimeBased bool      `json:"is_time_based"`
	Scores      []Score   `json:"scores"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameList response type
type GameList struct {
	Games       []Game `json:"games"`
	CurrentGame string `json:"current_game,omitempty"`
}

// Score response type
type Score struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Value      float64   `json:"value"`
	IsTime     bool      `json:"is_time"`
	AchievedAt time.Time `json:"achieved_at"`
	Notes      string    `json:"notes,omitempty"`
}

// Player response type
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Player    Player `json:"player"`
	BestScore Score  `json:"best_score"`
}

// Leaderboard response type
type Leaderboard struct {
	GameID  string             `json:"game_id"`
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Error   string `json:"error,omitempty"`
}

func gameKind(timeBased bool) string {
	if timeBased {
		return "time"
	}
	return "score"
}

func formatValue(value float64, isTime bool) string {
	if isTime {
		return fmt.Sprintf("%.2fs", value)
	}
	return fmt.Sprintf("%g", value)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.Name)
	fmt.Printf("ID: %s\n", g.ID)
	fmt.Printf("Type: %s-based\n", gameKind(g.IsTimeBased))
	if g.Description != "" {
		fmt.Printf("Description: %s\n", g.Description)
	}
	fmt.Printf("Scores: %d\n", len(g.Scores))
	fmt.Printf("Updated: %s\n", g.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func (o *Output) printGameList(l GameList) {
	if len(l.Games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range l.Games {
		marker := " "
		if g.ID == l.CurrentGame {
			marker = "*"
		}
		fmt.Printf("%s %s (%s-based, %d scores) - %s\n", marker, g.Name, gameKind(g.IsTimeBased), len(g.Scores), g.ID)
	}
}

func (o *Output) printScore(s Score) {
	fmt.Printf("Score: %s\n", formatValue(s.Value, s.IsTime))
	fmt.Printf("Player: %s (%s)\n", s.PlayerName, s.PlayerID)
	fmt.Printf("Achieved: %s\n", s.AchievedAt.Format("2006-01-02 15:04:05"))
	if s.Notes != "" {
		fmt.Printf("Notes: %s\n", s.Notes)
	}
}

func (o *Output) printScores(scores []Score) {
	if len(scores) == 0 {
		fmt.Println("No scores")
		return
	}
	for _, s := range scores {
		notes := ""
		if s.Notes != "" {
			notes = " - " + s.Notes
		}
		fmt.Printf("%s  %-20s %s%s\n",
			s.AchievedAt.Format("2006-01-02 15:04"),
			s.PlayerName,
			formatValue(s.Value, s.IsTime),
			notes,
		)
	}
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s\n", p.Name)
	fmt.Printf("ID: %s\n", p.ID)
}

func (o *Output) printPlayerList(l PlayerList) {
	if len(l.Players) == 0 {
		fmt.Println("No players")
		return
	}
	for _, p := range l.Players {
		fmt.Printf("%s - %s\n", p.Name, p.ID)
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	if len(l.Entries) == 0 {
		fmt.Println("No scores yet")
		return
	}
	for _, e := range l.Entries {
		fmt.Printf("%2d. %-20s %s\n", e.Rank, e.Player.Name, formatValue(e.BestScore.Value, e.BestScore.IsTime))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Storage: %s\n", h.Storage)
	if h.Error != "" {
		fmt.Printf("Error: %s\n", h.Error)
	}
}
