package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score commands",
	}

	cmd.AddCommand(newScoreAddCmd())
	cmd.AddCommand(newScoreListCmd())
	cmd.AddCommand(newScoreBestCmd())

	return cmd
}

func newScoreAddCmd() *cobra.Command {
	var playerID string
	var playerName string
	var notes string

	cmd := &cobra.Command{
		Use:   "add <game-id> <value>",
		Short: "Record a score for a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("value must be a number")
			}
			if playerID == "" && playerName == "" {
				return fmt.Errorf("one of --player or --name is required")
			}

			req := map[string]any{
				"player_id":   playerID,
				"player_name": playerName,
				"value":       value,
				"notes":       notes,
			}
			var result Score

			if err := client.Post("/api/v1/games/"+args[0]+"/scores", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&playerID, "player", "p", "", "Existing player ID")
	cmd.Flags().StringVarP(&playerName, "name", "n", "", "Player name (registers a new player)")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional notes (max 100 characters)")

	return cmd
}

func newScoreListCmd() *cobra.Command {
	var sort string
	var playerID string
	var from string
	var to string
	var limit int

	cmd := &cobra.Command{
		Use:   "list <game-id>",
		Short: "List a game's scores, sorted and filtered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if sort != "" {
				query.Set("sort", sort)
			}
			if playerID != "" {
				query.Set("player_id", playerID)
			}
			if from != "" {
				query.Set("from", from)
			}
			if to != "" {
				query.Set("to", to)
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}

			path := "/api/v1/games/" + args[0] + "/scores"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var result []Score
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sort, "sort", "s", "", "Sort order: best, worst, newest, oldest")
	cmd.Flags().StringVarP(&playerID, "player", "p", "", "Filter by player ID")
	cmd.Flags().StringVar(&from, "from", "", "Only scores at or after this RFC 3339 timestamp")
	cmd.Flags().StringVar(&to, "to", "", "Only scores at or before this RFC 3339 timestamp")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of scores")

	return cmd
}

func newScoreBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best <game-id> <player-id>",
		Short: "Show a player's best score in a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Score

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/players/%s/best", args[0], args[1]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard <game-id>",
		Short: "Show a game's leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games/" + args[0] + "/leaderboard"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result Leaderboard
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of entries (default 10)")

	return cmd
}
