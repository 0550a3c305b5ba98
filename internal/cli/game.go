package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGameSelectCmd())

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameList

			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameCreateCmd() *cobra.Command {
	var description string
	var timeBased bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":          args[0],
				"description":   description,
				"is_time_based": timeBased,
			}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Game description")
	cmd.Flags().BoolVarP(&timeBased, "time-based", "t", false, "Rank lower values as better (times)")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a game with its full score history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get("/api/v1/games/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game and all its scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/games/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Game %s deleted", args[0]))
			return nil
		},
	}
}

func newGameSelectCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "select [id]",
		Short: "Set or clear the current game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID := ""
			if len(args) > 0 {
				gameID = args[0]
			}
			if !clear && gameID == "" {
				return fmt.Errorf("game id required unless --clear is given")
			}

			if err := client.Put("/api/v1/games/current", map[string]string{"game_id": gameID}); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if gameID == "" {
				out.PrintMessage("Selection cleared")
			} else {
				out.PrintMessage(fmt.Sprintf("Current game set to %s", gameID))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the current game selection")

	return cmd
}
