package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup commands",
	}

	cmd.AddCommand(newBackupExportCmd())
	cmd.AddCommand(newBackupImportCmd())

	return cmd
}

func newBackupExportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all games as a JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			var backup map[string]json.RawMessage
			if err := client.Get("/api/v1/export", &backup); err != nil {
				return err
			}

			data, err := json.MarshalIndent(backup, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode backup: %w", err)
			}

			if outFile == "" {
				fmt.Println(string(data))
				return nil
			}

			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return fmt.Errorf("failed to write backup file: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Exported %d games to %s", len(backup), outFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Write backup to file instead of stdout")

	return cmd
}

func newBackupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the entire store with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read backup file: %w", err)
			}

			var backup map[string]json.RawMessage
			if err := json.Unmarshal(data, &backup); err != nil {
				return fmt.Errorf("backup file is not valid JSON: %w", err)
			}

			if err := client.Post("/api/v1/import", backup, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Imported %d games", len(backup)))
			return nil
		},
	}
}
