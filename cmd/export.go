package cmd

import (
	"log/slog"
	"os"

	"github.com/household-twins/bookshelf/internal/bookshelf"
	"github.com/household-twins/bookshelf/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		dataDir string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the persisted bookshelf to Parquet, JSONL, or YAML",
		Long: `Exports the current bookshelf to an interchange file.

The output format is inferred from the file extension:
.parquet, .jsonl (or .json), and .yaml (or .yml) are supported.`,
		Example: `  # Export to Parquet
  bookshelf export --output shelf.parquet

  # Export a specific data directory to YAML
  bookshelf export --data-dir /var/lib/bookshelf --output shelf.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataDir == "" {
				dataDir = os.Getenv("BOOKSHELF_DATA_DIR")
			}
			if dataDir == "" {
				dataDir = "data"
			}

			shelf, err := bookshelf.NewStore(dataDir).Get()
			if err != nil {
				return err
			}

			if err := export.WriteFile(output, shelf); err != nil {
				return err
			}

			slog.Info("Bookshelf exported", "output", output, "books", len(shelf.Books))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "Directory for persisted state (default \"data\")")
	cmd.Flags().StringVarP(&output, "output", "o", "bookshelf.jsonl", "Output file path")

	return cmd
}
