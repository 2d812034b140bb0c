package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codyseavey/deck-overlay/internal/database"
	"github.com/codyseavey/deck-overlay/internal/services"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <cards.json>",
		Short: "Import card data into the local card database",
		Long: `Import a card data file into the local card database.

The file is a JSON array of cards. Localized fields may be either a map of
locale to string or a plain string, which is read as enUS. Existing cards and
localizations are updated in place.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := database.Initialize(cfg.Storage.DatabasePath, log, cfg.Logging.Debug)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}

	result, err := services.NewCardImportService(db, log).ImportFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", styleAction.Render("imported"), styleNoun.Render(args[0]))
	fmt.Fprintf(out, "  cards:         %d\n", result.Cards)
	fmt.Fprintf(out, "  localizations: %d\n", result.Localizations)
	fmt.Fprintf(out, "  skipped:       %d\n", result.Skipped)
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  %s %s\n", styleWarn.Render("warning:"), w)
	}
	return nil
}
