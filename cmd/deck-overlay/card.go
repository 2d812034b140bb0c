package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/codyseavey/deck-overlay/internal/card"
	"github.com/codyseavey/deck-overlay/internal/database"
	"github.com/codyseavey/deck-overlay/internal/overlay"
	"github.com/codyseavey/deck-overlay/internal/services"
)

var (
	styleNoun   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleAction = lipgloss.NewStyle().Bold(true)
	styleDim    = lipgloss.NewStyle().Faint(true)
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func newCardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "card <id>",
		Short: "Show a card as resolved for the configured languages",
		Args:  cobra.ExactArgs(1),
		RunE:  runCard,
	}
}

func runCard(cmd *cobra.Command, args []string) error {
	db, err := database.Initialize(cfg.Storage.DatabasePath, log, cfg.Logging.Debug)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}

	resolver := card.NewResolver(services.NewCardDatabaseService(db, log), card.LanguagesFrom(cfg.Display), log)
	rec := resolver.Resolve(args[0])
	if !rec.IsResolved() {
		return fmt.Errorf("card %q not found", args[0])
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderCard(rec))
	return nil
}

func renderCard(rec *card.Record) string {
	name := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(overlay.RarityColor(rec.Rarity()))).
		Render(rec.LocalizedName())

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", name, styleDim.Render("("+rec.ID()+")"))
	fmt.Fprintf(&b, "%s  %s  %s\n",
		styleNoun.Render(rec.PlayerClassOrNeutral()),
		rec.RaceOrType(),
		styleDim.Render(fmt.Sprintf("cost %d", rec.Cost())),
	)
	if text := rec.Text(); text != "" {
		fmt.Fprintf(&b, "%s\n", text)
	}
	if alt := rec.AlternativeLanguageText(); alt != "" {
		fmt.Fprintf(&b, "%s\n", styleDim.Render(alt))
	}
	if ov := rec.Overload(); ov >= 0 {
		fmt.Fprintf(&b, "overload %d\n", ov)
	}
	fmt.Fprintf(&b, "%s %d", styleDim.Render("dust"), rec.DustCost())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(b.String())
}
