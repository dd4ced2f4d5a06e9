package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
	"github.com/fyrsmithlabs/holidaze/internal/render"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		asJSON     bool
		byCategory bool
		list       bool
	)

	cmd := &cobra.Command{
		Use:   "show [itinerary.json|key]",
		Short: "Print an itinerary",
		Long: `Print a saved itinerary to the terminal.

Examples:
  holidaze show
  holidaze show thailand-2026 --by-category
  holidaze show --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if list {
				st, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				keys, err := st.List(ctx)
				if err != nil {
					return err
				}
				for _, k := range keys {
					cmd.Println(k)
				}
				return nil
			}

			it, err := a.loadItinerary(ctx, argOrEmpty(args))
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				data, err := json.MarshalIndent(it, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding itinerary: %w", err)
				}
				cmd.Println(string(data))
			case byCategory:
				cmd.Print(renderByCategory(it))
			default:
				cmd.Print(render.Terminal(it))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().BoolVar(&byCategory, "by-category", false, "group items by category")
	cmd.Flags().BoolVar(&list, "list", false, "list stored itinerary keys")
	return cmd
}

func renderByCategory(it *itinerary.Itinerary) string {
	var b strings.Builder
	for _, g := range it.ItemsByCategory() {
		fmt.Fprintf(&b, "%s %s (%d)\n", g.Category.Icon(), g.Category.Label(), len(g.Items))
		for _, item := range g.Items {
			b.WriteString(render.TerminalItem(item) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
