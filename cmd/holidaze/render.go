package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/holidaze/internal/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render [itinerary.json|key]",
		Short: "Render an itinerary as an HTML page",
		Long: `Render a saved itinerary as a standalone HTML page.

The source is a JSON itinerary file or a store key. Without one the
configured trip key is used.

Examples:
  holidaze render --out itinerary.html
  holidaze render data/itinerary.json --out itinerary.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.loadItinerary(cmd.Context(), argOrEmpty(args))
			if err != nil {
				return err
			}
			r, err := render.NewHTMLRenderer()
			if err != nil {
				return err
			}
			if err := r.WriteFile(out, it); err != nil {
				return err
			}
			cmd.Printf("wrote %s (%d items)\n", out, len(it.Items))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "itinerary.html", "output file")
	return cmd
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
