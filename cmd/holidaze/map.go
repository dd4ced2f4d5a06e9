package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/holidaze/internal/tripmap"
)

func newMapCmd(a *app) *cobra.Command {
	var dir, out, title string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render the trip map page from the map dataset",
		Long: `Render an interactive map of the trip from the curated dataset in
locations.json, hotels.json and pois.json.

Examples:
  holidaze map --out map.html
  holidaze map --data ./data --title "Thailand 2026"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir = firstNonEmpty(dir, a.cfg.MapData.Dir)
			ds, err := tripmap.Load(dir)
			if err != nil {
				return err
			}

			m := tripmap.Build(firstNonEmpty(title, a.cfg.MapData.Title), ds)
			r, err := tripmap.NewRenderer()
			if err != nil {
				return err
			}
			if err := r.WriteFile(out, m); err != nil {
				return err
			}
			cmd.Printf("wrote %s (%d stays, %d route segments)\n", out, len(m.Stays), len(m.Route))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "data", "", "map dataset directory (default mapdata.dir)")
	cmd.Flags().StringVarP(&out, "out", "o", "map.html", "output file")
	cmd.Flags().StringVar(&title, "title", "", "page title (default mapdata.title)")
	return cmd
}
