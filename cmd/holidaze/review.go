package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/holidaze/internal/render"
	"github.com/fyrsmithlabs/holidaze/internal/review"
)

func newReviewCmd(a *app) *cobra.Command {
	var key, out string

	cmd := &cobra.Command{
		Use:   "review [itinerary.json|key]",
		Short: "Curate an itinerary interactively",
		Long: `Step through the extracted items, drop false positives and fix the
confirmed/tentative status before the itinerary is shared.

Keys: up/down move, space keeps or drops an item, c flips the status,
enter accepts, q or esc aborts without saving.

Examples:
  holidaze review
  holidaze review thailand-2026 --key thailand-2026-final
  holidaze review trip.json --out curated.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			it, err := a.loadItinerary(ctx, argOrEmpty(args))
			if err != nil {
				return err
			}

			curated, err := review.Run(it)
			if errors.Is(err, review.ErrAborted) {
				cmd.Println("review aborted, nothing saved")
				return nil
			}
			if err != nil {
				return err
			}

			if out != "" {
				if err := render.SaveItinerary(out, curated); err != nil {
					return err
				}
				cmd.Printf("wrote %s (%d items)\n", out, len(curated.Items))
				return nil
			}

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			dest := firstNonEmpty(key, argOrEmpty(args), a.cfg.Trip.Key)
			if isFile(dest) {
				dest = a.cfg.Trip.Key
			}
			if err := st.Save(ctx, dest, curated); err != nil {
				return err
			}
			cmd.Printf("saved %d items as %q\n", len(curated.Items), dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "store key for the curated itinerary (default: the source key)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the curated itinerary to a JSON file instead of the store")
	return cmd
}
