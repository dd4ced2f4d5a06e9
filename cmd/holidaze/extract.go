package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/holidaze/internal/pipeline"
	"github.com/fyrsmithlabs/holidaze/internal/render"
	"github.com/fyrsmithlabs/holidaze/internal/store"
)

type extractOptions struct {
	title         string
	key           string
	confirmedOnly bool
	noSave        bool
	jsonOut       string
	htmlOut       string
	quiet         bool
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [transcript]",
		Short: "Extract an itinerary from a chat export",
		Long: `Extract flights, hotels and transfers from a WhatsApp chat export.

The transcript may be a .txt export or the .zip archive WhatsApp produces.
Evidence messages are scrubbed of phone numbers, e-mail addresses and
booking PINs before the itinerary is saved.

Examples:
  # Extract and save under the configured trip key
  holidaze extract "WhatsApp Chat with Thailand.zip"

  # Include tentative bookings and write the result to files
  holidaze extract chat.txt --confirmed-only=false --json trip.json --html trip.html --no-save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "itinerary title (default trip.title)")
	cmd.Flags().StringVar(&opts.key, "key", "", "store key (default trip.key)")
	cmd.Flags().BoolVar(&opts.confirmedOnly, "confirmed-only", false, "drop items the chat never confirmed (default trip.confirmed_only)")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not save the itinerary to the store")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "also write the itinerary as JSON to this file")
	cmd.Flags().StringVar(&opts.htmlOut, "html", "", "also render the itinerary as HTML to this file")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the itinerary")
	return cmd
}

func runExtract(cmd *cobra.Command, a *app, opts *extractOptions, args []string) error {
	ctx := cmd.Context()

	path, err := a.transcriptPath(args)
	if err != nil {
		return err
	}

	var st store.Store
	if !opts.noSave {
		st, err = a.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	svc, err := a.newPipeline(st)
	if err != nil {
		return err
	}

	confirmedOnly := a.cfg.Trip.ConfirmedOnly
	if cmd.Flags().Changed("confirmed-only") {
		confirmedOnly = opts.confirmedOnly
	}

	runOpts := pipeline.Options{
		Transcript:    path,
		Title:         firstNonEmpty(opts.title, a.cfg.Trip.Title),
		ConfirmedOnly: confirmedOnly,
	}
	if !opts.noSave {
		runOpts.Key = firstNonEmpty(opts.key, a.cfg.Trip.Key)
	}

	res, err := svc.Run(ctx, runOpts)
	if err != nil {
		return err
	}

	if opts.jsonOut != "" {
		if err := render.SaveItinerary(opts.jsonOut, res.Itinerary); err != nil {
			return err
		}
	}
	if opts.htmlOut != "" {
		r, err := render.NewHTMLRenderer()
		if err != nil {
			return err
		}
		if err := r.WriteFile(opts.htmlOut, res.Itinerary); err != nil {
			return err
		}
	}

	if !opts.quiet {
		cmd.Print(render.Terminal(res.Itinerary))
	}
	printSummary(cmd, res)
	return nil
}

func printSummary(cmd *cobra.Command, res *pipeline.Result) {
	cmd.Printf("\n%d messages read (%d system, %d skipped), %d items extracted\n",
		res.Transcript.Messages, res.Transcript.System, res.Transcript.Skipped, len(res.Itinerary.Items))

	reasons := make([]string, 0, len(res.Stats.Discarded))
	for reason := range res.Stats.Discarded {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		cmd.Printf("  discarded %-12s %d\n", reason, res.Stats.Discarded[reason])
	}

	if res.Privacy.Redacted > 0 {
		cmd.Printf("%d personal details hidden in evidence messages\n", res.Privacy.Redacted)
	}
	if res.Saved {
		cmd.Printf("saved as %q\n", res.Key)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
