package history

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"videotextcut/cmd/vtc/cmd/shared"
	"videotextcut/internal/app"
	"videotextcut/internal/app/export"
)

var (
	limit    int
	xlsxPath string
)

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List past transcriptions and cuts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := shared.LoadConfig()
		if err != nil {
			return err
		}
		dao, cleanup, err := app.InitializeRunDAO(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		runs, err := dao.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if xlsxPath != "" {
			if err := export.RunsToExcel(runs, xlsxPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d runs to %s\n", len(runs), xlsxPath)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tKIND\tSOURCE\tSEGMENTS\tFILLERS\tKEPT\tSTATUS")
		for _, r := range runs {
			status := "ok"
			if r.HasError == 1 {
				status = r.ErrorMessage
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1f/%.1fs\t%s\n",
				r.StartedAt.Local().Format(time.DateTime), r.Kind, r.SourcePath,
				r.SegmentCount, r.FillerCount, r.KeptDuration, r.SourceDuration, status)
		}
		return w.Flush()
	},
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of runs to show")
	Cmd.Flags().StringVarP(&xlsxPath, "xlsx", "x", "", "export the runs to an Excel workbook")
}
