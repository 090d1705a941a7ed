package process

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"videotextcut/cmd/vtc/cmd/shared"
	"videotextcut/internal/app/editor"
	"videotextcut/internal/app/util/files"
)

var (
	output      string
	editedPath  string
	deleteIDs   []int
	keepFillers bool
	dryRun      bool
)

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process <video|directory>",
	Short: "Transcribe, drop fillers and deleted segments, and render the result",
	Long: `Process runs the whole pipeline without the interactive editor.

Filler segments are cut unless --keep-fillers is given. Segments can be
removed by id with --delete, or by removing their lines from a text file
written by "vtc transcribe --text-out" and passing it as --edited.

Given a directory, every supported video in it is processed with the
default output name, skipping earlier "_trimmed" results.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := shared.Setup(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		inputs, err := shared.ResolveInputs(args[0], env.Config.SupportedFormats)
		if err != nil {
			return err
		}
		if len(inputs) > 1 && (output != "" || editedPath != "" || len(deleteIDs) > 0) {
			return fmt.Errorf("--output, --edited and --delete need a single video, %s holds %d", args[0], len(inputs))
		}

		for _, in := range inputs {
			env.Logger.Info("processing", zap.String("path", in.FullPath), zap.Int64("size", in.Size))
			if err := process(cmd, env, in.FullPath); err != nil {
				return err
			}
		}
		return nil
	},
}

func process(cmd *cobra.Command, env *shared.Env, path string) error {
	ctx := cmd.Context()
	s, err := env.Load(ctx, path)
	if err != nil {
		return err
	}

	if editedPath != "" {
		edited, err := files.ReadTextFile(editedPath)
		if err != nil {
			return err
		}
		matched := s.ApplyEditedText(edited)
		env.Logger.Info("applied edited text", zap.String("path", editedPath), zap.Int("matched", matched))
	}
	for _, id := range deleteIDs {
		if err := s.Delete(id); err != nil {
			return err
		}
	}
	if keepFillers {
		for _, seg := range s.Transcript().Segments {
			if seg.IsFiller {
				if err := s.MarkFiller(seg.ID, false); err != nil {
					return err
				}
			}
		}
	}

	out := cmd.OutOrStdout()
	if dryRun {
		intervals, err := s.CutList()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "== %s\n", path)
		editor.WritePreview(out, s.Preview())
		editor.WriteCutList(out, intervals, s.Transcript().Duration)
		return nil
	}

	res, err := env.Cut(ctx, s, output)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", res.OutputPath)
	fmt.Fprintf(out, "kept %.2fs in %d intervals, removed %.2fs (%.0f%% of the original remains)\n",
		res.KeptDuration, len(res.Intervals), res.RemovedDuration, res.CompressionRatio*100)
	return nil
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <video>_trimmed.<output_format>)")
	Cmd.Flags().StringVarP(&editedPath, "edited", "e", "", "timestamped text file with unwanted lines removed")
	Cmd.Flags().IntSliceVarP(&deleteIDs, "delete", "d", nil, "segment ids to remove")
	Cmd.Flags().BoolVar(&keepFillers, "keep-fillers", false, "do not cut filler segments")
	Cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the cut list instead of rendering")
}
