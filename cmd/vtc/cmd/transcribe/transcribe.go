package transcribe

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"videotextcut/cmd/vtc/cmd/shared"
	"videotextcut/internal/app/editor"
	"videotextcut/internal/app/export"
	"videotextcut/internal/app/util/files"
)

var (
	xlsxPath   string
	textOut    string
	jsonOut    bool
	timestamps bool
)

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <video|directory>",
	Short: "Transcribe videos and flag their filler words",
	Args:  cobra.ExactArgs(1),
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
		if len(inputs) > 1 && (textOut != "" || xlsxPath != "") {
			return fmt.Errorf("--text-out and --xlsx need a single video, %s holds %d", args[0], len(inputs))
		}

		for _, in := range inputs {
			env.Logger.Info("transcribing", zap.String("path", in.FullPath), zap.Int64("size", in.Size))
			if err := transcribe(cmd, env, in.FullPath); err != nil {
				return err
			}
		}
		return nil
	},
}

func transcribe(cmd *cobra.Command, env *shared.Env, path string) error {
	ctx := cmd.Context()
	s, err := env.Load(ctx, path)
	if err != nil {
		return err
	}
	t := s.Transcript()

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode transcript: %w", err)
		}
	} else {
		fmt.Fprintf(out, "== %s\n", path)
		editor.WriteSegments(out, t)
		editor.WriteStats(out, s.Stats())
	}

	if textOut != "" {
		if err := files.WriteTextFile(textOut, t.TextContent(timestamps)); err != nil {
			return err
		}
		env.Logger.Info("wrote transcript text", zap.String("path", textOut))
	}
	if xlsxPath != "" {
		if err := export.TranscriptToExcel(t, xlsxPath); err != nil {
			return err
		}
		env.Logger.Info("wrote transcript workbook", zap.String("path", xlsxPath))
	}
	return nil
}

func init() {
	Cmd.Flags().StringVarP(&textOut, "text-out", "t", "", "write the transcript as text; edit it and pass it to process --edited")
	Cmd.Flags().BoolVar(&timestamps, "timestamps", true, "prefix each line of --text-out with [start - end]")
	Cmd.Flags().StringVarP(&xlsxPath, "xlsx", "x", "", "write the segments to an Excel workbook")
	Cmd.Flags().BoolVar(&jsonOut, "json", false, "print the transcript as JSON")
}
