package edit

import (
	"errors"

	"github.com/spf13/cobra"
	"videotextcut/cmd/vtc/cmd/shared"
	"videotextcut/internal/app/audio"
	"videotextcut/internal/app/editor"
)

// Cmd represents the edit command
var Cmd = &cobra.Command{
	Use:   "edit <video>",
	Short: "Edit a transcript interactively and cut the video from it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := shared.Setup(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		s, err := env.Load(ctx, args[0])
		if err != nil {
			return err
		}

		ff := env.Config.FFmpeg
		tools := audio.NewTools(ff.FFmpegPath, ff.FFprobePath, env.Logger)

		sh := editor.NewShell(env.Editor, s, cmd.InOrStdin(), cmd.OutOrStdout()).WithSilenceDetector(tools)
		if err := sh.Run(ctx); err != nil && !errors.Is(err, editor.ErrQuit) {
			return err
		}
		return nil
	},
}
