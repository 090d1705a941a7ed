package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"videotextcut/cmd/vtc/cmd/config"
	"videotextcut/cmd/vtc/cmd/doctor"
	"videotextcut/cmd/vtc/cmd/edit"
	"videotextcut/cmd/vtc/cmd/history"
	"videotextcut/cmd/vtc/cmd/process"
	"videotextcut/cmd/vtc/cmd/shared"
	"videotextcut/cmd/vtc/cmd/transcribe"
	"videotextcut/cmd/vtc/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vtc",
	Short: "Cut videos by editing their transcript",
	Long: `Cut videos by editing their transcript.

- Transcribe a video with whisper.cpp or the OpenAI API
- Flag filler words such as "um" and "you know"
- Delete segments from the transcript, interactively or from an edited text file
- Render the remaining parts into a new video with ffmpeg`,
	SilenceUsage: true,
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(process.Cmd)
	rootCmd.AddCommand(edit.Cmd)
	rootCmd.AddCommand(history.Cmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(doctor.Cmd)
	rootCmd.AddCommand(version.Cmd)

	shared.BindFlags(rootCmd)
}
