package editor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"videotextcut/internal/app/audio"
	"videotextcut/internal/app/export"
	"videotextcut/internal/app/util/files"
)

// ErrQuit ends the shell loop
var ErrQuit = errors.New("quit")

// SilenceDetector finds silent stretches in the audio track
type SilenceDetector interface {
	DetectSilence(ctx context.Context, filePath string, noise, minDuration float64) ([]audio.Silence, error)
}

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

// Shell is the line-oriented editing loop. Cuts run as background jobs so
// editing can continue while ffmpeg works.
type Shell struct {
	editor   *Editor
	session  *Session
	in       io.Reader
	out      io.Writer
	silences SilenceDetector
	commands map[string]command

	job      *Job[CutResult]
	reported bool
}

func NewShell(e *Editor, s *Session, in io.Reader, out io.Writer) *Shell {
	sh := &Shell{editor: e, session: s, in: in, out: out}
	sh.commands = map[string]command{
		"list":          {usage: "list", help: "show every segment", run: sh.list},
		"show":          {usage: "show N", help: "show one segment with word timings", run: sh.show},
		"delete":        {usage: "delete N [N...]", help: "remove segments from the output", run: sh.deleteSegments},
		"restore":       {usage: "restore N [N...]", help: "bring deleted segments back", run: sh.restore},
		"filler":        {usage: "filler N on|off", help: "set or clear the filler flag", run: sh.filler},
		"text":          {usage: "text N new text", help: "replace the text of a segment", run: sh.text},
		"classify":      {usage: "classify", help: "re-run filler detection", run: sh.classify},
		"strip-fillers": {usage: "strip-fillers", help: "mark every filler segment deleted", run: sh.stripFillers},
		"stats":         {usage: "stats", help: "filler statistics and suggestions", run: sh.stats},
		"silences":      {usage: "silences", help: "list silent stretches found by ffmpeg", run: sh.listSilences},
		"preview":       {usage: "preview", help: "keep/cut verdict per segment", run: sh.preview},
		"cuts":          {usage: "cuts", help: "show the intervals that will be kept", run: sh.cuts},
		"cut":           {usage: "cut [path]", help: "render the edited video in the background", run: sh.cut},
		"status":        {usage: "status", help: "progress of the running cut", run: sh.status},
		"wait":          {usage: "wait", help: "block until the running cut finishes", run: sh.wait},
		"cancel":        {usage: "cancel", help: "stop the running cut", run: sh.cancel},
		"export":        {usage: "export path.txt|path.xlsx", help: "write the transcript", run: sh.export},
		"apply":         {usage: "apply path.txt", help: "apply an edited timestamped text file", run: sh.apply},
		"reset":         {usage: "reset", help: "discard all edits", run: sh.reset},
		"help":          {usage: "help", help: "this list", run: sh.help},
		"quit":          {usage: "quit", help: "leave, waiting for a running cut", run: sh.quit},
	}
	return sh
}

// WithSilenceDetector enables the silences command
func (sh *Shell) WithSilenceDetector(d SilenceDetector) *Shell {
	sh.silences = d
	return sh
}

// Run reads commands until quit or end of input
func (sh *Shell) Run(ctx context.Context) error {
	fmt.Fprintf(sh.out, "%d segments loaded, type help for commands\n", len(sh.session.Transcript().Segments))
	scanner := bufio.NewScanner(sh.in)
	for {
		fmt.Fprint(sh.out, "vtc> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			sh.quit(ctx, nil)
			return scanner.Err()
		}
		if err := sh.Exec(ctx, scanner.Text()); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs one command line
func (sh *Shell) Exec(ctx context.Context, line string) error {
	sh.reportFinishedJob()

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	if name == "exit" || name == "q" {
		name = "quit"
	}
	cmd, ok := sh.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q, type help", fields[0])
	}
	return cmd.run(ctx, fields[1:])
}

func parseIDs(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("segment id required")
	}
	ids := make([]int, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("bad segment id %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (sh *Shell) list(context.Context, []string) error {
	WriteSegments(sh.out, sh.session.Transcript())
	return nil
}

func (sh *Shell) show(_ context.Context, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	for _, id := range ids {
		seg, err := sh.session.Transcript().Segment(id)
		if err != nil {
			return err
		}
		WriteSegment(sh.out, seg)
	}
	return nil
}

func (sh *Shell) deleteSegments(_ context.Context, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := sh.session.Delete(id); err != nil {
			return err
		}
	}
	fmt.Fprintf(sh.out, "deleted %v\n", ids)
	return nil
}

func (sh *Shell) restore(_ context.Context, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := sh.session.Restore(id); err != nil {
			return err
		}
	}
	fmt.Fprintf(sh.out, "restored %v\n", ids)
	return nil
}

func (sh *Shell) filler(_ context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: filler N on|off")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad segment id %q", args[0])
	}
	var on bool
	switch strings.ToLower(args[1]) {
	case "on", "yes", "true":
		on = true
	case "off", "no", "false":
	default:
		return fmt.Errorf("usage: filler N on|off")
	}
	return sh.session.MarkFiller(id, on)
}

func (sh *Shell) text(_ context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: text N new text")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad segment id %q", args[0])
	}
	return sh.session.SetText(id, strings.Join(args[1:], " "))
}

func (sh *Shell) classify(context.Context, []string) error {
	fmt.Fprintf(sh.out, "%d filler segments\n", sh.session.Classify())
	return nil
}

func (sh *Shell) stripFillers(context.Context, []string) error {
	fmt.Fprintf(sh.out, "deleted %d filler segments\n", sh.session.StripFillers())
	return nil
}

func (sh *Shell) stats(context.Context, []string) error {
	WriteStats(sh.out, sh.session.Stats())
	return nil
}

func (sh *Shell) listSilences(ctx context.Context, _ []string) error {
	if sh.silences == nil {
		return fmt.Errorf("silence detection is not available")
	}
	cfg := sh.session.Config()
	found, err := sh.silences.DetectSilence(ctx, sh.session.Transcript().SourcePath, cfg.SilenceThreshold, cfg.MinSegmentDuration)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(sh.out, "no silences found")
	}
	for _, s := range found {
		fmt.Fprintf(sh.out, "  %.2fs - %.2fs (%.2fs)\n", s.Start, s.End, s.End-s.Start)
	}
	return nil
}

func (sh *Shell) preview(context.Context, []string) error {
	WritePreview(sh.out, sh.session.Preview())
	return nil
}

func (sh *Shell) cuts(context.Context, []string) error {
	intervals, err := sh.session.CutList()
	if err != nil {
		return err
	}
	WriteCutList(sh.out, intervals, sh.session.Transcript().Duration)
	return nil
}

func (sh *Shell) cut(ctx context.Context, args []string) error {
	if sh.job != nil && sh.job.Running() {
		return fmt.Errorf("a cut is already running, use status, wait or cancel")
	}
	plan, err := sh.editor.PlanCut(sh.session)
	if err != nil {
		return err
	}
	output := ""
	if len(args) > 0 {
		output = args[0]
	}

	sh.job = StartJob(ctx, func(ctx context.Context, onProgress func(float64)) (CutResult, error) {
		return sh.editor.Render(ctx, plan, output, onProgress)
	})
	sh.reported = false
	fmt.Fprintf(sh.out, "cutting %d intervals (%.2fs kept) in the background\n", len(plan.Intervals), plan.Kept())
	return nil
}

func (sh *Shell) status(context.Context, []string) error {
	if sh.job == nil {
		fmt.Fprintln(sh.out, "no cut started")
		return nil
	}
	if sh.job.Running() {
		fmt.Fprintf(sh.out, "cutting: %.0f%%\n", 100*sh.job.Progress())
		return nil
	}
	return sh.report()
}

func (sh *Shell) wait(context.Context, []string) error {
	if sh.job == nil {
		fmt.Fprintln(sh.out, "no cut started")
		return nil
	}
	sh.job.Wait()
	return sh.report()
}

func (sh *Shell) cancel(context.Context, []string) error {
	if sh.job == nil || !sh.job.Running() {
		fmt.Fprintln(sh.out, "no cut running")
		return nil
	}
	sh.job.Cancel()
	sh.job.Wait()
	sh.reported = true
	fmt.Fprintln(sh.out, "cut cancelled")
	return nil
}

// report prints the outcome of a finished job once
func (sh *Shell) report() error {
	if sh.reported {
		fmt.Fprintln(sh.out, "no cut running")
		return nil
	}
	sh.reported = true
	res, err := sh.job.Wait()
	if err != nil {
		return fmt.Errorf("cut failed: %w", err)
	}
	fmt.Fprintf(sh.out, "wrote %s (kept %.2fs, removed %.2fs)\n", res.OutputPath, res.KeptDuration, res.RemovedDuration)
	return nil
}

func (sh *Shell) reportFinishedJob() {
	if sh.job == nil || sh.reported || sh.job.Running() {
		return
	}
	if err := sh.report(); err != nil {
		fmt.Fprintf(sh.out, "error: %v\n", err)
	}
}

func (sh *Shell) export(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: export path.txt|path.xlsx")
	}
	path := args[0]
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		if err := export.TranscriptToExcel(sh.session.Transcript(), path); err != nil {
			return err
		}
	} else if err := files.WriteTextFile(path, sh.session.Transcript().TextContent(true)); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "wrote %s\n", path)
	return nil
}

func (sh *Shell) apply(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: apply path.txt")
	}
	edited, err := files.ReadTextFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "matched %d segments\n", sh.session.ApplyEditedText(edited))
	return nil
}

func (sh *Shell) reset(context.Context, []string) error {
	sh.session.Reset()
	fmt.Fprintln(sh.out, "all edits discarded")
	return nil
}

func (sh *Shell) help(context.Context, []string) error {
	names := make([]string, 0, len(sh.commands))
	for name := range sh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := sh.commands[name]
		fmt.Fprintf(sh.out, "  %-26s %s\n", c.usage, c.help)
	}
	return nil
}

func (sh *Shell) quit(context.Context, []string) error {
	if sh.job != nil && sh.job.Running() {
		fmt.Fprintln(sh.out, "waiting for the running cut to finish")
		sh.job.Wait()
	}
	sh.reportFinishedJob()
	return ErrQuit
}
