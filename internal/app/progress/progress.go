// Package progress draws terminal progress bars for long-running transcribe and splice calls.
package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ticks is the resolution of a fraction-driven bar
const ticks = 1000

type Config struct {
	Enabled bool
	Writer  io.Writer
}

type Manager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

// Bar is safe to use when disabled; every method is then a no-op
type Bar struct {
	bar     *mpb.Bar
	enabled bool
	mu      sync.Mutex
	last    int64
}

func NewManager(config Config) *Manager {
	if !config.Enabled {
		return &Manager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithWaitGroup(&sync.WaitGroup{}),
	)

	return &Manager{
		container: container,
		enabled:   true,
	}
}

// NewBar adds a bar driven by fractions in [0, 1]
func (pm *Manager) NewBar(description string) *Bar {
	if !pm.enabled || pm.container == nil {
		return &Bar{enabled: false}
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	bar := pm.container.AddBar(ticks,
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ ",
			),
		),
	)

	return &Bar{
		bar:     bar,
		enabled: true,
	}
}

// Set moves the bar to fraction. Values that would move it backwards are ignored.
func (pb *Bar) Set(fraction float64) {
	if !pb.enabled || pb.bar == nil {
		return
	}
	current := int64(clamp(fraction) * ticks)

	pb.mu.Lock()
	defer pb.mu.Unlock()
	if current <= pb.last {
		return
	}
	pb.last = current
	pb.bar.EwmaSetCurrent(current, 120*time.Millisecond)
}

// Callback adapts the bar to the onProgress hooks of the transcriber and splicer
func (pb *Bar) Callback() func(float64) {
	return pb.Set
}

func (pb *Bar) Complete() {
	if pb.enabled && pb.bar != nil {
		pb.bar.SetTotal(-1, true)
	}
}

// Abort removes an unfinished bar from the screen
func (pb *Bar) Abort() {
	if pb.enabled && pb.bar != nil {
		pb.bar.Abort(true)
	}
}

func (pm *Manager) Wait() {
	if pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}

func (pm *Manager) Shutdown() {
	if pm.enabled && pm.container != nil {
		pm.container.Shutdown()
	}
}

func clamp(f float64) float64 {
	switch {
	case f < 0 || f != f:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr)
}
