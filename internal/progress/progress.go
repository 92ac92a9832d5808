// Package progress renders live search feedback on the terminal.
package progress

import (
	"io"
	"math"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// Reporter receives search progress events. Implementations must tolerate
// concurrent Add calls from worker goroutines.
type Reporter interface {
	// Start begins reporting for a search over total candidates, of which
	// resumed were already completed by earlier sessions.
	Start(total, resumed uint64)

	// Add records n freshly probed candidates.
	Add(n uint64)

	// Finish stops reporting with a closing message.
	Finish(message string)
}

// Silent is a no-op reporter for quiet runs and tests.
type Silent struct{}

// Start implements Reporter.
func (Silent) Start(uint64, uint64) {}

// Add implements Reporter.
func (Silent) Add(uint64) {}

// Finish implements Reporter.
func (Silent) Finish(string) {}

// Console renders a live progress bar with rate and ETA.
type Console struct {
	writer  progress.Writer
	tracker *progress.Tracker
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	w := progress.NewWriter()
	w.SetOutputWriter(out)
	w.SetTrackerLength(40)
	w.SetUpdateFrequency(250 * time.Millisecond)
	w.SetTrackerPosition(progress.PositionRight)
	w.Style().Visibility.ETA = true
	w.Style().Visibility.Speed = true
	w.Style().Visibility.Value = true

	return &Console{writer: w}
}

// Start implements Reporter.
func (c *Console) Start(total, resumed uint64) {
	c.tracker = &progress.Tracker{
		Message: "testing candidates",
		Total:   clampInt64(total),
		Units:   progress.UnitsDefault,
	}

	c.writer.AppendTracker(c.tracker)
	c.tracker.SetValue(clampInt64(resumed))

	go c.writer.Render()
}

// Add implements Reporter.
func (c *Console) Add(n uint64) {
	if c.tracker == nil {
		return
	}

	c.tracker.Increment(clampInt64(n))
}

// Finish implements Reporter.
func (c *Console) Finish(message string) {
	if c.tracker == nil {
		return
	}

	c.tracker.UpdateMessage(message)
	c.tracker.MarkAsDone()
	c.writer.Stop()
}

// clampInt64 caps candidate counts that exceed the tracker's int64 range.
func clampInt64(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(n)
}
