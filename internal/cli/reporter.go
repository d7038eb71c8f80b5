package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/model"
	"github.com/Veraticus/corrosion-lens/internal/session"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

const spinInterval = 100 * time.Millisecond

// OutcomeReport is the machine-readable form of a classification result.
type OutcomeReport struct {
	File        string `json:"file"`
	Level       string `json:"predicted_corrosion_level"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description"`
	HeatmapURL  string `json:"heatmap_url"`
}

// FailureReport is the machine-readable form of a failed attempt.
type FailureReport struct {
	File  string `json:"file,omitempty"`
	Error string `json:"error"`
}

// Reporter prints classification progress and results for the
// non-interactive commands.
type Reporter struct {
	out        io.Writer
	errOut     io.Writer
	file       string
	bar        *progressbar.ProgressBar
	stop       chan struct{}
	done       chan struct{}
	mu         sync.Mutex
	jsonOutput bool
}

// NewReporter creates a reporter writing results to out and progress to
// errOut so that --json output stays clean.
func NewReporter(out, errOut io.Writer, jsonOutput bool) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Reporter{
		out:        out,
		errOut:     errOut,
		jsonOutput: jsonOutput,
	}
}

// StartProgress shows an indeterminate spinner while image is uploaded.
func (r *Reporter) StartProgress(image model.PendingImage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.file = image.Name
	if r.jsonOutput || r.bar != nil {
		return
	}

	description := fmt.Sprintf("[cyan][bold]Classifying %s (%s)...[reset]",
		image.Name, humanize.Bytes(uint64(image.Size())))
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.errOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription(description),
		progressbar.OptionClearOnFinish(),
	)
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go r.spin(r.bar, r.stop, r.done)
}

func (r *Reporter) spin(bar *progressbar.ProgressBar, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(spinInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress spinner", "error", err)
				return
			}
		}
	}
}

// StopProgress removes the spinner. It is safe to call when no spinner is
// running.
func (r *Reporter) StopProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar == nil {
		return
	}
	close(r.stop)
	<-r.done
	if err := r.bar.Finish(); err != nil {
		slog.Warn("Failed to clear progress spinner", "error", err)
	}
	r.bar = nil
}

// PrintOutcome prints the predicted level, its guide description and the
// cache-busted heatmap URL.
func (r *Reporter) PrintOutcome(image model.PendingImage, outcome model.ClassificationOutcome) error {
	entry, known := model.LookupGuide(outcome.Category)
	report := OutcomeReport{
		File:        image.Name,
		Level:       outcome.Category,
		Description: model.DescribeLevel(outcome.Category),
		HeatmapURL:  outcome.DisplayURL(),
	}
	if known {
		report.Severity = entry.Severity
	}

	if r.jsonOutput {
		return r.writeJSON(report)
	}

	level := report.Level
	if known {
		level = fmt.Sprintf("%s (%s)", report.Level, report.Severity)
	}
	lines := []string{
		BoldStyle.Render("Predicted Corrosion Level: ") + SeverityStyle(report.Severity).Render(level),
		report.Description,
		"",
		BoldStyle.Render("Grad-CAM Heatmap: ") + SubtleStyle.Render(report.HeatmapURL),
	}
	_, err := fmt.Fprintln(r.out, RenderBox(LensIcon+" "+image.Name, strings.Join(lines, "\n")))
	return err
}

// PrintFailure prints the user-facing message carried by err.
func (r *Reporter) PrintFailure(image *model.PendingImage, err error) error {
	file := ""
	if image != nil {
		file = image.Name
	}
	return r.printFailure(file, common.UserMessage(err))
}

// Notify prints a session notice as soon as it is raised, clearing the
// spinner first. The file is the one passed to StartProgress.
func (r *Reporter) Notify(n session.Notice) {
	r.StopProgress()

	r.mu.Lock()
	file := r.file
	r.mu.Unlock()

	if err := r.printFailure(file, n.Message); err != nil {
		slog.Warn("Failed to print notice", "error", err)
	}
}

func (r *Reporter) printFailure(file, message string) error {
	report := FailureReport{File: file, Error: message}
	if r.jsonOutput {
		return r.writeJSON(report)
	}
	_, err := fmt.Fprintln(r.errOut, FormatError(report.Error))
	return err
}

// PrintGuide prints the corrosion rating guide.
func (r *Reporter) PrintGuide(entries []model.GuideEntry) error {
	if r.jsonOutput {
		return r.writeJSON(entries)
	}

	var b strings.Builder
	b.WriteString(FormatTitle("Corrosion Rating Guide"))
	b.WriteString("\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-8s%-12s %s", "Level", "Severity", "Description")))
	b.WriteString("\n")
	for _, entry := range entries {
		b.WriteString(TableCellStyle.Render(fmt.Sprintf("%-6s", entry.Level)))
		b.WriteString(SeverityStyle(entry.Severity).Render(fmt.Sprintf("%-12s", entry.Severity)))
		b.WriteString(" ")
		b.WriteString(entry.Description)
		b.WriteString("\n")
	}
	_, err := fmt.Fprint(r.out, b.String())
	return err
}

func (r *Reporter) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
