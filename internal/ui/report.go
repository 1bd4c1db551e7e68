package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	actions "github.com/inference-gateway/gridpilot/internal/actions"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	journal "github.com/inference-gateway/gridpilot/internal/journal"
	plan "github.com/inference-gateway/gridpilot/internal/plan"
	markdown "github.com/inference-gateway/gridpilot/internal/ui/markdown"
	styles "github.com/inference-gateway/gridpilot/internal/ui/styles"
	icons "github.com/inference-gateway/gridpilot/internal/ui/styles/icons"
	wordwrap "github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is used when the terminal width is unknown
const DefaultWidth = 80

// Reporter prints human-readable results to a terminal
type Reporter struct {
	out      io.Writer
	width    int
	styles   *styles.CommonStyles
	markdown *markdown.Renderer
}

// NewReporter creates a reporter writing to out, wrapping text at width
func NewReporter(out io.Writer, width int) *Reporter {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Reporter{
		out:      out,
		width:    width,
		styles:   styles.NewCommonStyles(),
		markdown: markdown.NewRenderer(width),
	}
}

// WrapText wraps text to width, leaving it unchanged when width is not positive
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// Plan renders a plan as styled markdown
func (r *Reporter) Plan(p plan.Plan) {
	fmt.Fprintln(r.out, r.markdown.Render(p.Markdown()))
}

// Step prints one executed step
func (r *Reporter) Step(res plan.StepResult) {
	var icon string
	switch res.Status {
	case plan.StepSucceeded:
		icon = icons.StyledCheckMark()
	case plan.StepFailed:
		icon = icons.StyledCrossMark()
	default:
		icon = icons.StyledSkipMark()
	}

	line := fmt.Sprintf("%s %d. %s", icon, res.Index+1, res.Step.String())
	if res.Duration > 0 {
		line += r.styles.Dim.Render(fmt.Sprintf(" (%s)", res.Duration.Round(time.Millisecond)))
	}
	fmt.Fprintln(r.out, line)

	if res.Err != nil {
		fmt.Fprintln(r.out, r.indent(r.styles.Error.Render(res.Err.Error())))
	}
}

// Summary prints the execution tally
func (r *Reporter) Summary(s plan.Summary) {
	status := r.styles.Success.Render("All steps succeeded")
	if !s.OK() {
		status = r.styles.Error.Render("Plan did not complete")
	}

	body := strings.Join([]string{
		status,
		r.row("Succeeded", fmt.Sprintf("%d/%d", s.Succeeded, s.Total)),
		r.row("Failed", fmt.Sprintf("%d", s.Failed)),
		r.row("Skipped", fmt.Sprintf("%d", s.Skipped)),
		r.row("Duration", s.Duration.Round(time.Millisecond).String()),
	}, "\n")
	fmt.Fprintln(r.out, r.styles.Box.Render(body))
}

// Click prints the outcome of a click action
func (r *Reporter) Click(o actions.ClickOutcome) {
	switch {
	case !o.Found:
		fmt.Fprintf(r.out, "%s %s\n", icons.StyledCrossMark(), r.styles.Error.Render("Element not found: "+o.Target))
	case o.Clicked:
		fmt.Fprintf(r.out, "%s %s\n", icons.StyledCheckMark(), r.styles.Success.Render("Clicked: "+o.Target))
	default:
		fmt.Fprintf(r.out, "%s %s\n", icons.StyledCrossMark(), r.styles.Warning.Render("No visible change: "+o.Target))
	}

	if o.Found {
		fmt.Fprintln(r.out, r.row("Image", o.ImagePoint.String()))
		fmt.Fprintln(r.out, r.row("Logical", o.LogicalPoint.String()))
		fmt.Fprintln(r.out, r.row("Scale", fmt.Sprintf("%.2f x %.2f", o.Scale.X, o.Scale.Y)))
		fmt.Fprintln(r.out, r.row("Radius", fmt.Sprintf("%d", o.Radius)))
		if o.Clicked {
			fmt.Fprintln(r.out, r.row("Candidate", fmt.Sprintf("%s (#%d of %d tried)", o.CandidateLabel, o.CandidateIndex, o.Attempts)))
		} else {
			fmt.Fprintln(r.out, r.row("Attempts", fmt.Sprintf("%d", o.Attempts)))
		}
	}
	fmt.Fprintln(r.out, r.row("Confidence", string(o.Confidence)))
	r.reasoning(o.Reasoning)
}

// Location prints where the vision model placed a target on an image
func (r *Reporter) Location(loc actions.Location) {
	if !loc.Found() {
		fmt.Fprintf(r.out, "%s %s\n", icons.StyledCrossMark(), r.styles.Error.Render("Element not found: "+loc.Target))
		r.reasoning(loc.Result.Reasoning)
		return
	}

	fmt.Fprintf(r.out, "%s %s %s\n", icons.StyledPointer(), r.styles.Header.Render(loc.Target), r.styles.Point.Render(loc.Point.String()))
	fmt.Fprintln(r.out, r.row("Grid", fmt.Sprintf("%dx%d, cell %dx%d px", loc.Geometry.Spec.Columns, loc.Geometry.Spec.Rows, loc.Geometry.CellWidth, loc.Geometry.CellHeight)))
	fmt.Fprintln(r.out, r.row("Cells", formatCells(loc.Cells)))
	if len(loc.Dropped) > 0 {
		fmt.Fprintln(r.out, r.row("Ignored", formatCells(loc.Dropped)))
	}
	fmt.Fprintln(r.out, r.row("Confidence", string(loc.Result.Confidence)))
	if loc.Result.Description != "" {
		fmt.Fprintln(r.out, r.row("Seen", loc.Result.Description))
	}
	if loc.OverlayPath != "" {
		fmt.Fprintln(r.out, r.row("Overlay", loc.OverlayPath))
	}
	r.reasoning(loc.Result.Reasoning)
}

// Stats prints aggregated journal statistics
func (r *Reporter) Stats(s journal.Stats) {
	fmt.Fprintln(r.out, r.styles.Header.Render("Probe journal"))
	fmt.Fprintln(r.out, r.row("Total", fmt.Sprintf("%d", s.Total)))
	fmt.Fprintln(r.out, r.row("Clicked", fmt.Sprintf("%d", s.Clicked)))
	fmt.Fprintln(r.out, r.row("Missed", fmt.Sprintf("%d", s.Missed)))
	fmt.Fprintln(r.out, r.row("Not found", fmt.Sprintf("%d", s.NotFound)))
	if s.Clicked == 0 {
		return
	}
	fmt.Fprintln(r.out, r.row("Off-center", fmt.Sprintf("%.0f%%", s.OffCenterRate()*100)))
	for _, label := range s.Labels() {
		fmt.Fprintln(r.out, r.indent(fmt.Sprintf("%-12s %d", label, s.ByCandidate[label])))
	}
}

// Entries lists journal entries, newest first
func (r *Reporter) Entries(entries []journal.Entry) {
	for _, e := range entries {
		var icon, detail string
		switch {
		case !e.Found:
			icon, detail = icons.StyledCrossMark(), "not found"
		case e.Clicked:
			icon, detail = icons.StyledCheckMark(), fmt.Sprintf("%s at (%d, %d)", e.CandidateLabel, e.LogicalX, e.LogicalY)
		default:
			icon, detail = icons.StyledSkipMark(), fmt.Sprintf("no change after %d attempts", e.Attempts)
		}
		when := r.styles.Dim.Render(e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(r.out, "%s %s %s %s\n", icon, when, e.Target, r.styles.Dim.Render(detail))
	}
}

func (r *Reporter) row(label, value string) string {
	return r.styles.Label.Render(label) + r.styles.Value.Render(value)
}

func (r *Reporter) indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func (r *Reporter) reasoning(text string) {
	if text == "" {
		return
	}
	fmt.Fprintln(r.out, r.indent(r.styles.Dim.Render(WrapText(text, r.width-2))))
}

func formatCells(cells []domain.CellObservation) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		parts = append(parts, fmt.Sprintf("%d (%g%%)", c.CellNumber, c.CoveragePercent))
	}
	return strings.Join(parts, ", ")
}
