package board

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/packhouse/packline/internal/model"
)

const boardTemplate = `PACKLINE BOARD  {{.Generated}}
{{if .Project}}project: {{.Project}}
{{end}}
TO FILL
{{- if .ToFill}}{{range .ToFill}}
  {{.}}{{end}}{{else}}
  (empty){{end}}

TO CASE
{{- if .ToCase}}{{range .ToCase}}
  {{.}}{{end}}{{else}}
  (empty){{end}}

DONE TODAY
{{- if .Done}}{{range .Done}}
  {{.}}{{end}}{{else}}
  (empty){{end}}

SKU STATUS
{{- range .Summaries}}
  {{.}}{{end}}
`

type boardView struct {
	Generated string
	Project   string
	ToFill    []string
	ToCase    []string
	Done      []string
	Summaries []string
}

// Format renders the board as text, one line per task, grouped into the
// three columns.
func Format(b *Board, projectName string) (string, error) {
	view := boardView{
		Generated: b.GeneratedAt.Format("2006-01-02 15:04:05"),
		Project:   projectName,
	}

	for _, t := range b.Tasks {
		line := taskLine(t, b.Notes[t.ID])
		switch t.Column {
		case model.ColumnToCase:
			view.ToCase = append(view.ToCase, line)
		default:
			view.ToFill = append(view.ToFill, line)
		}
	}
	for _, c := range b.Completed {
		view.Done = append(view.Done, completedLine(c))
	}
	for _, s := range b.Summaries {
		view.Summaries = append(view.Summaries, summaryLine(s))
	}

	tmpl, err := template.New("board").Parse(boardTemplate)
	if err != nil {
		return "", fmt.Errorf("parse board template: %w", err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("render board: %w", err)
	}
	return sb.String(), nil
}

func taskLine(t *model.Task, note string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%-8s] %-26s %3d cases", t.Priority, t.ID, t.Quantity)
	if len(t.Sources) > 0 {
		fmt.Fprintf(&sb, "  (%s)", sourceSummary(t.Sources))
	}
	if t.Status == model.TaskBlocked {
		fmt.Fprintf(&sb, "  BLOCKED: %s", t.BlockedReason)
	}
	if note != "" {
		fmt.Fprintf(&sb, "  note: %s", note)
	}
	return sb.String()
}

func sourceSummary(sources []model.TaskSource) string {
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		switch src.Type {
		case model.SourceBackfill:
			names = append(names, fmt.Sprintf("restock %d", src.Quantity))
		default:
			names = append(names, fmt.Sprintf("%s %d", src.CustomerName, src.Quantity))
		}
	}
	return strings.Join(names, ", ")
}

func completedLine(c model.CompletedTask) string {
	return fmt.Sprintf("[%-8s] %-26s %3d cases  done %s", c.Priority, c.ID, c.Quantity, c.CompletedAt)
}

func summaryLine(s SKUStatus) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-12s cased %3d  filled %3d  staged %3d  pending %3d  gap %3d",
		s.SKU, s.Cased, s.Filled, s.Staged, s.Pending, s.Gap)
	if s.LowStock {
		sb.WriteString("  LOW STOCK")
	}
	return sb.String()
}
