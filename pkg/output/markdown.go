package output

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ccollicutt/clsview/pkg/analyzer"
)

// MarkdownFormatter formats reports as GitHub-flavored Markdown.
type MarkdownFormatter struct {
	opts FormatOptions
}

// NewMarkdownFormatter creates a new Markdown formatter with the given options.
func NewMarkdownFormatter(opts FormatOptions) *MarkdownFormatter {
	return &MarkdownFormatter{opts: opts}
}

// Name returns the format name.
func (f *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format renders the report as Markdown.
func (f *MarkdownFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	var buf bytes.Buffer
	f.write(report, &buf)
	_, err := w.Write(buf.Bytes())
	return err
}

func (f *MarkdownFormatter) write(report *Report, buf *bytes.Buffer) {
	fmt.Fprintf(buf, "# %s\n\n", escapeMarkdown(sourceLabel(report)))

	s := report.Summary
	fmt.Fprintf(buf, "**%d** entries: **%d** errors, **%d** warnings, **%d** info (%d shown)\n\n",
		s.Entries, s.Errors, s.Warnings, s.Infos, s.Shown)

	if f.opts.Quiet {
		return
	}

	f.writeProject(report.Project, buf)

	buf.WriteString("## Entries\n\n")
	if len(report.Entries) == 0 {
		buf.WriteString("No entries to show.\n")
		return
	}

	buf.WriteString("| # | Line | Severity | Message |\n")
	buf.WriteString("|---:|---:|---|---|\n")
	for _, e := range report.Entries {
		fmt.Fprintf(buf, "| %d | %d | %s | %s |\n",
			e.Index, e.Line, severityCell(e.Severity), escapeCell(e.Short))
	}
	buf.WriteString("\n")

	if !f.opts.Verbose {
		return
	}

	buf.WriteString("## Details\n\n")
	for _, e := range report.Entries {
		fmt.Fprintf(buf, "### Entry %d (line %d)\n\n", e.Index, e.Line)
		fmt.Fprintf(buf, "Mode: `%s`\n\n", e.Mode)
		fence := codeFence(e.Full)
		fmt.Fprintf(buf, "%s\n%s\n%s\n\n", fence, e.Full, fence)
	}
}

func (f *MarkdownFormatter) writeProject(p analyzer.ProjectInfo, buf *bytes.Buffer) {
	buf.WriteString("## Project\n\n")
	fmt.Fprintf(buf, "- Unity version: %s\n", escapeMarkdown(orUnknown(p.UnityVersion)))
	fmt.Fprintf(buf, "- Build target: %s\n", escapeMarkdown(orUnknown(p.BuildTarget)))
	fmt.Fprintf(buf, "- Editor platform: %s\n\n", escapeMarkdown(orUnknown(p.EditorPlatform)))

	if len(p.Packages) == 0 {
		return
	}

	buf.WriteString("| Package | UPM | VPM |\n")
	buf.WriteString("|---|---|---|\n")
	for _, pkg := range p.Packages {
		upm := pkg.UPM
		if upm == "" {
			upm = "not installed"
		}
		fmt.Fprintf(buf, "| %s | %s | %s |\n", escapeCell(pkg.Name), escapeCell(upm), escapeCell(pkg.VPM))
	}
	buf.WriteString("\n")
}

func severityCell(s analyzer.Severity) string {
	if s == analyzer.SeverityError {
		return "**error**"
	}
	return s.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// escapeCell escapes s for use inside a single table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return escapeMarkdown(strings.ReplaceAll(s, "\n", " "))
}

// codeFence returns a backtick fence longer than any backtick run in s.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, c := range s {
		if c == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

// HTMLFormatter renders the Markdown report to a standalone HTML page.
type HTMLFormatter struct {
	markdown *MarkdownFormatter
	md       goldmark.Markdown
}

// NewHTMLFormatter creates a new HTML formatter with the given options.
func NewHTMLFormatter(opts FormatOptions) *HTMLFormatter {
	return &HTMLFormatter{
		markdown: NewMarkdownFormatter(opts),
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Name returns the format name.
func (f *HTMLFormatter) Name() string {
	return "html"
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25em 0.5em; vertical-align: top; }
pre { background: #f6f8fa; padding: 0.5em; overflow-x: auto; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Format renders the report as an HTML page.
func (f *HTMLFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	var src bytes.Buffer
	f.markdown.write(report, &src)

	var body bytes.Buffer
	if err := f.md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}

	return pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: sourceLabel(report),
		Body:  template.HTML(body.String()), // #nosec G203 -- goldmark escapes raw HTML by default
	})
}
