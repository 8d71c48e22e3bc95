package docgen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/maxbolgarin/docweave/internal/model"
)

const (
	dateLayout      = "2006-01-02 15:04"
	maxListedFiles  = 20
	maxLabelLength  = 40
	timelineMaxNode = 15
)

func renderCommits(commits []model.Commit, analyses []model.CodeAnalysis) string {
	var b strings.Builder
	for i, c := range commits {
		a := analyses[i]

		fmt.Fprintf(&b, "## %s %s\n\n", c.SHA, c.Subject())
		fmt.Fprintf(&b, "- **Author:** %s\n", c.Author)
		fmt.Fprintf(&b, "- **Date:** %s\n", c.Timestamp.Format(dateLayout))
		fmt.Fprintf(&b, "- **Changes:** +%d / -%d in %d file(s)\n", c.Additions, c.Deletions, len(c.FilesChanged))
		fmt.Fprintf(&b, "- **Importance:** %s\n", a.Importance)
		fmt.Fprintf(&b, "- **Analysis:** %s\n\n", provenanceLabel(a))

		if body := strings.TrimSpace(strings.TrimPrefix(c.Message, c.Subject())); body != "" {
			fmt.Fprintf(&b, "%s\n\n", quote(body))
		}

		fmt.Fprintf(&b, "**Summary:** %s\n\n", a.Summary)
		fmt.Fprintf(&b, "**Why:** %s\n\n", a.Why)

		if len(a.NextSteps) > 0 {
			b.WriteString("**Next steps:**\n\n")
			for _, step := range a.NextSteps {
				fmt.Fprintf(&b, "- %s\n", step)
			}
			b.WriteString("\n")
		}

		if len(c.FilesChanged) > 0 {
			b.WriteString("<details><summary>Files changed</summary>\n\n")
			for _, f := range c.FilesChanged[:min(len(c.FilesChanged), maxListedFiles)] {
				fmt.Fprintf(&b, "- `%s`\n", f)
			}
			if extra := len(c.FilesChanged) - maxListedFiles; extra > 0 {
				fmt.Fprintf(&b, "- and %d more\n", extra)
			}
			b.WriteString("\n</details>\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func provenanceLabel(a model.CodeAnalysis) string {
	if a.IsAI() {
		return "AI-assisted"
	}
	if a.FallbackReason != "" {
		return "heuristic (" + a.FallbackReason + ")"
	}
	return "heuristic"
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight("> "+l, " ")
	}
	return strings.Join(lines, "\n")
}

// FallbackDiagrams builds an importance pie chart and a commit timeline without a generator.
func FallbackDiagrams(commits []model.Commit, analyses []model.CodeAnalysis) []string {
	counts := map[model.Importance]int{}
	for _, a := range analyses {
		counts[a.Importance]++
	}

	var pie strings.Builder
	pie.WriteString("pie title Commits by importance\n")
	for _, imp := range []model.Importance{model.ImportanceHigh, model.ImportanceMedium, model.ImportanceLow} {
		if counts[imp] > 0 {
			fmt.Fprintf(&pie, "    %q : %d\n", string(imp), counts[imp])
		}
	}

	// oldest first, commits come newest first
	ordered := slices.Clone(commits[:min(len(commits), timelineMaxNode)])
	slices.Reverse(ordered)

	var flow strings.Builder
	flow.WriteString("flowchart LR\n")
	for i, c := range ordered {
		fmt.Fprintf(&flow, "    c%d[\"%s %s\"]\n", i, c.SHA, mermaidLabel(c.Subject()))
	}
	for i := 1; i < len(ordered); i++ {
		fmt.Fprintf(&flow, "    c%d --> c%d\n", i-1, i)
	}

	return []string{strings.TrimRight(pie.String(), "\n"), strings.TrimRight(flow.String(), "\n")}
}

var labelReplacer = strings.NewReplacer(`"`, "'", "[", "(", "]", ")", "{", "(", "}", ")", "<", "", ">", "", "`", "'")

func mermaidLabel(s string) string {
	return model.Truncate(labelReplacer.Replace(s), maxLabelLength)
}
