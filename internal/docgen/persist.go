package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maxbolgarin/docweave/internal/model"
	"gopkg.in/yaml.v3"
)

// Names of the persisted documents
const (
	ChangesFile   = "CHANGES.md"
	NarrativeFile = "NARRATIVE.md"
	DiagramsFile  = "DIAGRAMS.md"
	NextStepsFile = "NEXT_STEPS.md"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Files returns the names of all persisted documents.
func Files() []string {
	return []string{ChangesFile, NarrativeFile, DiagramsFile, NextStepsFile}
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Repository  string `yaml:"repository"`
	GeneratedAt string `yaml:"generated_at"`
	Commits     int    `yaml:"commits"`
	Generator   string `yaml:"generator"`
}

type document struct {
	name  string
	title string
	body  string
}

// Persist writes the four documents into outputDir, creating it when absent.
func Persist(result model.DocumentationResult, outputDir, repoName string) error {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return &PersistenceError{Path: outputDir, Err: err}
	}

	for _, doc := range documents(result, repoName) {
		path := filepath.Join(outputDir, doc.name)

		header, err := yaml.Marshal(frontMatter{
			Title:       doc.title,
			Repository:  repoName,
			GeneratedAt: result.GeneratedAt.UTC().Format(time.RFC3339),
			Commits:     result.CommitCount,
			Generator:   "docweave",
		})
		if err != nil {
			return &PersistenceError{Path: path, Err: err}
		}

		content := "---\n" + string(header) + "---\n\n# " + doc.title + "\n\n" + strings.TrimSpace(doc.body) + "\n"
		if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
			return &PersistenceError{Path: path, Err: err}
		}
	}

	return nil
}

func documents(result model.DocumentationResult, repoName string) []document {
	return []document{
		{name: ChangesFile, title: "Recent changes in " + repoName, body: result.Markdown},
		{name: NarrativeFile, title: "Development narrative of " + repoName, body: renderNarrative(result)},
		{name: DiagramsFile, title: "Diagrams of " + repoName, body: renderDiagrams(result.Diagrams)},
		{name: NextStepsFile, title: "Suggested next steps for " + repoName, body: renderNextSteps(result.NextSteps)},
	}
}

func renderNarrative(result model.DocumentationResult) string {
	var b strings.Builder
	if result.Narrative != "" {
		b.WriteString(result.Narrative)
	} else {
		b.WriteString("_No narrative was generated for this run._")
	}
	if result.IntegrationInsights != "" {
		b.WriteString("\n\n")
		b.WriteString(result.IntegrationInsights)
	}
	return b.String()
}

func renderDiagrams(diagrams []string) string {
	if len(diagrams) == 0 {
		return "_No diagrams were generated for this run._"
	}
	var b strings.Builder
	for i, d := range diagrams {
		fmt.Fprintf(&b, "## Diagram %d\n\n```mermaid\n%s\n```\n\n", i+1, strings.TrimSpace(d))
	}
	return b.String()
}

func renderNextSteps(steps []string) string {
	if len(steps) == 0 {
		return "_No next steps were suggested._"
	}
	var b strings.Builder
	for _, s := range steps {
		fmt.Fprintf(&b, "- [ ] %s\n", s)
	}
	return b.String()
}
