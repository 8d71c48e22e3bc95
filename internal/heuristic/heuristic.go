// Package heuristic classifies commits by keywords when no text generator is available.
package heuristic

import (
	"strings"

	"github.com/maxbolgarin/docweave/internal/model"
)

const (
	summarySubjectLength = 60
	diffScanLines        = 50
)

// Category is the branch taken by the classifier
type Category string

const (
	CategoryTest     Category = "test"
	CategoryFix      Category = "fix"
	CategoryFeature  Category = "feature"
	CategoryRefactor Category = "refactor"
	CategoryDocs     Category = "docs"
	CategoryGeneric  Category = "generic"
)

type rule struct {
	category   Category
	label      string
	importance model.Importance
	why        string
	nextSteps  [3]string
}

var rules = map[Category]rule{
	CategoryTest: {
		category:   CategoryTest,
		label:      "Test-related changes",
		importance: model.ImportanceHigh,
		why:        "Test changes ensure code quality and prevent regressions. This is critical for maintaining reliability.",
		nextSteps: [3]string{
			"Verify test coverage for new functionality",
			"Run the test suite to ensure all tests pass",
			"Consider adding integration tests if applicable",
		},
	},
	CategoryFix: {
		category:   CategoryFix,
		label:      "Bug fix",
		importance: model.ImportanceHigh,
		why:        "Bug fix addresses issues in the codebase. This improves stability and user experience.",
		nextSteps: [3]string{
			"Verify the fix resolves the reported issue",
			"Add regression tests to prevent recurrence",
			"Update documentation if the fix changes behavior",
		},
	},
	CategoryFeature: {
		category:   CategoryFeature,
		label:      "New feature",
		importance: model.ImportanceMedium,
		why:        "Feature addition extends functionality. This enhances the application's capabilities.",
		nextSteps: [3]string{
			"Add unit tests for the new feature",
			"Update user documentation",
			"Consider adding example usage",
		},
	},
	CategoryRefactor: {
		category:   CategoryRefactor,
		label:      "Refactoring",
		importance: model.ImportanceMedium,
		why:        "Refactoring improves code structure and maintainability without changing functionality.",
		nextSteps: [3]string{
			"Ensure all existing tests still pass",
			"Review for potential performance improvements",
			"Update code comments if structure changed significantly",
		},
	},
	CategoryDocs: {
		category:   CategoryDocs,
		label:      "Documentation update",
		importance: model.ImportanceLow,
		why:        "Documentation updates improve project maintainability and onboarding experience.",
		nextSteps: [3]string{
			"Verify documentation accuracy",
			"Check for broken links",
			"Consider adding code examples",
		},
	},
	CategoryGeneric: {
		category:   CategoryGeneric,
		label:      "Code changes",
		importance: model.ImportanceMedium,
		why:        "Code changes improve the codebase functionality or structure.",
		nextSteps: [3]string{
			"Review the changes carefully",
			"Add tests if applicable",
			"Update related documentation",
		},
	},
}

// Classify maps a commit message and its diff to an analysis.
// It is pure and total: equal inputs always give equal outputs.
func Classify(message, diff string) model.CodeAnalysis {
	r := rules[Categorize(message, diff)]

	return model.CodeAnalysis{
		Summary:    r.label + ": " + model.Truncate(model.FirstLine(message), summarySubjectLength),
		Why:        r.why,
		NextSteps:  r.nextSteps[:],
		Importance: r.importance,
		Provenance: model.ProvenanceHeuristic,
	}
}

// Categorize returns the first matching category in precedence order.
func Categorize(message, diff string) Category {
	msg := strings.ToLower(message)
	head := diffHead(diff)

	switch {
	case strings.Contains(msg, "test") || anyLineContains(head, "test"):
		return CategoryTest
	case containsAny(msg, "fix", "bug"):
		return CategoryFix
	case containsAny(msg, "feat", "feature", "add"):
		return CategoryFeature
	case strings.Contains(msg, "refactor"):
		return CategoryRefactor
	case anyLineContains(head, "doc", "readme"):
		return CategoryDocs
	default:
		return CategoryGeneric
	}
}

// GenericNextSteps returns the next steps of the generic branch.
func GenericNextSteps() []string {
	steps := rules[CategoryGeneric].nextSteps
	return steps[:]
}

func diffHead(diff string) []string {
	if diff == "" {
		return nil
	}
	lines := strings.SplitN(diff, "\n", diffScanLines+1)
	if len(lines) > diffScanLines {
		lines = lines[:diffScanLines]
	}
	for i := range lines {
		lines[i] = strings.ToLower(lines[i])
	}
	return lines
}

func anyLineContains(lines []string, subs ...string) bool {
	for _, line := range lines {
		if containsAny(line, subs...) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
