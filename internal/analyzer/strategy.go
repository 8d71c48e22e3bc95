package analyzer

import (
	"regexp"
	"slices"
	"strings"

	"github.com/maxbolgarin/docweave/internal/heuristic"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/errm"
	jsoniter "github.com/json-iterator/go"
)

const (
	defaultSummary = "Code analysis"
	defaultWhy     = "Change improves codebase functionality"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	errNoJSON        = errm.New("no JSON object in response")
	errEmptyResponse = errm.New("empty response")
)

// Input is the shared input of all strategies
type Input struct {
	// Raw is the cleaned generator response, empty when the generator failed
	Raw     string
	Message string
	Diff    string
}

// Strategy turns an input into an analysis or reports why it cannot
type Strategy interface {
	Name() string
	Parse(in Input) (model.CodeAnalysis, error)
}

// DefaultStrategies returns the fallback chain: JSON, free text, keyword heuristic.
func DefaultStrategies(cfg Config) []Strategy {
	return []Strategy{
		JSONStrategy{MaxNextSteps: cfg.MaxNextSteps},
		TextStrategy{},
		HeuristicStrategy{},
	}
}

// JSONStrategy decodes a JSON object with summary, why, next_steps and importance fields
type JSONStrategy struct {
	MaxNextSteps int
}

type analysisJSON struct {
	Summary    string   `json:"summary"`
	Why        string   `json:"why"`
	NextSteps  []string `json:"next_steps"`
	Importance string   `json:"importance"`
}

func (JSONStrategy) Name() string { return "json" }

func (s JSONStrategy) Parse(in Input) (model.CodeAnalysis, error) {
	obj, ok := ExtractJSON(in.Raw)
	if !ok {
		return model.CodeAnalysis{}, errNoJSON
	}

	var resp analysisJSON
	if err := json.UnmarshalFromString(obj, &resp); err != nil {
		return model.CodeAnalysis{}, errm.Wrap(err, "failed to decode JSON")
	}

	steps := make([]string, 0, len(resp.NextSteps))
	for _, step := range resp.NextSteps {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}
	if len(steps) == 0 {
		steps = heuristic.GenericNextSteps()
	}
	if s.MaxNextSteps > 0 && len(steps) > s.MaxNextSteps {
		steps = steps[:s.MaxNextSteps]
	}

	return model.CodeAnalysis{
		Summary:    withDefault(resp.Summary, defaultSummary),
		Why:        withDefault(resp.Why, defaultWhy),
		NextSteps:  steps,
		Importance: model.ParseImportance(resp.Importance),
		Provenance: model.ProvenanceAI,
	}, nil
}

// TextStrategy reads an analysis from loosely structured prose
type TextStrategy struct{}

func (TextStrategy) Name() string { return "text" }

func (TextStrategy) Parse(in Input) (model.CodeAnalysis, error) {
	lines := strings.Split(strings.ReplaceAll(in.Raw, "\r\n", "\n"), "\n")

	first := slices.IndexFunc(lines, func(l string) bool { return strings.TrimSpace(l) != "" })
	if first < 0 {
		return model.CodeAnalysis{}, errEmptyResponse
	}

	out := model.CodeAnalysis{
		Summary:    model.Truncate(strings.TrimSpace(lines[first]), defaultSummaryLimit),
		Why:        defaultWhy,
		Importance: model.ImportanceMedium,
		Provenance: model.ProvenanceAI,
	}

	for i := first + 1; i < len(lines); i++ {
		lower := strings.ToLower(lines[i])

		// importance lines often carry a reason, they never set the rationale
		if strings.Contains(lower, "importance") {
			switch {
			case strings.Contains(lower, "high"):
				out.Importance = model.ImportanceHigh
			case strings.Contains(lower, "low"):
				out.Importance = model.ImportanceLow
			}
			continue
		}

		switch {
		case strings.Contains(lower, "why") || strings.Contains(lower, "reason"):
			why := lines[i]
			if _, after, ok := strings.Cut(why, ":"); ok {
				why = after
			}
			if why = strings.TrimSpace(why); why != "" {
				out.Why = model.Truncate(why, defaultWhyLimit)
			}

		case strings.Contains(lower, "next") || strings.Contains(lower, "todo"):
			if i+1 >= len(lines) || len(out.NextSteps) >= defaultMaxTextNextSteps {
				continue
			}
			if step := stripBullet(lines[i+1]); step != "" {
				out.NextSteps = append(out.NextSteps, step)
			}
		}
	}

	if len(out.NextSteps) == 0 {
		out.NextSteps = heuristic.GenericNextSteps()
	}

	return out, nil
}

// HeuristicStrategy classifies a commit by keywords and never fails
type HeuristicStrategy struct{}

func (HeuristicStrategy) Name() string { return "heuristic" }

func (HeuristicStrategy) Parse(in Input) (model.CodeAnalysis, error) {
	return heuristic.Classify(in.Message, in.Diff), nil
}

var bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)])\s*`)

func stripBullet(line string) string {
	return strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
}

func withDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
