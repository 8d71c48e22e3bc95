package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateDiff(t *testing.T) {
	long := strings.Repeat("a", 10000)
	got := TruncateDiff(long, 6000)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("a", 6000)+"\n\n"))
	assert.True(t, strings.HasSuffix(got, "... [diff truncated: showing 6000 of 10000 characters]"))

	short := strings.Repeat("b", 5999)
	assert.Equal(t, short, TruncateDiff(short, 6000))
	assert.NotContains(t, TruncateDiff(short, 6000), "diff truncated")

	exact := strings.Repeat("c", 6000)
	assert.Equal(t, exact, TruncateDiff(exact, 6000))
}

func TestExtractJSON(t *testing.T) {
	const obj = `{"summary": "s", "why": "w", "next_steps": ["a"], "importance": "high"}`

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "fenced", raw: "Here you go:\n```json\n" + obj + "\n```\nDone.", want: obj, ok: true},
		{name: "bare", raw: obj, want: obj, ok: true},
		{name: "trailing prose", raw: obj + "\n\nLet me know if you need more.", want: obj, ok: true},
		{name: "leading prose", raw: "Analysis:\n" + obj, want: obj, ok: true},
		{name: "braces in strings", raw: `{"summary": "use {} and \"}\"", "why": "x"} tail`,
			want: `{"summary": "use {} and \"}\"", "why": "x"}`, ok: true},
		{name: "nested", raw: `{"a": {"b": 1}} {"c": 2}`, want: `{"a": {"b": 1}}`, ok: true},
		{name: "unclosed prose brace", raw: `Use {x here. Result: {"summary":"s"}`, want: `{"summary":"s"}`, ok: true},
		{name: "unbalanced", raw: `{"summary": "s", "why": "w"`, ok: false},
		{name: "unbalanced nested", raw: `{"a": {"b": 1}`, ok: false},
		{name: "unbalanced after prose brace", raw: `Use {x here {"summary": "s"`, ok: false},
		{name: "no object", raw: "just text", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.raw)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDiagrams(t *testing.T) {
	raw := "Intro\n```mermaid\nflowchart TD\n  A[Harvest] --> B[Analyze]\n```\n" +
		"```mermaid\ngraph TD\n```\n" +
		"```mermaid\npie title Importance\n  \"high\" : 2\n  \"low\" : 1\n```\n"

	got := ExtractDiagrams(raw, 4)
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], "flowchart TD"))
	assert.True(t, strings.HasPrefix(got[1], "pie title Importance"))

	many := strings.Repeat("```mermaid\nflowchart LR\n  A --> B --> C\n```\n", 6)
	assert.Len(t, ExtractDiagrams(many, 4), 4)
	assert.Empty(t, ExtractDiagrams("no diagrams here", 4))
}
