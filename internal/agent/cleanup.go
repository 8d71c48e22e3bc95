package agent

import (
	"regexp"
	"strings"
)

// Output of the copilot CLI ends with a usage block, for example:
//
//	Total usage est:       1 Premium request
//	Total duration (API):  5.2s
//	Usage by model:
//	    gpt-5    12.3k input, 420 output
//
// Everything from the first marker line to the end of the text is dropped.
var usageStatsMarker = regexp.MustCompile(`(?mi)^[ \t]*(Total usage est|Total duration|Total code changes|Usage by model)\b`)

// Tool chatter lines printed by agentic CLIs between answer paragraphs.
var toolChatterLine = regexp.MustCompile(`(?m)^[ \t]*(?:[●•✓✗✔✘└├│┌┐┘╭╮╰╯]|\$ ).*(?:\r?\n|$)`)

var blankLines = regexp.MustCompile(`\n{3,}`)

// StripUsageStats removes the trailing usage statistics block of a generator response.
// It never fails: if no marker is found the text is returned unchanged.
func StripUsageStats(raw string) string {
	loc := usageStatsMarker.FindStringIndex(raw)
	if loc == nil {
		return raw
	}
	return strings.TrimRight(raw[:loc[0]], " \t\r\n")
}

// StripToolChatter removes usage statistics and tool progress lines and keeps only prose.
func StripToolChatter(raw string) string {
	out := StripUsageStats(raw)
	out = toolChatterLine.ReplaceAllString(out, "")
	out = blankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
