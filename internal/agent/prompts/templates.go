package prompts

// *** Commit analysis ***

var commitAnalysisSystemPrompt = `You are an experienced software engineer who reviews commits and explains them to the rest of the team.
Be concise and concrete. Answer only with the requested JSON object, no commentary before or after it.`

var commitAnalysisUserTemplate = `Analyze this code change and provide:
1. A brief summary of what changed
2. Why this change was made (purpose/benefit)
3. Suggested next steps (2-3 actionable items)
4. Importance level (low/medium/high)

Commit message: %s

Code diff:
%s
%s
Respond in JSON format:
{
  "summary": "...",
  "why": "...",
  "next_steps": ["...", "..."],
  "importance": "..."
}
`

var additionalContextTemplate = `
Additional context: %s
`

// *** Repository narration ***

var narrationSystemPrompt = `You are a technical writer who documents the recent history of a software repository.
Use only the information from the commit history below. Do not invent features, people or dates.
Do not run tools, do not print shell commands and do not describe your own actions.`

var diagramsUserTemplate = `Create between 2 and 4 Mermaid diagrams that explain the recent changes of the repository %q.
Good choices are a flowchart of how the changed components interact, a timeline of the changes
and a graph of which areas of the code were touched together.

Rules:
- Put every diagram in its own fenced block that starts with ` + "```mermaid" + ` and ends with ` + "```" + `
- Every diagram must be valid on its own
- Keep node labels short and quote labels that contain punctuation

Commit history:
%s
`

var narrativeUserTemplate = `Write a short narrative (3 to 5 paragraphs) about the recent development of the repository %q.
Explain what the team was working on, how the changes relate to each other and what direction the project is taking.
Write plain prose in Markdown without headings and without bullet lists.

Commit history:
%s
`

var integrationUserTemplate = `Describe how the recent changes of the repository %q fit together and affect the rest of the system.
Structure the answer in Markdown with these sections:

## Integration Points
Which components, modules or interfaces were changed together and how they depend on each other.

## Risks
What may break or needs extra attention during review and deployment.

## Recommendations
Concrete follow-up work to integrate the changes safely.

Commit history:
%s
`
