package ai

import (
	"github.com/tmc/langchaingo/prompts"
)

const LeadAnalysis = `You are a B2B sales research assistant.

Analyze the lead data below for {{.leadName}} at {{.leadCompany}}.
Pull out the key insights, their professional background, and the pain points they are likely to have.

Lead Data:
{{.leadData}}

Write a concise analysis a sales representative can read in under a minute before reaching out.`

const BackgroundResearch = `Write a short background research summary for the company "{{.leadCompany}}".
Cover its industry, its likely business model, and general trends in that sector.

You do not have live web access. If the company is well known, summarize what is generally known about it.
If it is not, give general commentary on the industry it most likely belongs to and list a few research questions worth asking.

Keep it under 200 words.`

const ObjectionHandling = `You are a sales coach preparing a rep for a first conversation.

Product Info:
{{.productInfo}}
{{if .typicalObjections}}
Objections this rep usually hears:
{{.typicalObjections}}
{{end}}
List exactly 3 likely objections to this product. For each one write a short, persuasive response.
Format the answer as Markdown, one bullet per objection with its response underneath.`

const ScriptGeneration = `Write three distinct, personalized sales outreach scripts from the context below.

Lead: {{.leadName}} at {{.leadCompany}}
Lead Analysis:
{{.analysis}}

Product / Offer:
{{.productInfo}}

Outreach Goal: {{.outreachGoals}}
Tone: {{.tone}}

1. Email: a compelling email that addresses the needs surfaced in the analysis. Put 3 to 5 subject line options at the top.
2. LinkedIn: a very short, high-impact direct message that fits LinkedIn's limits.
3. Call: a cold call or voicemail script that sounds natural when spoken aloud, with pauses marked.`

const ScriptBundleShape = `{
    "emailScript": "The markdown formatted email body, with 3-5 subject line options at the top.",
    "linkedinScript": "A short, conversational direct message written for LinkedIn's length limits.",
    "callScript": "A cold call or voicemail script that reads naturally out loud, including pauses."
}`

const TalkingPoints = `Using the lead analysis and product info below, write 3 to 5 key talking points.

Lead Analysis:
{{.analysis}}

Product Info:
{{.productInfo}}
{{if .clientContext}}
Additional Context:
{{.clientContext}}
{{end}}
Format the output as a Markdown bullet list. Each bullet must stand on its own as a value proposition or conversation starter.`

// Render fills a Go-template prompt.
func Render(template string, values map[string]any) (string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	return prompts.NewPromptTemplate(template, keys).Format(values)
}
