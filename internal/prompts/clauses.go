package prompts

import "github.com/sant0-9/promptpilot/internal/intent"

type clause struct {
	action      string
	constraints string
}

var intentClauses = map[intent.Intent]clause{
	// Text refinement: polish or modify the text itself
	intent.GeneralPolish: {
		"ACTION: Refine the User Input for better clarity, flow, and readability.",
		"Keep the original meaning and tone. Remove redundancy.",
	},
	intent.FixGrammar: {
		"ACTION: Correct all grammatical, spelling, and punctuation errors in the User Input.",
		"Do not change the style or vocabulary level. Only fix objective errors.",
	},
	intent.ProfessionalTone: {
		"ACTION: Rewrite the User Input to sound formal, professional, and business-appropriate.",
		"Avoid slang, contractions, and emotional outbursts. Use precise vocabulary.",
	},
	intent.CasualTone: {
		"ACTION: Rewrite the User Input to sound friendly, conversational, and relaxed.",
		"Use accessible language. Avoid stiff corporate phrasing.",
	},
	intent.AcademicTone: {
		"ACTION: Elevate the User Input to an academic/scholarly standard.",
		"Use sophisticated vocabulary and precise structural logic.",
	},
	intent.UrgentTone: {
		"ACTION: Rewrite the User Input to convey urgency and directness.",
		"Remove pleasantries and filler. Use short, active sentences.",
	},
	intent.EmpatheticTone: {
		"ACTION: Rewrite the User Input to be more empathetic, understanding, and soft.",
		"Focus on emotional resonance and support.",
	},
	intent.Simplify: {
		"ACTION: Rewrite the User Input so it can be understood by a 5-year-old.",
		"Use extremely simple words and short sentences.",
	},
	intent.Summarize: {
		"ACTION: Provide a concise summary of the User Input.",
		"Capture only the most critical information. Discard details.",
	},
	intent.Expand: {
		"ACTION: Expand upon the User Input with relevant context and details.",
		"Maintain the original topic. Elaborate on existing points logically.",
	},
	intent.Dejargonize: {
		"ACTION: Remove industry jargon and buzzwords from the User Input.",
		"Replace complex terms with plain English equivalents.",
	},

	// Prompt engineering: rewrite the input into a better prompt for an LLM
	intent.ChainOfThought: {
		"ACTION: Rewrite the User Input into a prompt that explicitly instructs an AI to use 'Chain of Thought' reasoning.",
		"The output must be a prompt starting with instructions like 'Think step-by-step...' followed by the user's original request.",
	},
	intent.TreeOfThoughts: {
		"ACTION: Rewrite the User Input into a prompt that instructs an AI to use 'Tree of Thoughts' methodology.",
		"The output prompt should ask the AI to explore multiple solution paths before concluding.",
	},
	intent.Socratic: {
		"ACTION: Rewrite the User Input into a prompt that instructs an AI to act as a Socratic Tutor.",
		"The output prompt should tell the AI NOT to give the answer, but to ask guiding questions.",
	},
	intent.Feynman: {
		"ACTION: Rewrite the User Input into a prompt that asks an AI to explain the concept using the Feynman Technique.",
		"The output prompt should specify simple language, analogies, and deep clarity.",
	},
	intent.DevilsAdvocate: {
		"ACTION: Rewrite the User Input into a prompt that asks an AI to critique the user's argument/idea.",
		"The output prompt should tell the AI to challenge assumptions and expose weaknesses.",
	},
	intent.Compression: {
		"ACTION: Compress the User Input into the minimal number of tokens while retaining meaning.",
		"Remove articles and conjunctions. Result should be telegraphic.",
	},
	intent.FewShot: {
		"ACTION: Generate a 'Few-Shot' prompt template based on the User Input.",
		"Create 3 example input/output pairs related to the topic to guide an AI.",
	},
	intent.Persona: {
		"ACTION: Rewrite the User Input into a prompt that instructs the AI to adopt a specific expert persona relevant to the text.",
		"Identify the best expert (e.g., 'Senior Engineer') and prepend this persona to the request.",
	},
	intent.Critic: {
		"ACTION: Rewrite the User Input into a prompt that asks an AI to critique the input's style and substance.",
		"The output prompt should ask for scores on clarity and tone.",
	},

	// Domain specific: generate content based on the input
	intent.CodeExpert: {
		"ACTION: Treat the User Input as a coding requirement. Write (or rewrite) the code using industry best practices.",
		"Ensure clean code, proper naming, and efficiency. Add comments.",
	},
	intent.CodeCommenter: {
		"ACTION: Add comprehensive documentation comments to the code in the User Input.",
		"Explain the 'Why' and 'How'. Use JSDoc/standard formats.",
	},
	intent.BugHunter: {
		"ACTION: Analyze the code in the User Input for bugs and security issues. Return the fixed code.",
		"Fix logical errors and potential exploits.",
	},
	intent.UnitTest: {
		"ACTION: Generate comprehensive unit tests for the code in the User Input.",
		"Cover happy paths and edge cases. Use standard testing frameworks.",
	},
	intent.SecAuditor: {
		"ACTION: Audit the User Input for security vulnerabilities (XSS, SQLi, etc.) and suggest fixes.",
		"",
	},
	intent.Copywriter: {
		"ACTION: Rewrite the User Input as high-conversion marketing copy.",
		"Focus on benefits, psychological triggers, and a strong Call to Action.",
	},
	intent.SEOOptimizer: {
		"ACTION: Optimize the User Input for Search Engines (SEO).",
		"Integrate relevant keywords naturally. Use proper headings.",
	},
	intent.ExecSummary: {
		"ACTION: Summarize the User Input into a C-Suite Executive Brief.",
		"BLUF (Bottom Line Up Front). Focus on ROI and strategic impact.",
	},
	intent.Storyteller: {
		"ACTION: Rewrite the User Input as a compelling narrative story.",
		"Use 'Show, Don't Tell', sensory details, and strong imagery.",
	},
	intent.WorldBuilder: {
		"ACTION: Expand the User Input into a rich description of a fictional world/setting.",
		"Describe atmosphere, history, and sensory details.",
	},
	intent.Screenplay: {
		"ACTION: Format the User Input as a standard Hollywood Screenplay.",
		"Use Scene Headings, Character names, and Dialogue format.",
	},
}

var structureClauses = map[intent.Structure]string{
	intent.Paragraph:     "FORMAT: Standard prose paragraphs.",
	intent.Bullets:       "FORMAT: Bulleted list (use '*').",
	intent.Steps:         "FORMAT: Numbered list (1., 2., 3.).",
	intent.Checklist:     "FORMAT: Markdown checklist ('- [ ]').",
	intent.JSON:          "FORMAT: Valid JSON only. No markdown blocks.",
	intent.CSV:           "FORMAT: Valid CSV with header row.",
	intent.MarkdownTable: "FORMAT: Markdown table.",
	intent.YAML:          "FORMAT: Valid YAML only.",
	intent.XML:           "FORMAT: Valid XML only.",
	intent.Mermaid:       "FORMAT: Mermaid.js diagram syntax.",
	intent.LaTeX:         "FORMAT: LaTeX syntax for math/structure.",
	intent.CodeOnly:      "FORMAT: Code block only. No conversational text.",
	intent.TLDR:          "FORMAT: Single sentence TL;DR.",
}
