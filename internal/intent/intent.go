package intent

// Intent selects the rewrite or generation behavior applied to input text
type Intent string

// Structure selects the output format of the generated text
type Structure string

// Text refinement intents (free)
const (
	GeneralPolish    Intent = "general_polish"
	FixGrammar       Intent = "fix_grammar"
	ProfessionalTone Intent = "professional_tone"
	CasualTone       Intent = "casual_tone"
	AcademicTone     Intent = "academic_tone"
	UrgentTone       Intent = "urgent_tone"
	EmpatheticTone   Intent = "empathetic_tone"
	Simplify         Intent = "simplify"
	Summarize        Intent = "summarize"
	Expand           Intent = "expand"
	Dejargonize      Intent = "dejargonize"
)

// Prompt engineering intents (pro)
const (
	ChainOfThought Intent = "cot"
	TreeOfThoughts Intent = "tree_of_thoughts"
	Socratic       Intent = "socratic"
	Feynman        Intent = "feynman"
	DevilsAdvocate Intent = "devils_advocate"
	Compression    Intent = "compression"
	FewShot        Intent = "few_shot"
	Persona        Intent = "persona"
	Critic         Intent = "critic"
)

// Domain specific intents (pro)
const (
	CodeExpert    Intent = "code_expert"
	CodeCommenter Intent = "code_commenter"
	BugHunter     Intent = "bug_hunter"
	UnitTest      Intent = "unit_test"
	SecAuditor    Intent = "sec_auditor"
	Copywriter    Intent = "copywriter"
	SEOOptimizer  Intent = "seo_optimizer"
	ExecSummary   Intent = "exec_summary"
	Storyteller   Intent = "storyteller"
	WorldBuilder  Intent = "world_builder"
	Screenplay    Intent = "screenplay"
)

const (
	Paragraph     Structure = "para"
	Bullets       Structure = "bullets"
	Steps         Structure = "steps"
	Checklist     Structure = "checklist"
	JSON          Structure = "json"
	CSV           Structure = "csv"
	MarkdownTable Structure = "markdown_table"
	YAML          Structure = "yaml"
	XML           Structure = "xml"
	Mermaid       Structure = "mermaid"
	LaTeX         Structure = "latex"
	CodeOnly      Structure = "code_only"
	TLDR          Structure = "tldr"
)

// Group is the section of the catalog an intent belongs to
type Group int

const (
	GroupRefinement Group = iota
	GroupPromptEngineering
	GroupDomain
	GroupCustom
)

func (g Group) String() string {
	switch g {
	case GroupRefinement:
		return "Text Refinement"
	case GroupPromptEngineering:
		return "Prompt Engineering"
	case GroupDomain:
		return "Domain Specific"
	case GroupCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Option is a selectable value with its display label
type Option struct {
	Value string
	Label string
	Pro   bool
}

var refinementIntents = []Option{
	{Value: string(GeneralPolish), Label: "General Polish"},
	{Value: string(FixGrammar), Label: "Fix Grammar & Spelling"},
	{Value: string(ProfessionalTone), Label: "Professional Tone"},
	{Value: string(CasualTone), Label: "Casual Tone"},
	{Value: string(AcademicTone), Label: "Academic Tone"},
	{Value: string(UrgentTone), Label: "Direct/Urgent Tone"},
	{Value: string(EmpatheticTone), Label: "Empathetic Tone"},
	{Value: string(Simplify), Label: "Simplify (ELI5)"},
	{Value: string(Summarize), Label: "Summarize/Condense"},
	{Value: string(Expand), Label: "Expand/Add Context"},
	{Value: string(Dejargonize), Label: "De-jargonize"},
}

var promptEngineeringIntents = []Option{
	{Value: string(ChainOfThought), Label: "Chain of Thought", Pro: true},
	{Value: string(TreeOfThoughts), Label: "Tree of Thoughts", Pro: true},
	{Value: string(Socratic), Label: "Socratic Method", Pro: true},
	{Value: string(Feynman), Label: "Feynman Technique", Pro: true},
	{Value: string(DevilsAdvocate), Label: "Devil's Advocate", Pro: true},
	{Value: string(Compression), Label: "Prompt Compression", Pro: true},
	{Value: string(FewShot), Label: "Few-Shot Prompting", Pro: true},
	{Value: string(Persona), Label: "Adopt Persona", Pro: true},
	{Value: string(Critic), Label: "Critic Mode", Pro: true},
}

var domainIntents = []Option{
	{Value: string(CodeExpert), Label: "Code Expert (Clean)", Pro: true},
	{Value: string(CodeCommenter), Label: "Code Commenter", Pro: true},
	{Value: string(BugHunter), Label: "Bug Hunter", Pro: true},
	{Value: string(UnitTest), Label: "Unit Test Generator", Pro: true},
	{Value: string(SecAuditor), Label: "Security Auditor", Pro: true},
	{Value: string(Copywriter), Label: "Copywriter (Sales)", Pro: true},
	{Value: string(SEOOptimizer), Label: "SEO Optimizer", Pro: true},
	{Value: string(ExecSummary), Label: "Executive Brief", Pro: true},
	{Value: string(Storyteller), Label: "Creative Storyteller", Pro: true},
	{Value: string(WorldBuilder), Label: "World Builder", Pro: true},
	{Value: string(Screenplay), Label: "Screenplay Format", Pro: true},
}

var freeStructures = []Option{
	{Value: string(Paragraph), Label: "Paragraph"},
	{Value: string(Bullets), Label: "Bullet Points"},
	{Value: string(Steps), Label: "Numbered Steps"},
	{Value: string(Checklist), Label: "Checklist"},
}

var proStructures = []Option{
	{Value: string(JSON), Label: "JSON (Strict)", Pro: true},
	{Value: string(CSV), Label: "CSV", Pro: true},
	{Value: string(MarkdownTable), Label: "Markdown Table", Pro: true},
	{Value: string(YAML), Label: "YAML", Pro: true},
	{Value: string(XML), Label: "XML", Pro: true},
	{Value: string(Mermaid), Label: "Mermaid Diagram", Pro: true},
	{Value: string(LaTeX), Label: "LaTeX Math", Pro: true},
	{Value: string(CodeOnly), Label: "Code Block Only", Pro: true},
	{Value: string(TLDR), Label: "TL;DR Only", Pro: true},
}

var proFeatures = func() map[string]bool {
	m := make(map[string]bool)
	for _, list := range [][]Option{promptEngineeringIntents, domainIntents, proStructures} {
		for _, o := range list {
			m[o.Value] = true
		}
	}
	return m
}()

// FreeIntents returns the text refinement intents
func FreeIntents() []Option {
	return clone(refinementIntents)
}

// ProIntents returns prompt engineering followed by domain specific intents
func ProIntents() []Option {
	out := clone(promptEngineeringIntents)
	return append(out, domainIntents...)
}

func FreeStructures() []Option {
	return clone(freeStructures)
}

func ProStructures() []Option {
	return clone(proStructures)
}

// AllStructures returns free structures followed by pro structures
func AllStructures() []Option {
	return append(FreeStructures(), proStructures...)
}

// IsProFeature reports whether an intent or structure value is reserved for
// paying or trialing users. Custom intents are never pro.
func IsProFeature(value string) bool {
	return proFeatures[value]
}

// GroupOf returns the catalog section of an intent value
func GroupOf(value string) Group {
	if IsCustomID(value) {
		return GroupCustom
	}
	for _, o := range promptEngineeringIntents {
		if o.Value == value {
			return GroupPromptEngineering
		}
	}
	for _, o := range domainIntents {
		if o.Value == value {
			return GroupDomain
		}
	}
	return GroupRefinement
}

// LabelFor returns the display label of a catalog value, or the value itself
func LabelFor(value string) string {
	for _, list := range [][]Option{refinementIntents, promptEngineeringIntents, domainIntents, freeStructures, proStructures} {
		for _, o := range list {
			if o.Value == value {
				return o.Label
			}
		}
	}
	return value
}

// Known reports whether value is a static catalog intent
func (i Intent) Known() bool {
	for _, list := range [][]Option{refinementIntents, promptEngineeringIntents, domainIntents} {
		for _, o := range list {
			if o.Value == string(i) {
				return true
			}
		}
	}
	return false
}

// Known reports whether value is a static catalog structure
func (s Structure) Known() bool {
	for _, o := range AllStructures() {
		if o.Value == string(s) {
			return true
		}
	}
	return false
}

// Tab defaults used by the overlay when switching between sections
func RefinementDefaults() (Intent, Structure) {
	return GeneralPolish, Paragraph
}

func AdvancedDefaults() (Intent, Structure) {
	return ChainOfThought, JSON
}

func clone(in []Option) []Option {
	out := make([]Option, len(in))
	copy(out, in)
	return out
}
