package plantuml

import "strings"

// Diagram type labels returned by Classify.
const (
	TypeSequence  = "Sequence"
	TypeClass     = "Class"
	TypeUseCase   = "Use Case"
	TypeActivity  = "Activity"
	TypeState     = "State"
	TypeComponent = "Component"
	TypeJSON      = "JSON"
	TypeYAML      = "YAML"
	TypeMindMap   = "MindMap"
	TypeGantt     = "Gantt"
	TypeUnknown   = "Unknown"
)

// classifyRule maps a keyword set to a diagram type label.
type classifyRule struct {
	label    string
	keywords []string
}

// classifyRules is scanned in order and the first match wins. The order is
// significant: several rules can match the same text (e.g. a class diagram
// containing "->"), so it must not be reordered.
var classifyRules = []classifyRule{
	{TypeSequence, []string{"participant", "sequence", "->"}},
	{TypeClass, []string{"class", "interface"}},
	{TypeUseCase, []string{"usecase", "actor"}},
	{TypeActivity, []string{"activity", ":start", "fork"}},
	{TypeState, []string{"state", "[*]"}},
	{TypeComponent, []string{"component", "database"}},
	{TypeJSON, []string{"json"}},
	{TypeYAML, []string{"yaml"}},
	{TypeMindMap, []string{"mindmap"}},
	{TypeGantt, []string{"gantt"}},
}

// Classify returns a coarse diagram type label for the given source text.
// It is a case-insensitive keyword scan, not a parser: it never fails and
// always returns some label, TypeUnknown when nothing matches.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range classifyRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.label
			}
		}
	}
	return TypeUnknown
}
