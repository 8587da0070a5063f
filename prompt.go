package repscan

import (
	"fmt"
	"strings"
)

// DefaultMaxInputChars bounds the amount of extracted text sent to a model.
const DefaultMaxInputChars = 12000

// BuildSystemPrompt renders the analyst instructions for a policy.
// Triggers are listed grouped by label so the model applies them even when
// they are phrased differently in the content.
func BuildSystemPrompt(p *Policy) string {
	var sb strings.Builder
	sb.WriteString("You are a Digital Reputation Analyst specialised in content assessment. ")
	sb.WriteString("Your job is to objectively analyse web content with a focus on reputational impact")
	if p.Subject != "" {
		fmt.Fprintf(&sb, ", especially regarding %s", p.Subject)
	}
	sb.WriteString(". When uncertain, state your limitations clearly instead of assuming information.\n\n")

	sb.WriteString("Classify the content as POSITIVE, NEGATIVE or NEUTRAL based on:\n")
	sb.WriteString("- Potential impact on reputation\n")
	sb.WriteString("- Reliability of the source\n")
	sb.WriteString("- Specific content (including criticism, praise, facts and language used)\n\n")

	for _, label := range triggerLabels(p.Triggers) {
		fmt.Fprintf(&sb, "Automatically classify as %s any content that mentions:\n", label)
		listed := make(map[string]bool)
		for _, t := range p.Triggers {
			if t.Label != label {
				continue
			}
			desc := t.Reason
			if desc == "" {
				desc = t.Phrase
			}
			if listed[desc] {
				continue
			}
			listed[desc] = true
			fmt.Fprintf(&sb, "- %s\n", desc)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("For each analysis, provide:\n")
	sb.WriteString("- Classification (POSITIVE/NEGATIVE/NEUTRAL)\n")
	sb.WriteString("- Main factors that influenced the classification\n")
	sb.WriteString("- Assessment of the source's credibility\n")
	sb.WriteString("- Specific excerpts or elements that justify the classification\n")
	sb.WriteString("- Potential reputational impact\n\n")
	sb.WriteString("Use professional and objective language. Do not judge based on personal opinion, only on content and impact.")

	if p.Language != "" {
		fmt.Fprintf(&sb, "\nWrite the analysis in %s.", p.Language)
	}
	if p.Instructions != "" {
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(p.Instructions))
	}
	return sb.String()
}

// BuildUserPrompt renders the user message for a classification request.
// The text is truncated to maxChars characters; maxChars <= 0 disables it.
func BuildUserPrompt(req *ClassifyRequest, maxChars int) string {
	var sb strings.Builder
	if req.URL != "" {
		fmt.Fprintf(&sb, "Source: %s\n\n", req.URL)
	}
	sb.WriteString("Analyse the content below:\n\n")
	fmt.Fprintf(&sb, "\"\"\"%s\"\"\"", Truncate(req.Text, maxChars))

	if len(req.Triggers) > 0 {
		fmt.Fprintf(&sb, "\n\nThe content mentions the following trigger phrases and must be classified as %s:\n", ForcedLabel(req.Triggers))
		for _, t := range req.Triggers {
			if t.Reason != "" {
				fmt.Fprintf(&sb, "- %q (%s): %s\n", t.Phrase, t.Label, t.Reason)
			} else {
				fmt.Fprintf(&sb, "- %q (%s)\n", t.Phrase, t.Label)
			}
		}
	}
	return sb.String()
}

// ForcedLabel returns the label matched triggers force on the content.
// NEGATIVE wins over any other label; otherwise the first trigger decides.
// Returns "" when triggers is empty.
func ForcedLabel(triggers []Trigger) Label {
	if len(triggers) == 0 {
		return ""
	}
	for _, t := range triggers {
		if t.Label == LabelNegative {
			return LabelNegative
		}
	}
	return triggers[0].Label
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	if n <= 0 || TextLength(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func triggerLabels(triggers []Trigger) []Label {
	var labels []Label
	seen := make(map[Label]bool)
	for _, t := range triggers {
		if !seen[t.Label] {
			seen[t.Label] = true
			labels = append(labels, t.Label)
		}
	}
	return labels
}
