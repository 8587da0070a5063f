package repscan

import "context"

// Label is a reputation classification.
type Label string

// Classification labels.
const (
	LabelPositive Label = "POSITIVE"
	LabelNegative Label = "NEGATIVE"
	LabelNeutral  Label = "NEUTRAL"
)

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	return l == LabelPositive || l == LabelNegative || l == LabelNeutral
}

// Trigger forces a classification when its phrase appears in the content.
type Trigger struct {
	Phrase string `yaml:"phrase"`
	Label  Label  `yaml:"label"`
	Reason string `yaml:"reason"`
}

// Policy configures how content is classified.
type Policy struct {
	// Subject is the person or organisation whose reputation is assessed.
	Subject string `yaml:"subject"`

	// Language is the language the analysis is written in.
	Language string `yaml:"language"`

	// Instructions are appended to the system prompt verbatim.
	Instructions string `yaml:"instructions"`

	Triggers []Trigger `yaml:"triggers"`
}

// Validate returns an error if the policy contains invalid fields.
func (p *Policy) Validate() error {
	for i, t := range p.Triggers {
		if t.Phrase == "" {
			return Errorf(EINVALID, "trigger %d: phrase required", i+1)
		}
		if !t.Label.Valid() {
			return Errorf(EINVALID, "trigger %q: invalid label %q", t.Phrase, t.Label)
		}
	}
	return nil
}

// TriggerMatcher finds policy triggers in text.
type TriggerMatcher interface {
	// Match returns the triggers whose phrase occurs in text, in policy order.
	Match(text string) []Trigger
}

// ClassifyRequest is the input to a Classifier.
type ClassifyRequest struct {
	URL  string
	Text string

	// Triggers lists the policy triggers found in Text.
	Triggers []Trigger
}

// Classifier produces a reputation classification with rationale.
type Classifier interface {
	// Classify returns the model's analysis of the request text.
	// Returns EUNAVAILABLE when the model cannot be reached or answers
	// with nothing.
	Classify(ctx context.Context, req *ClassifyRequest) (string, error)
}
