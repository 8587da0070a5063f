package repscan_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/repscan"
	"github.com/stretchr/testify/assert"
)

func testPolicy() *repscan.Policy {
	return &repscan.Policy{
		Subject:  "Banco Master",
		Language: "Brazilian Portuguese",
		Triggers: []repscan.Trigger{
			{Phrase: "Zion Capital", Label: repscan.LabelNegative, Reason: "Mentions of Maxima Realty or Zion Capital"},
			{Phrase: "Trancoso", Label: repscan.LabelNegative},
			{Phrase: "prêmio", Label: repscan.LabelPositive, Reason: "Awards received by the bank"},
		},
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	t.Parallel()

	t.Run("names the subject", func(t *testing.T) {
		t.Parallel()

		prompt := repscan.BuildSystemPrompt(testPolicy())

		assert.Contains(t, prompt, "especially regarding Banco Master")
		assert.Contains(t, prompt, "Write the analysis in Brazilian Portuguese.")
	})

	t.Run("groups triggers by label", func(t *testing.T) {
		t.Parallel()

		prompt := repscan.BuildSystemPrompt(testPolicy())

		neg := strings.Index(prompt, "Automatically classify as NEGATIVE")
		pos := strings.Index(prompt, "Automatically classify as POSITIVE")
		assert.Greater(t, neg, -1)
		assert.Greater(t, pos, neg)
		assert.Contains(t, prompt, "- Mentions of Maxima Realty or Zion Capital\n- Trancoso\n")
	})

	t.Run("lists a shared reason once", func(t *testing.T) {
		t.Parallel()

		policy := &repscan.Policy{Triggers: []repscan.Trigger{
			{Phrase: "Maxima Realty", Label: repscan.LabelNegative, Reason: "Mentions of Maxima Realty or Zion Capital"},
			{Phrase: "Zion Capital", Label: repscan.LabelNegative, Reason: "Mentions of Maxima Realty or Zion Capital"},
		}}

		prompt := repscan.BuildSystemPrompt(policy)

		assert.Equal(t, 1, strings.Count(prompt, "Mentions of Maxima Realty or Zion Capital"))
	})

	t.Run("omits trigger section without triggers", func(t *testing.T) {
		t.Parallel()

		prompt := repscan.BuildSystemPrompt(&repscan.Policy{})

		assert.NotContains(t, prompt, "Automatically classify")
		assert.NotContains(t, prompt, "especially regarding")
		assert.Contains(t, prompt, "POSITIVE, NEGATIVE or NEUTRAL")
	})
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	t.Run("quotes the content", func(t *testing.T) {
		t.Parallel()

		prompt := repscan.BuildUserPrompt(&repscan.ClassifyRequest{Text: "Banco Master comprou uma mansão."}, 0)

		assert.Contains(t, prompt, "Analyse the content below:\n\n\"\"\"Banco Master comprou uma mansão.\"\"\"")
		assert.NotContains(t, prompt, "trigger phrases")
	})

	t.Run("truncates long content", func(t *testing.T) {
		t.Parallel()

		prompt := repscan.BuildUserPrompt(&repscan.ClassifyRequest{Text: strings.Repeat("ã", 50)}, 10)

		assert.Contains(t, prompt, "\"\"\""+strings.Repeat("ã", 10)+"\"\"\"")
	})

	t.Run("lists matched triggers with forced label", func(t *testing.T) {
		t.Parallel()

		req := &repscan.ClassifyRequest{
			URL:  "https://example.com/news",
			Text: "text",
			Triggers: []repscan.Trigger{
				{Phrase: "prêmio", Label: repscan.LabelPositive},
				{Phrase: "Trancoso", Label: repscan.LabelNegative, Reason: "mansion purchase"},
			},
		}

		prompt := repscan.BuildUserPrompt(req, 0)

		assert.Contains(t, prompt, "Source: https://example.com/news")
		assert.Contains(t, prompt, "must be classified as NEGATIVE")
		assert.Contains(t, prompt, "- \"Trancoso\" (NEGATIVE): mansion purchase")
	})
}

func TestForcedLabel(t *testing.T) {
	t.Parallel()

	assert.Empty(t, repscan.ForcedLabel(nil))
	assert.Equal(t, repscan.LabelPositive, repscan.ForcedLabel([]repscan.Trigger{{Label: repscan.LabelPositive}, {Label: repscan.LabelNeutral}}))
	assert.Equal(t, repscan.LabelNegative, repscan.ForcedLabel([]repscan.Trigger{{Label: repscan.LabelNeutral}, {Label: repscan.LabelNegative}}))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", repscan.Truncate("abc", 0))
	assert.Equal(t, "abc", repscan.Truncate("abc", 5))
	assert.Equal(t, "mans", repscan.Truncate("mansão", 4))
	assert.Equal(t, "mansã", repscan.Truncate("mansão", 5))
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts known labels", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, testPolicy().Validate())
	})

	t.Run("rejects unknown label", func(t *testing.T) {
		t.Parallel()

		p := &repscan.Policy{Triggers: []repscan.Trigger{{Phrase: "x", Label: "BAD"}}}

		err := p.Validate()
		assert.Equal(t, repscan.EINVALID, repscan.ErrorCode(err))
		assert.Contains(t, repscan.ErrorMessage(err), "invalid label")
	})

	t.Run("rejects empty phrase", func(t *testing.T) {
		t.Parallel()

		p := &repscan.Policy{Triggers: []repscan.Trigger{{Label: repscan.LabelNegative}}}

		assert.Equal(t, repscan.EINVALID, repscan.ErrorCode(p.Validate()))
	})
}
