package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhraseMatcherNormalises(t *testing.T) {
	m := NewPhraseMatcher([]string{" Robust ", "robust", "", "Seamless"})
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"robust", "seamless"}, m.phrases)
}

func TestPhraseMatcherEmpty(t *testing.T) {
	m := NewPhraseMatcher(nil)
	assert.Nil(t, m.FindAll("anything robust"))
	assert.Zero(t, m.Len())
}

func TestFindAllWordBoundaries(t *testing.T) {
	m := NewPhraseMatcher([]string{"utilize", "robust", "deploy"})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "We utilize it.", []string{"utilize"}},
		{"suffix d", "We utilized it.", []string{"utilized"}},
		{"suffix ing", "Deploying it", []string{"Deploying"}},
		{"suffix ly", "robustly built", []string{"robustly"}},
		{"suffix then underscore", "utilized_internally", nil},
		{"prefix word char", "unrobust", nil},
		{"hyphen prefix", "non-robust", nil},
		{"inside word", "robustness", nil},
		{"case insensitive", "ROBUST design", []string{"ROBUST"}},
		{"punctuation after", "robust, fast", []string{"robust"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, h := range m.FindAll(tt.text) {
				got = append(got, tt.text[h.Start:h.End])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAllReportsPhrase(t *testing.T) {
	m := NewPhraseMatcher([]string{"stands as a testament", "testament to"})
	text := "This update stands as a testament to progress."
	hits := m.FindAll(text)
	require.Len(t, hits, 1)
	assert.Equal(t, "stands as a testament", hits[0].Phrase)
	assert.Equal(t, 12, hits[0].Start)
}

func TestBounded(t *testing.T) {
	end, ok := Bounded("cats!", 0, 3)
	assert.True(t, ok)
	assert.Equal(t, 4, end)

	_, ok = Bounded("catsup", 0, 3)
	assert.False(t, ok)

	end, ok = Bounded("a cat", 2, 5)
	assert.True(t, ok)
	assert.Equal(t, 5, end)
}

func TestHasSpecificity(t *testing.T) {
	yes := []string{
		"We used API v2.",
		"Bumped to 1.4.2",
		"Fixes JIRA-123",
		"See #42 for details",
		"Call getUserName first",
		"The HttpClient type",
		"Set max_retries",
		"Use MAX_RETRIES",
		"Edit cmd/dwg/main.go",
		"Read config.yaml",
		"See https://example.com",
		"As shown in Figure 3",
		"Latency dropped to 40 ms",
		"Grew by 12%",
	}
	for _, s := range yes {
		assert.True(t, HasSpecificity(s), s)
	}
	no := []string{
		"We used a robust API for the rollout.",
		"This is a seamless experience.",
		"",
	}
	for _, s := range no {
		assert.False(t, HasSpecificity(s), s)
	}
}

func TestHasCitation(t *testing.T) {
	yes := []string{
		"Experts say so [1].",
		"Studies show [2, 3].",
		"See [the report](https://example.com).",
		"As argued (Smith, 2020).",
		"Per doi:10.1000/xyz123",
		"Found in 10.1145/3290605.3300233",
	}
	for _, s := range yes {
		assert.True(t, HasCitation(s), s)
	}
	assert.False(t, HasCitation("Experts say the change improved results."))
}

func TestPercentInContext(t *testing.T) {
	text := "95% of requests succeeded. Our model hits 95% accuracy every time."
	locs := ConfidencePercent.FindAllStringIndex(text, -1)
	require.Len(t, locs, 2)
	assert.True(t, PercentInContext(text, locs[0][0]))
	assert.False(t, PercentInContext(text, locs[1][0]))
}

func TestStaticPatterns(t *testing.T) {
	assert.True(t, RuleOfThree.MatchString("fast, cheap, and good"))
	assert.True(t, RuleOfThree.MatchString("red, green, & blue"))
	assert.False(t, RuleOfThree.MatchString("fast and cheap"))

	assert.True(t, TriRange.MatchString("From startups to enterprises to governments"))
	assert.True(t, Passive.MatchString("The file was quickly written"))
	assert.True(t, Passive.MatchString("It is taken"))
	assert.False(t, Passive.MatchString("We wrote the file"))

	assert.Equal(t, []string{"**a**", "__b__"}, BoldSpan.FindAllString("**a** and __b__", -1))
	assert.True(t, MidSentenceQuestion.MatchString("Why? because"))
	assert.False(t, MidSentenceQuestion.MatchString("Why? Because"))

	assert.True(t, NotWord.MatchString("not only X"))
	assert.False(t, NotWord.MatchString("I cannot"))
}

func TestCompileFold(t *testing.T) {
	re, err := CompileFold("as an ai")
	require.NoError(t, err)
	assert.True(t, re.MatchString("As An AI model"))

	_, err = CompileFold("(unclosed")
	assert.Error(t, err)

	_, err = CompileFold("  ")
	assert.Error(t, err)
}
