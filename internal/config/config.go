// Package config defines the linter configuration and loads it from YAML.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvVar names the environment variable that may point at a config file.
const EnvVar = "DWG_CONFIG"

// FileNames are the config files Discover looks for, in order.
var FileNames = []string{".dwg.yaml", ".dwg.yml"}

// HeadingStyle is the capitalisation policy for headings.
type HeadingStyle string

const (
	HeadingAny          HeadingStyle = "any"
	HeadingSentenceCase HeadingStyle = "sentence-case"
	HeadingTitleCase    HeadingStyle = "title-case"
)

// QuoteStyle is the quotation mark policy.
type QuoteStyle string

const (
	QuoteAny      QuoteStyle = "any"
	QuoteStraight QuoteStyle = "straight"
)

// Config is the full linter configuration. It is immutable once an analyzer
// has been built from it.
type Config struct {
	HeadingStyle    HeadingStyle    `yaml:"heading_style" validate:"oneof=any sentence-case title-case"`
	QuoteStyle      QuoteStyle      `yaml:"quote_style" validate:"oneof=any straight"`
	Limits          Limits          `yaml:"limits"`
	Scores          Scores          `yaml:"scores"`
	Whitelist       Whitelist       `yaml:"whitelist"`
	Buzzwords       Throttle        `yaml:"buzzwords"`
	Transitions     Throttle        `yaml:"transitions"`
	Puffery         Ban             `yaml:"puffery"`
	Weasel          Ban             `yaml:"weasel"`
	Marketing       Ban             `yaml:"marketing_cliches"`
	Templates       Ban             `yaml:"templates"`
	ProfileDefaults ProfileRules    `yaml:"profile_defaults"`
	Profiles        []ProfileConfig `yaml:"profiles" validate:"dive"`
}

// Limits are per-paragraph, per-sentence and per-list thresholds.
type Limits struct {
	EmDashesPerParagraph    int `yaml:"em_dashes_per_paragraph" validate:"gte=0"`
	ConnectorsPerSentence   int `yaml:"connectors_per_sentence" validate:"gte=0"`
	RuleOfThreePerParagraph int `yaml:"rule_of_three_per_paragraph" validate:"gte=0"`
	BoldSpansPerParagraph   int `yaml:"bold_spans_per_paragraph" validate:"gte=0"`
	BoldLeadBulletsPerList  int `yaml:"bold_lead_bullets_per_list" validate:"gte=0"`
}

// Scores are density thresholds in diagnostics per 100 words. Zero disables a threshold.
type Scores struct {
	WarnThreshold float64 `yaml:"warn_threshold_per_100w" validate:"gte=0"`
	FailThreshold float64 `yaml:"fail_threshold_per_100w" validate:"gte=0"`
}

// Whitelist suppresses diagnostics whose snippet matches an allowed phrase.
type Whitelist struct {
	AllowedTypos   []string `yaml:"allowed_typos"`
	AllowedPhrases []string `yaml:"allowed_phrases"`
}

// Throttle is a phrase list subject to cluster suppression.
type Throttle struct {
	Throttle []string `yaml:"throttle"`
}

// Ban is a phrase (or, for templates, regex) list that is always flagged.
type Ban struct {
	Ban []string `yaml:"ban"`
}

// ProfileConfig is a named, glob-selected set of rule overrides.
type ProfileConfig struct {
	Name    string       `yaml:"name" validate:"required"`
	Globs   []string     `yaml:"globs"`
	Extends string       `yaml:"extends,omitempty"`
	Rules   ProfileRules `yaml:"rules"`
}

// ProfileRules is the superset of tunable rule options. Nil scalars are unset.
type ProfileRules struct {
	MaxHeadings                 *int     `yaml:"max_headings,omitempty" validate:"omitempty,gte=0"`
	RequiredHeadings            []string `yaml:"required_headings,omitempty"`
	BannedHeadings              []string `yaml:"banned_headings,omitempty"`
	CallToActionPhrases         []string `yaml:"call_to_action_phrases,omitempty"`
	TemplatePhrases             []string `yaml:"template_phrases,omitempty"`
	MaxSentenceLength           *int     `yaml:"max_sentence_length,omitempty" validate:"omitempty,gte=1"`
	MaxDuplicateSentences       *int     `yaml:"max_duplicate_sentences,omitempty" validate:"omitempty,gte=0"`
	CadenceStarts               []string `yaml:"cadence_starts,omitempty"`
	CadenceLimit                *int     `yaml:"cadence_limit,omitempty" validate:"omitempty,gte=0"`
	BroadTerms                  []string `yaml:"broad_terms,omitempty"`
	ConfidencePhrases           []string `yaml:"confidence_phrases,omitempty"`
	MaxHeadingDepth             *int     `yaml:"max_heading_depth,omitempty" validate:"omitempty,gte=1,lte=6"`
	MaxBulletItems              *int     `yaml:"max_bullet_items,omitempty" validate:"omitempty,gte=1"`
	ForbidRhetoricalHeadings    bool     `yaml:"forbid_rhetorical_headings,omitempty"`
	RequiredPatterns            []string `yaml:"required_patterns,omitempty"`
	ForbiddenPatterns           []string `yaml:"forbidden_patterns,omitempty"`
	MaxExclamationsPerParagraph *int     `yaml:"max_exclamations_per_paragraph,omitempty" validate:"omitempty,gte=0"`
	QuestionLeadLimit           *int     `yaml:"question_lead_limit,omitempty" validate:"omitempty,gte=0"`
	MinSentencesPerSection      *int     `yaml:"min_sentences_per_section,omitempty" validate:"omitempty,gte=0"`
	MinCodeBlocks               *int     `yaml:"min_code_blocks,omitempty" validate:"omitempty,gte=0"`
	EnableTriadSlop             bool     `yaml:"enable_triad_slop,omitempty"`
}

// Clone returns a deep copy of r.
func (r ProfileRules) Clone() ProfileRules {
	out := r
	for _, p := range []**int{
		&out.MaxHeadings, &out.MaxSentenceLength, &out.MaxDuplicateSentences,
		&out.CadenceLimit, &out.MaxHeadingDepth, &out.MaxBulletItems,
		&out.MaxExclamationsPerParagraph, &out.QuestionLeadLimit,
		&out.MinSentencesPerSection, &out.MinCodeBlocks,
	} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	for _, l := range []*[]string{
		&out.RequiredHeadings, &out.BannedHeadings, &out.CallToActionPhrases,
		&out.TemplatePhrases, &out.CadenceStarts, &out.BroadTerms,
		&out.ConfidencePhrases, &out.RequiredPatterns, &out.ForbiddenPatterns,
	} {
		if *l != nil {
			*l = append([]string(nil), (*l)...)
		}
	}
	return out
}

// Int returns a pointer to v, for building ProfileRules literals.
func Int(v int) *int { return &v }

// Default returns the built-in configuration.
func Default() *Config {
	var c Config
	if err := decode(defaultsYAML, &c); err != nil {
		panic(fmt.Sprintf("config.Default: embedded defaults: %v", err))
	}
	return &c
}

// Parse decodes YAML over the built-in defaults. Keys present in data
// replace the defaults; absent keys keep them. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := decode(data, c); err != nil {
		return nil, &LoadError{Message: "parse", Cause: err}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "read", Cause: err}
	}
	c, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return c, nil
}

func decode(data []byte, out *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Discover returns the first of FileNames present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Locate picks the config file to use: an explicit path wins, then the
// EnvVar environment variable, then a discovered file in dir. An empty
// result means the built-in defaults apply.
func Locate(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	if env := strings.TrimSpace(os.Getenv(EnvVar)); env != "" {
		return env
	}
	if p, ok := Discover(dir); ok {
		return p
	}
	return ""
}

// Validate checks enum values, non-negative limits and profile names.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return &LoadError{Message: "invalid config", Cause: err}
	}
	s := c.Scores
	if s.FailThreshold < s.WarnThreshold {
		return &LoadError{Message: fmt.Sprintf("fail_threshold_per_100w (%g) is below warn_threshold_per_100w (%g)", s.FailThreshold, s.WarnThreshold)}
	}
	return nil
}

// LoadError reports a config file that could not be read, parsed or validated.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	prefix := "config"
	if e.Path != "" {
		prefix = "config " + e.Path
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
