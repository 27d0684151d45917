package profile

import (
	"fmt"
	"strings"

	"github.com/dshills/dwg/internal/config"
)

// DefaultName is the profile that always exists, seeded from profile_defaults.
const DefaultName = "default"

// Recipe is a profile after inheritance has been applied.
type Recipe struct {
	Name    string
	Extends string
	Globs   []string
	Rules   config.ProfileRules
}

// ResolutionError reports an unknown parent, a cycle or a bad profile name.
type ResolutionError struct {
	Profile string
	Message string
}

func (e *ResolutionError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("profile: %s", e.Message)
	}
	return fmt.Sprintf("profile %q: %s", e.Profile, e.Message)
}

// Merge applies over on top of base: scalars present in over replace those
// in base, lists append and boolean flags OR together.
func Merge(base, over config.ProfileRules) config.ProfileRules {
	out := base.Clone()

	setInt(&out.MaxHeadings, over.MaxHeadings)
	setInt(&out.MaxSentenceLength, over.MaxSentenceLength)
	setInt(&out.MaxDuplicateSentences, over.MaxDuplicateSentences)
	setInt(&out.CadenceLimit, over.CadenceLimit)
	setInt(&out.MaxHeadingDepth, over.MaxHeadingDepth)
	setInt(&out.MaxBulletItems, over.MaxBulletItems)
	setInt(&out.MaxExclamationsPerParagraph, over.MaxExclamationsPerParagraph)
	setInt(&out.QuestionLeadLimit, over.QuestionLeadLimit)
	setInt(&out.MinSentencesPerSection, over.MinSentencesPerSection)
	setInt(&out.MinCodeBlocks, over.MinCodeBlocks)

	out.RequiredHeadings = append(out.RequiredHeadings, over.RequiredHeadings...)
	out.BannedHeadings = append(out.BannedHeadings, over.BannedHeadings...)
	out.CallToActionPhrases = append(out.CallToActionPhrases, over.CallToActionPhrases...)
	out.TemplatePhrases = append(out.TemplatePhrases, over.TemplatePhrases...)
	out.CadenceStarts = append(out.CadenceStarts, over.CadenceStarts...)
	out.BroadTerms = append(out.BroadTerms, over.BroadTerms...)
	out.ConfidencePhrases = append(out.ConfidencePhrases, over.ConfidencePhrases...)
	out.RequiredPatterns = append(out.RequiredPatterns, over.RequiredPatterns...)
	out.ForbiddenPatterns = append(out.ForbiddenPatterns, over.ForbiddenPatterns...)

	out.ForbidRhetoricalHeadings = out.ForbidRhetoricalHeadings || over.ForbidRhetoricalHeadings
	out.EnableTriadSlop = out.EnableTriadSlop || over.EnableTriadSlop
	return out
}

func setInt(dst **int, v *int) {
	if v != nil {
		n := *v
		*dst = &n
	}
}

// Resolve builds a recipe for every profile: the default profile, the
// user profiles in declaration order, then the built-in presets that no
// user profile shadows. The returned slice keeps that order, which is also
// the glob selection order.
func Resolve(defaults config.ProfileRules, user, builtin []config.ProfileConfig) ([]*Recipe, error) {
	byName := make(map[string]config.ProfileConfig)
	var order []string

	for _, p := range user {
		name := strings.TrimSpace(p.Name)
		switch {
		case name == "":
			return nil, &ResolutionError{Message: "profile name is empty"}
		case name == DefaultName:
			return nil, &ResolutionError{Profile: name, Message: "name is reserved"}
		}
		if _, dup := byName[name]; dup {
			return nil, &ResolutionError{Profile: name, Message: "defined more than once"}
		}
		p.Name = name
		byName[name] = p
		order = append(order, name)
	}
	for _, p := range builtin {
		if _, shadowed := byName[p.Name]; shadowed {
			continue
		}
		byName[p.Name] = p
		order = append(order, p.Name)
	}

	r := &resolver{
		defaults: defaults,
		configs:  byName,
		done:     make(map[string]*Recipe),
		visiting: make(map[string]bool),
	}
	out := []*Recipe{{Name: DefaultName, Rules: defaults.Clone()}}
	for _, name := range order {
		rec, err := r.resolve(name, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

type resolver struct {
	defaults config.ProfileRules
	configs  map[string]config.ProfileConfig
	done     map[string]*Recipe
	visiting map[string]bool
}

func (r *resolver) resolve(name string, chain []string) (*Recipe, error) {
	if rec, ok := r.done[name]; ok {
		return rec, nil
	}
	if r.visiting[name] {
		cycle := append(append([]string(nil), chain...), name)
		return nil, &ResolutionError{Profile: cycle[0], Message: "extends cycle: " + strings.Join(cycle, " -> ")}
	}
	cfg, ok := r.configs[name]
	if !ok {
		from := ""
		if len(chain) > 0 {
			from = chain[len(chain)-1]
		}
		return nil, &ResolutionError{Profile: from, Message: fmt.Sprintf("extends unknown profile %q", name)}
	}

	r.visiting[name] = true
	defer delete(r.visiting, name)

	base := r.defaults
	parent := strings.TrimSpace(cfg.Extends)
	if parent != "" && parent != DefaultName {
		p, err := r.resolve(parent, append(chain, name))
		if err != nil {
			return nil, err
		}
		base = p.Rules
	}

	rec := &Recipe{
		Name:    name,
		Extends: parent,
		Globs:   append([]string(nil), cfg.Globs...),
		Rules:   Merge(base, cfg.Rules),
	}
	r.done[name] = rec
	return rec, nil
}
