// Package screenplay turns extracted screenplay text into ordered,
// heuristically enriched scene records.
package screenplay

import (
	"regexp"
	"strings"
)

// TimeUnspecified is the default time-of-day when a heading carries none.
const TimeUnspecified = "UNSPECIFIED"

// timeVocabulary is the fixed set of trailing time-of-day keywords a heading
// may end with.
var timeVocabulary = []string{
	"DAY", "NIGHT", "MORNING", "AFTERNOON", "EVENING",
	"DAWN", "DUSK", "LATER", "CONTINUOUS", "SAME TIME",
}

// reservedKeywords are structural screenplay tokens that can never start a
// character name.
var reservedKeywords = []string{
	"INT", "EXT", "FADE", "CUT", "DISSOLVE",
	"SCENE", "ACT", "THE", "END", "TITLE",
}

type headingMatch struct {
	location  string
	timeOfDay string
}

type headingMatcher struct {
	pattern *regexp.Regexp
	extract func(groups []string) headingMatch
}

const timeAlternation = "DAY|NIGHT|MORNING|AFTERNOON|EVENING|DAWN|DUSK|LATER|CONTINUOUS|SAME TIME"

// headingMatchers are tried in fixed priority order; the first match wins.
var headingMatchers = []headingMatcher{
	// INT./EXT./INTERIOR/EXTERIOR <location> - <time>, any dash flavour.
	{
		pattern: regexp.MustCompile(`^(?:INT\.?|EXT\.?|INTERIOR|EXTERIOR)\s+(.+?)\s*[-\x{2013}\x{2014}]\s*(.+)$`),
		extract: func(g []string) headingMatch {
			return headingMatch{location: strings.TrimSpace(g[1]), timeOfDay: strings.TrimSpace(g[2])}
		},
	},
	// INT./EXT. <location> <time keyword>.
	{
		pattern: regexp.MustCompile(`^(?:INT\.?|EXT\.?)\s+(.+?)\s+(` + timeAlternation + `)$`),
		extract: func(g []string) headingMatch {
			return headingMatch{location: strings.TrimSpace(g[1]), timeOfDay: g[2]}
		},
	},
	// Bare INT./EXT. <location>; the capture may still end in a time keyword,
	// so try a secondary split before settling for UNSPECIFIED.
	{
		pattern: regexp.MustCompile(`^(?:INT\.?|EXT\.?)\s+(.+)$`),
		extract: func(g []string) headingMatch {
			location, timeOfDay := splitTrailingTime(strings.TrimSpace(g[1]))
			return headingMatch{location: location, timeOfDay: timeOfDay}
		},
	},
	// Numbered heading: <N>. INT./EXT. <location> [- <time>].
	{
		pattern: regexp.MustCompile(`^\d+\.\s*(?:INT\.?|EXT\.?)\s+(.+?)(?:\s*[-\x{2013}\x{2014}]\s*(.+))?$`),
		extract: func(g []string) headingMatch {
			timeOfDay := TimeUnspecified
			if g[2] != "" {
				timeOfDay = strings.TrimSpace(g[2])
			}
			return headingMatch{location: strings.TrimSpace(g[1]), timeOfDay: timeOfDay}
		},
	},
	// Bare SCENE <N>.
	{
		pattern: regexp.MustCompile(`^SCENE\s+\d+$`),
		extract: func(g []string) headingMatch {
			return headingMatch{location: g[0], timeOfDay: TimeUnspecified}
		},
	},
}

// matchHeading tests a line against the heading recognizers in priority
// order.
func matchHeading(line string) (headingMatch, bool) {
	for _, m := range headingMatchers {
		if g := m.pattern.FindStringSubmatch(line); g != nil {
			return m.extract(g), true
		}
	}
	return headingMatch{}, false
}

// splitTrailingTime splits a combined "<location> <time>" capture against the
// time vocabulary.
func splitTrailingTime(s string) (string, string) {
	for _, kw := range timeVocabulary {
		if strings.HasSuffix(s, " "+kw) {
			return strings.TrimSpace(strings.TrimSuffix(s, kw)), kw
		}
	}
	return s, TimeUnspecified
}

// transitionPattern opens the very first scene when no heading has been seen
// yet.
var transitionPattern = regexp.MustCompile(`^FADE (?:IN|OUT):?$`)

// Character-cue recognizers, tried in order: a bare all-caps name, a name
// with a parenthetical (e.g. "JOHN (O.S.)"), and a name with a trailing
// colon.
var characterCuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][A-Z' .\-]{1,24}$`),
	regexp.MustCompile(`^([A-Z][A-Z' .\-]{1,24})\s*\([^)]*\)$`),
	regexp.MustCompile(`^([A-Z][A-Z' .\-]{1,24}):$`),
}

// matchCharacterCue returns the candidate character name on a line, if any.
func matchCharacterCue(line string) (string, bool) {
	for i, p := range characterCuePatterns {
		g := p.FindStringSubmatch(line)
		if g == nil {
			continue
		}
		if i == 0 {
			return strings.TrimSpace(g[0]), true
		}
		return strings.TrimSpace(g[1]), true
	}
	return "", false
}

// acceptCharacter applies the structural filters to a cue candidate: length
// 2-25, at most 4 words, no digit or reserved-keyword prefix, no duplicates
// within the scene.
func acceptCharacter(name string, existing []string) bool {
	if len(name) < 2 || len(name) > 25 {
		return false
	}
	if name[0] >= '0' && name[0] <= '9' {
		return false
	}
	for _, kw := range reservedKeywords {
		if strings.HasPrefix(name, kw) {
			return false
		}
	}
	if len(strings.Fields(name)) > 4 {
		return false
	}
	for _, e := range existing {
		if e == name {
			return false
		}
	}
	return true
}
