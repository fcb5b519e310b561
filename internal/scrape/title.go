// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape turns PubMed result-listing HTML into Records.
package scrape

import "regexp"

// NameExtractor infers an organism name from an article title. The second
// return value is false when the title yields no name.
type NameExtractor interface {
	Extract(title string) (string, bool)
}

// virusPattern matches an optional one- or two-word prefix, a mandatory
// word, and the literal "virus". Group 1 keeps any trailing whitespace.
// Word and space classes are Unicode-aware: RE2's \w and \s are ASCII only,
// and listing titles carry accented letters and no-break spaces.
var virusPattern = regexp.MustCompile(`(?i)(` + word + `+[-]*` + space + `*` + word + `+` + space + `*)?(` + word + `+)` + space + `*virus`)

const (
	word  = `[\p{L}\p{N}_]`
	space = `[\s\p{Zs}]`
)

// PatternExtractor is the default NameExtractor. It is a heuristic: it keeps
// only the first match and can fire on "virus" used as a plain noun.
type PatternExtractor struct{}

// Extract returns group 1 (if any) + group 2 + " virus" for the first match.
// "Ebola virus outbreak" gives "Ebola virus"; "A novel coronavirus variant"
// gives "A novel corona virus", since "virus" inside a word splits it.
func (PatternExtractor) Extract(title string) (string, bool) {
	m := virusPattern.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	return m[1] + m[2] + " virus", true
}

// ExtractVirusName applies the default PatternExtractor.
func ExtractVirusName(title string) (string, bool) {
	return PatternExtractor{}.Extract(title)
}
