// Package moderation masks forbidden words in regular message text before
// it is persisted. Anonymous messages bypass it: they land in a separate
// inbox, not an open conversation view.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator holds an Aho-Corasick automaton built over a normalized word
// list. A nil Moderator is valid and leaves text untouched, so the filter
// can be switched off by configuration.
type Moderator struct {
	matcher *goahocorasick.Machine
	mask    rune
}

// NewModerator builds the automaton. Words are normalized the same way
// input text is, so "b4dger" in the dictionary and in a message meet in
// the middle.
func NewModerator(words []string, mask rune) (*Moderator, error) {
	if len(words) == 0 {
		return nil, nil
	}
	patterns := make([][]rune, len(words))
	for i, w := range words {
		normalized, _ := normalize([]rune(w))
		patterns[i] = normalized
	}
	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: machine, mask: mask}, nil
}

// Censor replaces every character of a matched word with the mask rune,
// preserving the original length, spacing, and surrounding punctuation.
func (m *Moderator) Censor(text string) string {
	if m == nil {
		return text
	}

	original := []rune(text)
	normalized, origIdx := normalize(original)
	if len(normalized) == 0 {
		return text
	}

	spans := m.matcher.MultiPatternSearch(normalized, false)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			original[i] = m.mask
		}
	}
	return string(original)
}

// normalize lowercases, undoes common leet substitutions, and drops
// punctuation/whitespace, keeping a map from normalized positions back to
// the original rune positions so matches can be masked in place.
func normalize(input []rune) ([]rune, []int) {
	out := make([]rune, 0, len(input))
	origIdx := make([]int, 0, len(input))
	for i, r := range input {
		clean := unleet(r)
		if unicode.IsPunct(clean) || unicode.IsSpace(clean) || unicode.IsSymbol(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
		origIdx = append(origIdx, i)
	}
	return out, origIdx
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
