package assist

import (
	"strings"
	"sync"
	"unicode"
)

type Mode int

const (
	ModeSilent Mode = iota
	ModeActive
	ModeResponding
)

func (m Mode) String() string {
	switch m {
	case ModeSilent:
		return "silent"
	case ModeActive:
		return "active"
	case ModeResponding:
		return "responding"
	}
	return "unknown"
}

type GateConfig struct {
	AlwaysOn    bool
	WakePhrases []string
}

// Decision is the outcome of gating one utterance.
type Decision struct {
	Forward    bool
	Query      string
	WakePhrase string
	EmptyQuery bool
}

// Gate decides whether a finalized utterance is forwarded to the
// active persona. In wake mode it owns the listening mode machine:
// silent -> active -> responding -> silent.
type Gate struct {
	mu      sync.RWMutex
	mode    Mode
	muted   bool
	always  bool
	phrases []string
}

func NewGate(cfg GateConfig) *Gate {
	phrases := make([]string, 0, len(cfg.WakePhrases))
	for _, p := range cfg.WakePhrases {
		cleaned, _ := normalize(p)
		if cleaned != "" {
			phrases = append(phrases, cleaned)
		}
	}

	return &Gate{
		always:  cfg.AlwaysOn,
		phrases: phrases,
	}
}

// Evaluate gates one utterance. Wake matching is done on a normalized
// copy of the text: lower-cased, punctuation stripped, whitespace
// collapsed. The effective query is extracted from the original text
// so its casing survives.
func (g *Gate) Evaluate(text string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.muted {
		return Decision{}
	}

	if g.always {
		query := strings.TrimSpace(text)
		if query == "" {
			return Decision{}
		}
		g.mode = ModeActive
		return Decision{Forward: true, Query: query}
	}

	// One full reply cycle per wake. Utterances arriving while a
	// reply is in flight are recorded by the caller but not gated.
	if g.mode != ModeSilent {
		return Decision{}
	}

	cleaned, index := normalize(text)

	at, phrase := earliestMatch(cleaned, g.phrases)
	if at < 0 {
		return Decision{}
	}

	g.mode = ModeActive

	query := extractQuery(text, index, at+len(phrase))
	if query == "" {
		return Decision{Forward: true, WakePhrase: phrase, EmptyQuery: true}
	}

	return Decision{Forward: true, Query: query, WakePhrase: phrase}
}

func (g *Gate) Mode() Mode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mode
}

func (g *Gate) MarkResponding() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = ModeResponding
}

// Reset returns the gate to silent. It is called when a reply cycle
// ends, whether the reply succeeded or not.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = ModeSilent
}

func (g *Gate) SetMuted(muted bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.muted = muted
}

func (g *Gate) Muted() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.muted
}

// =====================================================================================================================

// normalize lower-cases s, strips punctuation and symbols, and
// collapses whitespace runs into single spaces. It also returns an
// index mapping every byte of the normalized text back to its byte
// offset in s, so a match can be located in the original text.
func normalize(s string) (string, []int) {
	var b strings.Builder
	index := make([]int, 0, len(s))

	spaceAt := -1
	for i, r := range s {
		switch {
		case isWordRune(r):
			if spaceAt >= 0 && b.Len() > 0 {
				b.WriteByte(' ')
				index = append(index, spaceAt)
			}
			spaceAt = -1

			n, _ := b.WriteRune(unicode.ToLower(r))
			for j := 0; j < n; j++ {
				index = append(index, i)
			}

		case unicode.IsSpace(r):
			if spaceAt < 0 {
				spaceAt = i
			}
		}
	}

	return b.String(), index
}

func earliestMatch(cleaned string, phrases []string) (int, string) {
	at := -1
	var match string

	for _, p := range phrases {
		i := indexWord(cleaned, p)
		if i < 0 {
			continue
		}
		if at < 0 || i < at || (i == at && len(p) > len(match)) {
			at = i
			match = p
		}
	}

	return at, match
}

// indexWord finds p in s aligned on word boundaries, so "alex" never
// matches inside "alexander". The normalized text only contains word
// runes and single spaces, which makes the boundary check a byte compare.
func indexWord(s, p string) int {
	if p == "" {
		return -1
	}

	for from := 0; from+len(p) <= len(s); {
		i := strings.Index(s[from:], p)
		if i < 0 {
			return -1
		}
		i += from

		startOK := i == 0 || s[i-1] == ' '
		endOK := i+len(p) == len(s) || s[i+len(p)] == ' '
		if startOK && endOK {
			return i
		}

		from = i + 1
	}

	return -1
}

func extractQuery(text string, index []int, end int) string {
	if end >= len(index) {
		return ""
	}

	suffix := text[index[end]:]
	suffix = strings.TrimLeftFunc(suffix, func(r rune) bool {
		return !isWordRune(r)
	})

	return strings.TrimSpace(suffix)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
