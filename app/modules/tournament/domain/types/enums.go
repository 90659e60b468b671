package tournamenttypes

import "fmt"

// MatchType identifies a round of the bracket. The declaration order is the
// stage order: Final is the most severe stage, Game1 the least.
type MatchType int

const (
	MatchTypeFinal MatchType = iota + 1
	MatchTypeSemiFinal
	MatchTypeQuarterFinal
	MatchTypeBonus
	MatchTypeGame4
	MatchTypeGame3
	MatchTypeGame2
	MatchTypeGame1
)

// AllMatchTypes lists every match type in stage order.
var AllMatchTypes = []MatchType{
	MatchTypeFinal,
	MatchTypeSemiFinal,
	MatchTypeQuarterFinal,
	MatchTypeBonus,
	MatchTypeGame4,
	MatchTypeGame3,
	MatchTypeGame2,
	MatchTypeGame1,
}

// FileToken returns the header spelling recognized in tournament files.
func (m MatchType) FileToken() string {
	switch m {
	case MatchTypeFinal:
		return "Final"
	case MatchTypeSemiFinal:
		return "Semifinal"
	case MatchTypeQuarterFinal:
		return "Quarterfinal"
	case MatchTypeBonus:
		return "Bonus"
	case MatchTypeGame4:
		return "Game 4"
	case MatchTypeGame3:
		return "Game 3"
	case MatchTypeGame2:
		return "Game 2"
	case MatchTypeGame1:
		return "Game 1"
	}
	return ""
}

// WireToken returns the lowercase identifier stored by the persistence layer.
func (m MatchType) WireToken() string {
	switch m {
	case MatchTypeFinal:
		return "final"
	case MatchTypeSemiFinal:
		return "semifinal"
	case MatchTypeQuarterFinal:
		return "quarterfinal"
	case MatchTypeBonus:
		return "bonus"
	case MatchTypeGame4:
		return "game_4"
	case MatchTypeGame3:
		return "game_3"
	case MatchTypeGame2:
		return "game_2"
	case MatchTypeGame1:
		return "game_1"
	}
	return ""
}

// IsValid reports whether m is one of the declared match types.
func (m MatchType) IsValid() bool {
	return m >= MatchTypeFinal && m <= MatchTypeGame1
}

// Compare orders match types by stage. It returns a negative number when m is
// a later (more severe) stage than other.
func (m MatchType) Compare(other MatchType) int {
	return int(m) - int(other)
}

func (m MatchType) String() string {
	if !m.IsValid() {
		return fmt.Sprintf("MatchType(%d)", int(m))
	}
	return m.FileToken()
}

// MatchTypeFromFileToken decodes a header token. The comparison is exact and
// case-sensitive.
func MatchTypeFromFileToken(token string) (MatchType, bool) {
	for _, m := range AllMatchTypes {
		if m.FileToken() == token {
			return m, true
		}
	}
	return 0, false
}

// MatchTypeFromWireToken decodes a persistence token.
func MatchTypeFromWireToken(token string) (MatchType, bool) {
	for _, m := range AllMatchTypes {
		if m.WireToken() == token {
			return m, true
		}
	}
	return 0, false
}

// LifeStatus is a player's state at the end of a match.
type LifeStatus int

const (
	LifeStatusAlive LifeStatus = iota + 1
	LifeStatusEliminated
	LifeStatusPlaying
)

// FileCode returns the single character used in player lines.
func (s LifeStatus) FileCode() string {
	switch s {
	case LifeStatusAlive:
		return "a"
	case LifeStatusEliminated:
		return "e"
	case LifeStatusPlaying:
		return "p"
	}
	return ""
}

// WireToken returns the persistence spelling.
func (s LifeStatus) WireToken() string {
	switch s {
	case LifeStatusAlive:
		return "alive"
	case LifeStatusEliminated:
		return "eliminated"
	case LifeStatusPlaying:
		return "playing"
	}
	return ""
}

func (s LifeStatus) String() string {
	if w := s.WireToken(); w != "" {
		return w
	}
	return fmt.Sprintf("LifeStatus(%d)", int(s))
}

// LifeStatusFromFileCode decodes a life status code. There is no fallback:
// anything other than a, e or p is rejected.
func LifeStatusFromFileCode(code string) (LifeStatus, bool) {
	switch code {
	case "a":
		return LifeStatusAlive, true
	case "e":
		return LifeStatusEliminated, true
	case "p":
		return LifeStatusPlaying, true
	}
	return 0, false
}

// ImmuneStatus records whether a player was protected during a match.
type ImmuneStatus int

const (
	ImmuneStatusNone ImmuneStatus = iota + 1
	ImmuneStatusImmune
	ImmuneStatusSaved
)

// FileCode returns the code used in player lines. None is the empty string.
func (s ImmuneStatus) FileCode() string {
	switch s {
	case ImmuneStatusImmune:
		return "i"
	case ImmuneStatusSaved:
		return "is"
	}
	return ""
}

// WireToken returns the persistence spelling.
func (s ImmuneStatus) WireToken() string {
	switch s {
	case ImmuneStatusImmune:
		return "immune"
	case ImmuneStatusSaved:
		return "saved"
	case ImmuneStatusNone:
		return "none"
	}
	return ""
}

func (s ImmuneStatus) String() string {
	if w := s.WireToken(); w != "" {
		return w
	}
	return fmt.Sprintf("ImmuneStatus(%d)", int(s))
}

// ImmuneStatusFromFileCode decodes an immune status code. The empty string is
// a valid, explicit encoding of ImmuneStatusNone.
func ImmuneStatusFromFileCode(code string) (ImmuneStatus, bool) {
	switch code {
	case "i":
		return ImmuneStatusImmune, true
	case "is":
		return ImmuneStatusSaved, true
	case "":
		return ImmuneStatusNone, true
	}
	return 0, false
}

// LifeStatusFromWireToken decodes a persistence token.
func LifeStatusFromWireToken(token string) (LifeStatus, bool) {
	for _, s := range []LifeStatus{LifeStatusAlive, LifeStatusEliminated, LifeStatusPlaying} {
		if s.WireToken() == token {
			return s, true
		}
	}
	return 0, false
}

// ImmuneStatusFromWireToken decodes a persistence token.
func ImmuneStatusFromWireToken(token string) (ImmuneStatus, bool) {
	for _, s := range []ImmuneStatus{ImmuneStatusNone, ImmuneStatusImmune, ImmuneStatusSaved} {
		if s.WireToken() == token {
			return s, true
		}
	}
	return 0, false
}
