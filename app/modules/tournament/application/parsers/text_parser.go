package parsers

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

const (
	versionPrefix   = "v"
	headerMarker    = "#"
	fieldSeparator  = ":"
	playerLineParts = 5
	maxLineBytes    = 1024 * 1024
	utf8BOM         = "\ufeff"
)

// TextParser parses the plain-text tournament format:
//
//	v<int>
//	[#...]<header>
//	<immune>:<life>:<rank>:<user_id>:<username>
//	...
//	<blank line>
type TextParser struct{}

// NewTextParser creates a new text parser.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse parses a whole tournament file held in memory.
func (p *TextParser) Parse(data []byte, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error) {
	return p.ParseReader(bytes.NewReader(data), meta)
}

// ParseReader reads every line from r and parses them. A read error before
// the end of input is reported as ErrSourceExhausted.
func (p *TextParser) ParseReader(r io.Reader, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, newParseError(len(lines)+1, "", ErrSourceExhausted, err)
	}

	return p.ParseLines(lines, meta)
}

// ParseLines runs a single forward pass over lines. It never returns a
// partially populated tournament: on error the tournament is nil.
func (p *TextParser) ParseLines(lines []string, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error) {
	if len(lines) == 0 {
		return nil, newParseError(0, "", ErrMissingVersion, nil)
	}

	version, err := parseVersion(strings.TrimPrefix(lines[0], utf8BOM))
	if err != nil {
		return nil, err
	}

	sm := &lineStateMachine{}
	for i := 1; i < len(lines); i++ {
		if err := sm.feed(i+1, lines[i]); err != nil {
			return nil, err
		}
	}

	return &tournamenttypes.ParsedTournament{
		Version: version,
		Matches: sm.finish(),
		Date:    meta.Date,
		Title:   meta.Title,
		Link:    meta.Link,
	}, nil
}

func parseVersion(raw string) (int, error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return 0, newParseError(1, raw, ErrMissingVersion, nil)
	}
	if !strings.HasPrefix(line, versionPrefix) {
		return 0, newParseError(1, raw, ErrInvalidVersion, nil)
	}
	version, err := parseInt32(strings.TrimPrefix(line, versionPrefix))
	if err != nil {
		return 0, newParseError(1, raw, ErrInvalidVersion, err)
	}
	return version, nil
}

type parseState int

const (
	stateSeekingHeader parseState = iota
	stateInPlayerBlock
)

// lineStateMachine consumes lines one at a time. Outside a block, anything
// that is not a header is ignored; inside a block, a blank line or the end of
// input closes the match.
type lineStateMachine struct {
	state   parseState
	current tournamenttypes.Match
	matches []tournamenttypes.Match
}

func (sm *lineStateMachine) feed(lineNo int, raw string) error {
	line := strings.TrimSpace(raw)

	switch sm.state {
	case stateSeekingHeader:
		if line == "" {
			return nil
		}
		matchType, ok := headerMatchType(line)
		if !ok {
			return nil
		}
		sm.current = tournamenttypes.Match{
			MatchType: matchType,
			Players:   []tournamenttypes.PlayerResult{},
		}
		sm.state = stateInPlayerBlock

	case stateInPlayerBlock:
		if line == "" {
			sm.closeBlock()
			return nil
		}
		player, err := parsePlayerLine(line)
		if err != nil {
			err.Line = lineNo
			err.Content = raw
			return err
		}
		sm.current.Players = append(sm.current.Players, player)
	}

	return nil
}

func (sm *lineStateMachine) closeBlock() {
	sm.matches = append(sm.matches, sm.current)
	sm.current = tournamenttypes.Match{}
	sm.state = stateSeekingHeader
}

// finish closes any block still open at end of input and numbers the matches
// by their position in the file.
func (sm *lineStateMachine) finish() []tournamenttypes.Match {
	if sm.state == stateInPlayerBlock {
		sm.closeBlock()
	}
	matches := sm.matches
	if matches == nil {
		matches = []tournamenttypes.Match{}
	}
	for i := range matches {
		matches[i].MatchIndex = i
	}
	return matches
}

func headerMatchType(line string) (tournamenttypes.MatchType, bool) {
	return tournamenttypes.MatchTypeFromFileToken(strings.TrimLeft(line, headerMarker))
}

// parsePlayerLine decodes "immune:life:rank:user_id:username". The username is
// everything after the fourth separator, colons included.
func parsePlayerLine(line string) (tournamenttypes.PlayerResult, *ParseError) {
	parts := strings.SplitN(line, fieldSeparator, playerLineParts)
	if len(parts) != playerLineParts {
		return tournamenttypes.PlayerResult{}, newParseError(0, "", ErrMalformedPlayerLine, nil)
	}

	immune, ok := tournamenttypes.ImmuneStatusFromFileCode(parts[0])
	if !ok {
		return tournamenttypes.PlayerResult{}, newParseError(0, "", ErrUnknownEnumCode, unknownCodeError("immune status", parts[0]))
	}

	life, ok := tournamenttypes.LifeStatusFromFileCode(parts[1])
	if !ok {
		return tournamenttypes.PlayerResult{}, newParseError(0, "", ErrUnknownEnumCode, unknownCodeError("life status", parts[1]))
	}

	rank, err := parseInt32(parts[2])
	if err != nil {
		return tournamenttypes.PlayerResult{}, newParseError(0, "", ErrMalformedPlayerLine, err)
	}

	return tournamenttypes.PlayerResult{
		Username:     parts[4],
		UserID:       parts[3],
		Rank:         rank,
		LifeStatus:   life,
		ImmuneStatus: immune,
	}, nil
}

// parseInt32 decodes a signed decimal that fits the INTEGER columns the
// values are stored in.
func parseInt32(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

type codeError struct {
	field string
	code  string
}

func (e *codeError) Error() string {
	return e.field + " code " + strconv.Quote(e.code)
}

func unknownCodeError(field, code string) error {
	return &codeError{field: field, code: code}
}
