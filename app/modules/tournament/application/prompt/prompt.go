package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

// DateLayout is the date format asked for at the prompt.
const DateLayout = "2006-01-02 15:04"

// ErrInputClosed is returned when input ends before a required answer.
var ErrInputClosed = errors.New("input closed before an answer was given")

// Prompter asks for tournament metadata on a terminal-like stream.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	now      func() time.Time
	location *time.Location
	dates    *when.Parser
}

// New creates a Prompter reading answers from in and writing questions to out.
func New(in io.Reader, out io.Writer) *Prompter {
	dates := when.New(nil)
	dates.Add(en.All...)
	dates.Add(common.All...)

	return &Prompter{
		in:       bufio.NewReader(in),
		out:      out,
		now:      time.Now,
		location: time.Local,
		dates:    dates,
	}
}

// WithClock sets the clock and location used for empty and relative dates.
func (p *Prompter) WithClock(now func() time.Time, loc *time.Location) *Prompter {
	p.now = now
	p.location = loc
	return p
}

// Metadata asks for every field.
func (p *Prompter) Metadata(ctx context.Context) (tournamenttypes.Metadata, error) {
	title, err := p.Title(ctx)
	if err != nil {
		return tournamenttypes.Metadata{}, err
	}
	date, err := p.Date(ctx)
	if err != nil {
		return tournamenttypes.Metadata{}, err
	}
	link, err := p.Link(ctx)
	if err != nil {
		return tournamenttypes.Metadata{}, err
	}
	return tournamenttypes.Metadata{Title: title, Date: date, Link: link}, nil
}

// Title asks until a non-empty title is given.
func (p *Prompter) Title(ctx context.Context) (string, error) {
	for {
		answer, err := p.ask(ctx, "Title: ")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(p.out, "Title cannot be empty.")
	}
}

// Date asks until the answer parses. An empty answer means now.
func (p *Prompter) Date(ctx context.Context) (time.Time, error) {
	for {
		answer, err := p.ask(ctx, fmt.Sprintf("Date (%s, empty for now): ", "YYYY-MM-DD HH:MM"))
		if err != nil {
			return time.Time{}, err
		}
		date, err := p.ParseDate(answer)
		if err == nil {
			return date, nil
		}
		fmt.Fprintf(p.out, "Could not read date: %v\n", err)
	}
}

// Link asks once. An empty answer means no link.
func (p *Prompter) Link(ctx context.Context) (*string, error) {
	answer, err := p.ask(ctx, "Link (optional): ")
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, nil
	}
	return &answer, nil
}

// ParseDate reads the prompt date format, falling back to natural language
// such as "yesterday 8pm".
func (p *Prompter) ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	now := p.now().In(p.location)
	if value == "" {
		return now, nil
	}
	if t, err := time.ParseInLocation(DateLayout, value, p.location); err == nil {
		return t, nil
	}

	r, err := p.dates.Parse(value, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", value, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%q is not a date", value)
	}
	return r.Time, nil
}

func (p *Prompter) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
