package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	tournamenttypes "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/domain/types"
)

// Parser defines the interface for tournament file parsers
type Parser interface {
	Parse(data []byte, meta tournamenttypes.Metadata) (*tournamenttypes.ParsedTournament, error)
}

// ParserFactory defines the interface for creating parsers
type ParserFactory interface {
	GetParser(filename string) (Parser, error)
}

// Factory creates the appropriate parser based on file extension
type Factory struct{}

// NewFactory creates a new parser factory
func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the appropriate parser for the given filename.
// Tournament files are usually saved without an extension.
func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case "", ".txt", ".tournament":
		return NewTextParser(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}
