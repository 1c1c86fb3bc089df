package parser

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/fluxo/pkg/category"
	"github.com/yurifrl/fluxo/pkg/models"
)

// DefaultMaxRows is how many data rows are read below the header.
const DefaultMaxRows = 35

type reader func(data []byte, limit int) ([]row, int, error)

// Parser extracts transactions from monthly cash-flow sheets.
type Parser struct {
	logger      *log.Logger
	categorizer *category.Categorizer
	maxRows     int
}

type Option func(*Parser)

// WithMaxRows overrides DefaultMaxRows.
func WithMaxRows(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxRows = n
		}
	}
}

func New(logger *log.Logger, categorizer *category.Categorizer, opts ...Option) *Parser {
	if categorizer == nil {
		categorizer = category.Default()
	}
	p := &Parser{
		logger:      logger,
		categorizer: categorizer,
		maxRows:     DefaultMaxRows,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func readerFor(mimeType string) (reader, error) {
	switch mimeType {
	case models.MimeXLSX, models.MimeGoogleSheet:
		return readXLSX, nil
	case models.MimeXLS:
		return readXLS, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", mimeType)
	}
}
