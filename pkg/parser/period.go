package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yurifrl/fluxo/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultMarker is the phrase every cash-flow file name carries.
	DefaultMarker = "Fluxo de Caixa"

	extension = ".xlsx"
)

var months = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"março":     time.March,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

// Resolver turns "Fluxo de Caixa Novembro - 2025.xlsx" into a period.
type Resolver struct {
	Marker string
	// FallbackYear is used when the name carries no year.
	FallbackYear int
}

// NewResolver returns a resolver for the default marker. A zero fallback
// year means the current year.
func NewResolver(fallbackYear int) *Resolver {
	if fallbackYear == 0 {
		fallbackYear = time.Now().Year()
	}
	return &Resolver{Marker: DefaultMarker, FallbackYear: fallbackYear}
}

// Resolve returns the period named by filename. Names that do not resolve
// yield the sentinel period labelled with the raw filename, together with
// ErrUnresolvedPeriod. A non-numeric year is treated like an unknown month:
// the file is not skipped, its rows load under the sentinel period.
func (r *Resolver) Resolve(filename string) (models.Period, error) {
	name := strings.ReplaceAll(filename, extension, "")
	if r.Marker != "" {
		name = strings.ReplaceAll(name, r.Marker, "")
	}
	name = strings.TrimSpace(name)

	var monthText, yearText string
	if parts := strings.Split(name, "-"); len(parts) >= 2 {
		monthText = strings.ToLower(strings.TrimSpace(parts[0]))
		yearText = strings.TrimSpace(parts[1])
	} else {
		monthText = strings.ToLower(name)
		yearText = strconv.Itoa(r.FallbackYear)
	}

	month, ok := months[monthText]
	if !ok {
		return models.SentinelPeriod(filename), fmt.Errorf("%w: unknown month %q in %q", ErrUnresolvedPeriod, monthText, filename)
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return models.SentinelPeriod(filename), fmt.Errorf("%w: invalid year %q in %q", ErrUnresolvedPeriod, yearText, filename)
	}

	label := cases.Title(language.BrazilianPortuguese).String(monthText) + " " + yearText
	return models.NewPeriod(year, month, label), nil
}
