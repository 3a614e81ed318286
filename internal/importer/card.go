package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// CardParser parses card statement exports of the form
// "Transaction Date,Posted Date,Card No.,Description,Category,Debit,Credit".
// Debit rows become negative amounts, credit rows positive.
type CardParser struct{}

const (
	cardDateFormat = "2006-01-02"
	cardNumFields  = 7
	cardColDate    = 0
	cardColDesc    = 3
	cardColDebit   = 5
	cardColCredit  = 6
)

// Format returns the parser name.
func (p *CardParser) Format() string { return "card" }

// Parse reads a card statement CSV and returns Lines.
func (p *CardParser) Parse(r io.Reader) ([]Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = cardNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading card CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var lines []Line
	for i, rec := range records[1:] {
		line, skip, err := parseCardRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if skip {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func parseCardRow(rec []string) (Line, bool, error) {
	date, err := time.Parse(cardDateFormat, rec[cardColDate])
	if err != nil {
		return Line{}, false, fmt.Errorf("parsing date %q: %w", rec[cardColDate], err)
	}

	// Exactly one of debit/credit is populated; rows with neither carry no
	// movement and are skipped.
	switch {
	case rec[cardColDebit] != "":
		amount, err := decimal.NewFromString(rec[cardColDebit])
		if err != nil {
			return Line{}, false, fmt.Errorf("parsing debit %q: %w", rec[cardColDebit], err)
		}
		return Line{Date: date, Description: rec[cardColDesc], Amount: amount.Neg()}, false, nil
	case rec[cardColCredit] != "":
		amount, err := decimal.NewFromString(rec[cardColCredit])
		if err != nil {
			return Line{}, false, fmt.Errorf("parsing credit %q: %w", rec[cardColCredit], err)
		}
		return Line{Date: date, Description: rec[cardColDesc], Amount: amount}, false, nil
	default:
		return Line{}, true, nil
	}
}
