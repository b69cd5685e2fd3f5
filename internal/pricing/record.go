package pricing

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is the prefix carried by every cost field in the source file.
const CurrencySymbol = "$"

// csvColumns is the number of fields in a pricing row.
const csvColumns = 3

// ErrQuotedField is returned when a line uses CSV quoting. The format has no
// quoting or escaping, so a quoted field cannot be split reliably.
var ErrQuotedField = errors.New("quoted CSV fields are not supported")

// leadingNumber matches the longest base-10 float prefix of a cost string.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// PriceRecord is one row of the pricing file.
type PriceRecord struct {
	Name       string `json:"name"`
	InputCost  string `json:"input_cost"`
	OutputCost string `json:"output_cost"`
}

// Input returns the input cost as a number (NaN when malformed).
func (r PriceRecord) Input() float64 {
	return ParseCost(r.InputCost)
}

// Output returns the output cost as a number (NaN when malformed).
func (r PriceRecord) Output() float64 {
	return ParseCost(r.OutputCost)
}

// ParseCSV splits pricing text into records.
//
// The first line is a header and is discarded. Every other non-blank line is
// split on commas into name, input cost and output cost; missing trailing
// fields are left empty and extra fields are ignored. A trailing carriage
// return is dropped so CRLF files parse the same as LF files.
//
// Lines containing a double quote fail with ErrQuotedField.
func ParseCSV(text string) ([]PriceRecord, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= 1 {
		return []PriceRecord{}, nil
	}

	records := make([]PriceRecord, 0, len(lines)-1)
	for i, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, `"`) {
			// i+2: one for the header, one for 1-based line numbers.
			return nil, fmt.Errorf("line %d: %w", i+2, ErrQuotedField)
		}

		var fields [csvColumns]string
		copy(fields[:], strings.Split(line, ","))
		records = append(records, PriceRecord{
			Name:       fields[0],
			InputCost:  fields[1],
			OutputCost: fields[2],
		})
	}
	return records, nil
}

// ParseCost converts a cost such as "$30.00" into a float64.
//
// The first currency symbol is removed and the longest numeric prefix of the
// remainder is parsed, so "$1.5/1M" yields 1.5. Text with no numeric prefix
// yields NaN; ParseCost never fails.
func ParseCost(s string) float64 {
	s = strings.TrimSpace(strings.Replace(s, CurrencySymbol, "", 1))
	prefix := leadingNumber.FindString(s)
	if prefix == "" {
		return math.NaN()
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return math.NaN()
	}
	f, _ := d.Float64()
	return f
}

// Names returns the record names in source order.
func Names(records []PriceRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names
}
