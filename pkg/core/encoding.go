package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Encoding is the output format for row data.
type Encoding int

const (
	// EncodingDefault prints each row in the human readable text form.
	EncodingDefault Encoding = iota

	// EncodingJSON prints each row as one JSON object per line.
	EncodingJSON

	// EncodingCSV prints batches as CSV with a header line.
	EncodingCSV

	// EncodingCSVNoHeader prints batches as CSV without a header line.
	EncodingCSVNoHeader
)

func (e Encoding) String() string {
	switch e {
	case EncodingDefault:
		return "default"
	case EncodingJSON:
		return "json"
	case EncodingCSV:
		return "csv"
	case EncodingCSVNoHeader:
		return "csv-no-header"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// IsCSV reports whether the encoding is one of the CSV variants.
func (e Encoding) IsCSV() bool {
	return e == EncodingCSV || e == EncodingCSVNoHeader
}

// FormatFlags are the user's output format switches.
type FormatFlags struct {
	JSON     bool
	CSV      bool
	NoHeader bool
}

// SelectEncoding maps format flags to exactly one Encoding.
func SelectEncoding(flags FormatFlags) (Encoding, error) {
	switch {
	case flags.JSON && flags.CSV:
		return EncodingDefault, errors.New("--json and --csv cannot be used together")
	case flags.JSON && flags.NoHeader:
		return EncodingDefault, errors.New("--no-header cannot be used with --json")
	case flags.NoHeader && !flags.CSV:
		return EncodingDefault, errors.New("--no-header requires --csv")
	case flags.CSV && flags.NoHeader:
		return EncodingCSVNoHeader, nil
	case flags.CSV:
		return EncodingCSV, nil
	case flags.JSON:
		return EncodingJSON, nil
	default:
		return EncodingDefault, nil
	}
}

// Selection is the row selection policy of an export: all rows or the first N.
type Selection struct {
	limit   int64
	bounded bool
}

// All selects every row.
func All() Selection {
	return Selection{}
}

// First selects at most n rows. Negative n is treated as zero.
func First(n int64) Selection {
	if n < 0 {
		n = 0
	}
	return Selection{limit: n, bounded: true}
}

// Limit returns the row cap and whether one applies.
func (s Selection) Limit() (int64, bool) {
	return s.limit, s.bounded
}

// ParseCount parses a user supplied row count. Failures are ErrNumericParse.
func ParseCount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &Error{Kind: ErrNumericParse, Err: fmt.Errorf("%q is not a number", s)}
	}
	if n < 0 {
		return 0, &Error{Kind: ErrNumericParse, Err: fmt.Errorf("%q must not be negative", s)}
	}
	return n, nil
}
