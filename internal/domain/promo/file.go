package promo

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
)

var _ Source = FileSource{}

// FileSource loads the promo table from a gzip-compressed text file with one
// "CODE,PERCENT" pair per line. Blank lines and lines starting with '#' are
// ignored.
type FileSource struct {
	Path string
}

// PromoCodes opens and parses the file.
func (s FileSource) PromoCodes(ctx context.Context) (Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", s.Path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "create gzip reader for %s", s.Path)
	}
	defer func() { _ = gz.Close() }()

	return Parse(ctx, gz)
}

// Parse reads "CODE,PERCENT" lines from r. Codes are normalized; duplicates
// after normalization are rejected.
func Parse(ctx context.Context, r io.Reader) (Table, error) {
	table := make(Table)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		rawCode, rawPct, ok := strings.Cut(text, ",")
		if !ok {
			return nil, errors.Wrapf(ErrInvalidTable, "line %d: expected CODE,PERCENT", line)
		}
		code := Normalize(rawCode)
		if code == "" {
			return nil, errors.Wrapf(ErrInvalidTable, "line %d: empty code", line)
		}
		pct, err := strconv.Atoi(strings.TrimSpace(rawPct))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidTable, "line %d: percent %q", line, rawPct)
		}
		if _, dup := table[code]; dup {
			return nil, errors.Wrapf(ErrInvalidTable, "line %d: duplicate code %s", line, code)
		}
		table[code] = pct
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan promo codes")
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
