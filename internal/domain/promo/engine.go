package promo

import (
	"github.com/bits-and-blooms/bloom/v3"
)

const bloomFPR = 0.001

// Engine resolves user-entered codes against a fixed Table. It is immutable
// after construction and safe for concurrent use.
type Engine struct {
	table  Table
	filter *bloom.BloomFilter
}

// NewEngine validates the table and builds an Engine over a private copy of it.
func NewEngine(table Table) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	n := uint(len(table))
	if n == 0 {
		n = 1
	}
	e := &Engine{
		table:  make(Table, len(table)),
		filter: bloom.NewWithEstimates(n, bloomFPR),
	}
	for code, pct := range table {
		e.table[code] = pct
		e.filter.AddString(code)
	}
	return e, nil
}

// Apply normalizes raw and looks it up. The second result is false for an
// unknown or empty code; callers clear any previously applied promo in that case.
func (e *Engine) Apply(raw string) (Applied, bool) {
	code := Normalize(raw)
	if code == "" || !e.filter.TestString(code) {
		return Applied{}, false
	}
	pct, ok := e.table[code]
	if !ok {
		return Applied{}, false
	}
	return Applied{Code: code, Percent: pct}, true
}

// Len returns the number of known codes.
func (e *Engine) Len() int {
	return len(e.table)
}
