package rules

import (
	"strings"

	"github.com/pkg/errors"
)

// MaxNeighbors is the size of the Moore neighborhood
const MaxNeighbors = 8

// ErrInvalidNeighborCount is returned for counts outside [0, MaxNeighbors]
var ErrInvalidNeighborCount = errors.New("neighbor count out of range")

// Table maps every neighbor count 0..8 to an outcome
type Table [MaxNeighbors + 1]bool

// RuleSet holds the survival table (cell alive) and the birth table (cell dead)
type RuleSet struct {
	Survive Table
	Born    Table
}

func checkCount(count int) error {
	if count < 0 || count > MaxNeighbors {
		return errors.Wrapf(ErrInvalidNeighborCount, "count %d", count)
	}
	return nil
}

// Evaluate returns the next state of a cell with the given neighbor count
func (r *RuleSet) Evaluate(alive bool, neighbors int) (bool, error) {
	if err := checkCount(neighbors); err != nil {
		return false, err
	}
	if alive {
		return r.Survive[neighbors], nil
	}
	return r.Born[neighbors], nil
}

// SetSurvive sets whether a live cell with count neighbors survives
func (r *RuleSet) SetSurvive(count int, value bool) error {
	if err := checkCount(count); err != nil {
		return errors.WithMessage(err, "[SetSurvive]")
	}
	r.Survive[count] = value
	return nil
}

// SetBorn sets whether a dead cell with count neighbors comes alive
func (r *RuleSet) SetBorn(count int, value bool) error {
	if err := checkCount(count); err != nil {
		return errors.WithMessage(err, "[SetBorn]")
	}
	r.Born[count] = value
	return nil
}

// Survives reports the survival entry for count, false when out of range
func (r *RuleSet) Survives(count int) bool {
	if checkCount(count) != nil {
		return false
	}
	return r.Survive[count]
}

// Births reports the birth entry for count, false when out of range
func (r *RuleSet) Births(count int) bool {
	if checkCount(count) != nil {
		return false
	}
	return r.Born[count]
}

// Clone returns an independent copy
func (r *RuleSet) Clone() *RuleSet {
	c := *r
	return &c
}

// String renders the rule set in B/S notation, e.g. "B3/S23"
func (r *RuleSet) String() string {
	var b strings.Builder
	b.WriteByte('B')
	for n, on := range r.Born {
		if on {
			b.WriteByte(byte('0' + n))
		}
	}
	b.WriteString("/S")
	for n, on := range r.Survive {
		if on {
			b.WriteByte(byte('0' + n))
		}
	}
	return b.String()
}

/*
Parse reads a rule in B/S notation.

Both sections are required, in either order ("B36/S23" or "S23/B36"),
letters are case-insensitive and each digit must be in 0..8.
*/
func Parse(s string) (*RuleSet, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return nil, errors.Errorf("[Parse] rule %q: want two sections separated by '/'", s)
	}

	var (
		rs                  = &RuleSet{}
		seenBorn, seenAlive bool
	)
	for _, part := range parts {
		if part == "" {
			return nil, errors.Errorf("[Parse] rule %q: empty section", s)
		}

		var table *Table
		switch part[0] {
		case 'B', 'b':
			if seenBorn {
				return nil, errors.Errorf("[Parse] rule %q: duplicate B section", s)
			}
			seenBorn, table = true, &rs.Born
		case 'S', 's':
			if seenAlive {
				return nil, errors.Errorf("[Parse] rule %q: duplicate S section", s)
			}
			seenAlive, table = true, &rs.Survive
		default:
			return nil, errors.Errorf("[Parse] rule %q: section %q must start with B or S", s, part)
		}

		for _, c := range part[1:] {
			if c < '0' || c > '0'+MaxNeighbors {
				return nil, errors.Wrapf(ErrInvalidNeighborCount, "[Parse] rule %q: digit %q", s, c)
			}
			table[c-'0'] = true
		}
	}
	return rs, nil
}
