package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression ready to be rolled.
//
// A Count of 0 denotes a flat constant: rolling it yields Modifier with no dice.
type Expression struct {
	Raw         string // original input string
	Count       int    // number of dice; 0 for a flat constant
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
}

// Limits on a single expression. Roll allocates one int per die.
const (
	MaxCount = 100
	MaxSides = 1000
)

var (
	exprPattern = regexp.MustCompile(`^(\d*)d(\d+)(?:kh(\d+))?([+-]\d+)?$`)
	flatPattern = regexp.MustCompile(`^[+-]?\d+$`)
)

// Parse parses a dice expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "4d6kh3", "4d6kh3+1", and
// flat constants such as "10".
//
// Postcondition: Returns an Expression with 1 <= Count <= MaxCount and
// 2 <= Sides <= MaxSides, or a flat constant with Count == 0, or a
// descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	if flatPattern.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid constant %q: %w", expr, err)
		}
		return Expression{Raw: expr, Modifier: n}, nil
	}

	m := exprPattern.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", expr)
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > MaxCount {
			return Expression{}, fmt.Errorf("dice: too many dice in %q: at most %d", expr, MaxCount)
		}
		if n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
		count = n
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides > MaxSides {
		return Expression{}, fmt.Errorf("dice: too many sides in %q: at most %d", expr, MaxSides)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", expr)
	}

	keep := 0
	if m[3] != "" {
		keep, _ = strconv.Atoi(m[3])
		if keep <= 0 || keep >= count {
			return Expression{}, fmt.Errorf("dice: kh value %d must be > 0 and < count %d in %q", keep, count, expr)
		}
	}

	mod := 0
	if m[4] != "" {
		if mod, err = strconv.Atoi(m[4]); err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}

	return Expression{
		Raw:         expr,
		Count:       count,
		Sides:       sides,
		Modifier:    mod,
		KeepHighest: keep,
	}, nil
}

// MustParse parses expr and panics on error. Useful for package-level values.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
