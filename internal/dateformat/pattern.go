package dateformat

import (
	"fmt"
	"strings"

	"datepick/internal/model"

	"cloudeng.io/errors"
)

// GranularityOf derives the picker precision from the tokens in pattern.
func GranularityOf(pattern string) model.Granularity {
	switch {
	case strings.Contains(pattern, TokenDay):
		return model.GranularityDay
	case strings.Contains(pattern, TokenMonth):
		return model.GranularityMonth
	default:
		return model.GranularityYear
	}
}

// Validate reports every problem with pattern at once. Parse and Format accept
// any pattern; Validate is for callers that want to reject odd ones up front.
func Validate(pattern string) error {
	errs := &errors.M{}
	if pattern == "" {
		errs.Append(errors.New("empty pattern"))
		return errs.Err()
	}
	found := 0
	for _, tok := range []string{TokenDay, TokenMonth, TokenYear} {
		switch n := strings.Count(pattern, tok); {
		case n == 1:
			found++
		case n > 1:
			errs.Append(fmt.Errorf("pattern %q: token %q appears %d times", pattern, tok, n))
		}
	}
	if found == 0 {
		errs.Append(fmt.Errorf("pattern %q: no dd, mm or yyyy token", pattern))
	}
	if rest := stripTokens(pattern); strings.ContainsAny(rest, "dmy") {
		errs.Append(fmt.Errorf("pattern %q: stray token letters %q", pattern, leftovers(rest)))
	}
	return errs.Err()
}

func stripTokens(pattern string) string {
	r := strings.NewReplacer(TokenYear, "", TokenMonth, "", TokenDay, "")
	return r.Replace(pattern)
}

func leftovers(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == 'd' || r == 'm' || r == 'y' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
