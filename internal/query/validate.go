package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Validate rejects specs the store cannot execute: negative Limit or Offset.
// A nil spec is valid. Fragment contents are not inspected; see Lint.
func Validate(s *Spec) error {
	if s == nil {
		return nil
	}
	if s.Limit != nil && *s.Limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", *s.Limit)
	}
	if s.Offset != nil && *s.Offset < 0 {
		return fmt.Errorf("offset must be non-negative, got %d", *s.Offset)
	}
	return nil
}

// Lint reports fragments that look like statement injection: statement
// separators, SQL comments and stacked DDL/DML keywords. Text inside
// single-quoted literals is not inspected, so values quoted with
// querysql.Quote never trigger a warning. Warnings are advisory; the store
// logs them and still runs the query.
//
// Lint is a pure function with no side effects.
func Lint(s *Spec) []string {
	if s == nil {
		return nil
	}

	l := &linter{}
	l.lintFragment("where", s.Where)
	l.lintFragment("group by", s.GroupBy)
	l.lintFragment("order by", s.OrderBy)
	return l.warnings
}

// linter accumulates warnings during inspection.
type linter struct {
	warnings []string
}

func (l *linter) addWarning(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

var suspiciousKeyword = regexp.MustCompile(`(?i)\b(drop|delete|insert|update|attach|pragma)\b`)

func (l *linter) lintFragment(clause, fragment string) {
	if fragment == "" {
		return
	}
	code, ok := stripLiterals(fragment)
	if !ok {
		l.addWarning("%s fragment has an unterminated string literal", clause)
	}
	if strings.Contains(code, ";") {
		l.addWarning("%s fragment contains a statement separator", clause)
	}
	if strings.Contains(code, "--") || strings.Contains(code, "/*") {
		l.addWarning("%s fragment contains a SQL comment", clause)
	}
	seen := make(map[string]bool)
	for _, kw := range suspiciousKeyword.FindAllString(code, -1) {
		kw = strings.ToLower(kw)
		if seen[kw] {
			continue
		}
		seen[kw] = true
		l.addWarning("%s fragment contains keyword %q", clause, kw)
	}
}

// stripLiterals empties every single-quoted literal ('' is an escaped quote)
// and returns the remaining SQL text. An unterminated literal is kept as
// code and reported with ok == false.
func stripLiterals(fragment string) (code string, ok bool) {
	var sb strings.Builder
	for i := 0; i < len(fragment); i++ {
		if fragment[i] != '\'' {
			sb.WriteByte(fragment[i])
			continue
		}
		end := -1
		for j := i + 1; j < len(fragment); j++ {
			if fragment[j] != '\'' {
				continue
			}
			if j+1 < len(fragment) && fragment[j+1] == '\'' {
				j++
				continue
			}
			end = j
			break
		}
		if end < 0 {
			sb.WriteString(fragment[i:])
			return sb.String(), false
		}
		sb.WriteString("''")
		i = end
	}
	return sb.String(), true
}
