package db

import (
	"fmt"
	"strings"
)

// MatchAll matches every document in the index.
const MatchAll = "*"

// TextClause builds an AND-combined full-text clause over one TEXT field
// from free-form user input. Each whitespace-separated term is escaped;
// intersection is the FT.SEARCH default. Empty input matches everything.
func TextClause(field, input string) string {
	terms := strings.Fields(input)
	if len(terms) == 0 {
		return MatchAll
	}
	escaped := make([]string, len(terms))
	for i, t := range terms {
		escaped[i] = EscapeTerm(t)
	}
	return fmt.Sprintf("@%s:(%s)", field, strings.Join(escaped, " "))
}

// TagClause builds an exact-match TAG filter clause.
func TagClause(field, value string) string {
	return fmt.Sprintf("@%s:{%s}", field, EscapeTag(value))
}

// NotTagClause builds an exclusionary TAG filter clause.
func NotTagClause(field, value string) string {
	return "-" + TagClause(field, value)
}

// RangeClause builds an inclusive NUMERIC range filter clause.
func RangeClause(field string, min, max int64) string {
	return fmt.Sprintf("@%s:[%d %d]", field, min, max)
}

// Clauses joins query clauses into one query string, dropping MatchAll
// parts when a narrower clause is present.
func Clauses(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == MatchAll {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return MatchAll
	}
	return strings.Join(kept, " ")
}

// EscapeTerm escapes FT.SEARCH query syntax in a user-supplied term.
func EscapeTerm(s string) string {
	return termEscaper.Replace(s)
}

var termEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)

// EscapeTag escapes a literal value for use inside a TAG filter clause.
func EscapeTag(s string) string {
	return tagEscaper.Replace(s)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)
