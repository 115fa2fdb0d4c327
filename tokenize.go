package main

import (
	"fmt"
	"regexp"
	"strings"
)

// rawStatement is one CREATE TABLE statement split into its header and
// body, before any clause parsing.
type rawStatement struct {
	Name     QualifiedName
	Body     string // text between the outermost parentheses
	Trailing string // table options after the closing paren, e.g. ENGINE=InnoDB
}

var createTableRe = regexp.MustCompile(`(?i)\bCREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?`)

// extractStatements finds every CREATE TABLE statement in text. A file
// conventionally holds exactly one table but nothing here assumes it.
// A truncated or unbalanced statement fails the whole file; the caller
// records the warning and moves on to sibling files.
func extractStatements(text string, dialect Dialect) ([]rawStatement, error) {
	text = stripSQLComments(text)

	var stmts []rawStatement
	for _, loc := range createTableRe.FindAllStringIndex(text, -1) {
		pos := loc[1]
		name, pos, err := readQualifiedName(text, pos, dialect)
		if err != nil {
			return nil, err
		}
		pos = skipSpace(text, pos)
		if pos >= len(text) || text[pos] != '(' {
			return nil, fmt.Errorf("table %s: expected '(' after table name", name)
		}
		body, end, err := scanParenBody(text, pos)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		trailing := text[end:]
		if i := strings.IndexByte(trailing, ';'); i >= 0 {
			trailing = trailing[:i]
		}
		stmts = append(stmts, rawStatement{
			Name:     name,
			Body:     body,
			Trailing: strings.TrimSpace(trailing),
		})
	}
	return stmts, nil
}

// readQualifiedName reads a possibly schema-qualified, possibly quoted
// table name starting at pos. PostgreSQL folds unquoted identifiers to
// lower case; quoted ones keep their exact spelling. MySQL backticked
// and bare names are both taken verbatim.
func readQualifiedName(text string, pos int, dialect Dialect) (QualifiedName, int, error) {
	var parts []string
	for {
		pos = skipSpace(text, pos)
		if pos >= len(text) {
			return QualifiedName{}, pos, fmt.Errorf("unexpected end of input reading table name")
		}
		part, quoted, next, err := readIdentifierPart(text, pos)
		if err != nil {
			return QualifiedName{}, pos, err
		}
		if part == "" {
			return QualifiedName{}, pos, fmt.Errorf("missing table name")
		}
		if dialect.IsPostgres() && !quoted {
			part = strings.ToLower(part)
		}
		parts = append(parts, part)
		pos = next
		if pos < len(text) && text[pos] == '.' {
			pos++
			continue
		}
		break
	}
	q := QualifiedName{Name: parts[len(parts)-1]}
	if len(parts) >= 2 {
		q.Schema = parts[len(parts)-2]
	}
	return q, pos, nil
}

// readIdentifierPart reads one dotted-name segment: `x`, "x", or bare.
func readIdentifierPart(text string, pos int) (part string, quoted bool, next int, err error) {
	switch text[pos] {
	case '`', '"':
		q := text[pos]
		end := strings.IndexByte(text[pos+1:], q)
		if end < 0 {
			return "", false, pos, fmt.Errorf("unterminated quoted identifier")
		}
		return text[pos+1 : pos+1+end], true, pos + end + 2, nil
	default:
		i := pos
		for i < len(text) && !isIdentBreak(text[i]) {
			i++
		}
		return text[pos:i], false, i, nil
	}
}

func isIdentBreak(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', ',', ';', '.':
		return true
	}
	return false
}

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// scanParenBody returns the text between the paren at pos and its
// matching close, honoring quote regions so that ')' inside a string
// literal does not close the body.
func scanParenBody(text string, pos int) (body string, end int, err error) {
	depth := 0
	var quote byte
	for i := pos; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' && quote == '\'' {
				i++
				continue
			}
			if c == quote {
				// '' inside a single-quoted literal is an escaped quote
				if quote == '\'' && i+1 < len(text) && text[i+1] == '\'' {
					i++
					continue
				}
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[pos+1 : i], i + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("unbalanced parentheses in table body")
}

// splitClauses splits a table body into its top-level comma-separated
// clauses. Naive splitting breaks on decimal(15,2) and enum('a','b'),
// so commas only count at paren depth zero outside quotes.
func splitClauses(body string) []string {
	var clauses []string
	var cur strings.Builder
	depth := 0
	var quote byte
	for i := 0; i < len(body); i++ {
		c := body[i]
		if quote != 0 {
			cur.WriteByte(c)
			if c == '\\' && quote == '\'' && i+1 < len(body) {
				i++
				cur.WriteByte(body[i])
				continue
			}
			if c == quote {
				if quote == '\'' && i+1 < len(body) && body[i+1] == '\'' {
					i++
					cur.WriteByte(body[i])
					continue
				}
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			cur.WriteByte(c)
		case '(':
			depth++
			cur.WriteByte(c)
		case ')':
			depth--
			cur.WriteByte(c)
		case ',':
			if depth == 0 {
				if s := strings.TrimSpace(cur.String()); s != "" {
					clauses = append(clauses, s)
				}
				cur.Reset()
			} else {
				cur.WriteByte(c)
			}
		default:
			cur.WriteByte(c)
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		clauses = append(clauses, s)
	}
	return clauses
}

// stripSQLComments removes -- line comments and /* */ block comments
// outside quoted regions. Comment text frequently contains commas and
// parens that would otherwise confuse depth tracking.
func stripSQLComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && quote == '\'' && i+1 < len(text) {
				i++
				b.WriteByte(text[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)
		case c == '-' && i+1 < len(text) && text[i+1] == '-':
			for i < len(text) && text[i] != '\n' {
				i++
			}
			if i < len(text) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			i += 2
			for i+1 < len(text) && !(text[i] == '*' && text[i+1] == '/') {
				i++
			}
			i++ // skip the closing '/'
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// cleanIdentifier strips quoting characters from an identifier and
// drops a trailing @suffix (seen in hand-edited dumps as table@schema).
func cleanIdentifier(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "`\"'")
	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[:i]
	}
	return s
}
