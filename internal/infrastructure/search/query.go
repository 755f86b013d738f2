package search

import (
	"fmt"
	"strings"

	"storefront-backend/internal/shared"
)

// buildQuery translates abstract filters into RediSearch query syntax.
// Field type decides the clause form: tag fields get exact {a|b} matches,
// numeric fields a closed range, text fields a prefix match per value.
func buildQuery(filters []shared.Filter, fields []Field) string {
	if len(filters) == 0 {
		return "*"
	}

	types := make(map[string]FieldType, len(fields))
	for _, f := range fields {
		types[f.Name] = f.Type
	}

	var clauses []string
	for _, filter := range filters {
		if len(filter.Values) == 0 {
			continue
		}

		switch types[filter.FieldName] {
		case FieldTypeTag:
			escaped := make([]string, 0, len(filter.Values))
			for _, v := range filter.Values {
				escaped = append(escaped, escapeValue(v))
			}
			clauses = append(clauses, fmt.Sprintf("@%s:{%s}", filter.FieldName, strings.Join(escaped, "|")))

		case FieldTypeNumeric:
			// One value pins the range; two set the bounds.
			min := filter.Values[0]
			max := min
			if len(filter.Values) > 1 {
				max = filter.Values[1]
			}
			clauses = append(clauses, fmt.Sprintf("@%s:[%s %s]", filter.FieldName, min, max))

		default:
			prefixes := make([]string, 0, len(filter.Values))
			for _, v := range filter.Values {
				prefixes = append(prefixes, escapeValue(v)+"*")
			}
			clauses = append(clauses, fmt.Sprintf("@%s:(%s)", filter.FieldName, strings.Join(prefixes, "|")))
		}
	}

	if len(clauses) == 0 {
		return "*"
	}

	return strings.Join(clauses, " ")
}

// escapeValue backslash-escapes RediSearch operator characters inside a
// user-provided value.
func escapeValue(v string) string {
	var b strings.Builder
	b.Grow(len(v))

	for _, r := range v {
		if strings.ContainsRune(`,.<>{}[]"':;!@#$%^&*()-+=~|/\ `, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}

	return b.String()
}
