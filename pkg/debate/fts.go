package debate

import "strings"

// SanitizeFTS5Query quotes each search term so FTS5 cannot read it as an
// operator ("and", "or", "not", "near" are all operators), then joins the
// terms with OR. Implicit AND would demand every term appear, which is too
// strict for transcript search.
func SanitizeFTS5Query(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return query
	}
	var quoted []string
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, "")
		if term == "" {
			continue
		}
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " OR ")
}
