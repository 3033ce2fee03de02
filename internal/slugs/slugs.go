// Package slugs normalizes saved query names so that "Active Users",
// "active-users" and "active_users" all name the same query.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// Extension is the file extension of standalone query files.
const Extension = ".sgq"

// Component slugifies one name component, falling back to a lowercased,
// dash-joined form when gosimple/slug yields nothing (e.g. only symbols).
func Component(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.Join(strings.Fields(s), "-"))
	}
	return slugged
}

// QueryName normalizes a saved query name. Names may be grouped with "/"
// ("reports/Active Users" -> "reports/active-users"); each group is
// slugified on its own and empty groups are dropped. A trailing query file
// extension is ignored.
func QueryName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), Extension)

	var parts []string
	for _, part := range strings.Split(name, "/") {
		if c := Component(part); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "/")
}
