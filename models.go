package listview

import (
	"strings"

	"github.com/friendsofgo/errors"
)

// OrderBy is one column of a backend sort, for collaborators that sort on the
// server (see package sqlboiler).
type OrderBy struct {
	Column string
	Desc   bool
}

// ParseOrderBy parses a sort declaration such as "created_at desc, id".
// Directions are case-insensitive; a missing direction means ascending.
//
// Example:
//
//	order, err := listview.ParseOrderBy("created_at DESC, id")
//	// []OrderBy{{Column: "created_at", Desc: true}, {Column: "id"}}
func ParseOrderBy(s string) ([]OrderBy, error) {
	var out []OrderBy
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		switch len(fields) {
		case 0:
			continue
		case 1:
			out = append(out, OrderBy{Column: fields[0]})
		case 2:
			switch strings.ToLower(fields[1]) {
			case "asc":
				out = append(out, OrderBy{Column: fields[0]})
			case "desc":
				out = append(out, OrderBy{Column: fields[0], Desc: true})
			default:
				return nil, errors.Errorf("invalid sort direction %q for column %q", fields[1], fields[0])
			}
		default:
			return nil, errors.Errorf("invalid sort clause %q", strings.TrimSpace(part))
		}
	}
	return out, nil
}
