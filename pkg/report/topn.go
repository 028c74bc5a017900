package report

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/m8pack/pkg/mapping"
)

// TopTags returns the n most frequent tags. Equal counts keep the order of
// tags, which is savings order when it comes from Stats.Tags.
func TopTags(tags []mapping.Entry, n int) []mapping.Entry {
	ss := make([]mapping.Entry, len(tags))
	copy(ss, tags)

	// Sort by count (descending)
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].Count > ss[j].Count
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}
	return ss[:limit]
}

// FormatTag renders one line of the top tags list, e.g. "<div> → <1> (used 4x)".
// Tags without a code show N/A.
func FormatTag(e mapping.Entry) string {
	code := e.Code
	if code == "" {
		code = "N/A"
	}
	return fmt.Sprintf("<%s> → <%s> (used %dx)", e.Tag, code, e.Count)
}
