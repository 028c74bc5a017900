package mapreduce

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/m8pack/pkg/tagscan"
)

// TopTags returns the top N tags from aggregated counts as "tag:count"
// strings (e.g. "div:1153"), most frequent first. Equal counts are ordered
// by name so the output is stable. Names that are not word runs are skipped.
func TopTags(tagCounts map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	var ss []kv
	for k, v := range tagCounts {
		if tagscan.IsWordRun(k) {
			ss = append(ss, kv{k, v})
		}
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	result := make([]string, limit)
	for i := 0; i < limit; i++ {
		result[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}
	return result
}
