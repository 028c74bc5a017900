package mapreduce

import "github.com/dtnitsch/m8pack/pkg/frequency"

// Map turns one document's frequency table into a plain count map.
func Map(table *frequency.Table) map[string]int {
	return table.Map()
}

// Reduce aggregates a slice of tag frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for tag, count := range counts {
			finalResults[tag] += count
		}
	}

	return finalResults
}
