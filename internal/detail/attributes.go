package detail

import (
	"sort"

	"github.com/s22625/tkoview/internal/model"
)

// AttrRow is one rendered row of the test attribute table. A row with an
// empty Key is a placeholder shown when the test has no attributes.
type AttrRow struct {
	Key   string
	Value string
}

// AttributeRows flattens a test's attribute map into display rows sorted by
// key. An empty or nil map yields a single placeholder row.
func AttributeRows(attrs map[string]any) []AttrRow {
	if len(attrs) == 0 {
		return []AttrRow{{Value: "No test attributes"}}
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([]AttrRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, AttrRow{Key: k, Value: model.FormatValue(attrs[k])})
	}
	return rows
}
