package cache

import (
	"strings"

	"github.com/golang/snappy"

	"vegafusion-go/internal/taskgraph"
	"vegafusion-go/internal/value"
)

// TaskValueSizeOf weighs a cached scheduler result against the byte
// budget by snappy-compressing a row-major text encoding of any table
// payload, so the compressed footprint — not the raw in-memory size —
// is what counts against the budget (spec §5 "two-dimensional limit
// (entry count, byte budget)"). Scalars and auxiliary outputs are
// weighed as their rendered string length.
func TaskValueSizeOf(v interface{}) int {
	res, ok := v.(taskgraph.EvalResult)
	if !ok {
		return 1
	}
	size := weighTaskValue(res.Main)
	for _, aux := range res.Auxiliary {
		size += weighTaskValue(aux)
	}
	return size
}

func weighTaskValue(tv value.TaskValue) int {
	if tv.IsScalar() {
		s, _ := tv.AsScalar()
		return len(s.ToStringValue())
	}
	t, err := tv.AsTable()
	if err != nil || t == nil {
		return 0
	}
	var b strings.Builder
	for _, row := range t.Rows {
		for _, cell := range row {
			b.WriteString(cell.ToStringValue())
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	compressed := snappy.Encode(nil, []byte(b.String()))
	return len(compressed)
}
