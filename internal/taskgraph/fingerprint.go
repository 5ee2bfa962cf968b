package taskgraph

import (
	"fmt"
	"hash"
	"sort"
	"strconv"

	"github.com/OneOfOne/xxhash"

	"vegafusion-go/internal/transforms"
	"vegafusion-go/internal/value"
)

// Fingerprint is a 64-bit stable content hash, the cache key and
// single-flight identity for a task-graph node (spec §3 Fingerprint).
type Fingerprint uint64

// fingerprintSeed is fixed so that fingerprints computed in separate
// processes (e.g. client-computed inline-dataset fingerprints vs.
// server-computed task fingerprints) are comparable, per spec §6's
// "Inline-dataset hash rule".
const fingerprintSeed uint64 = 0x5647_4653_4e31 // "VGFSN1"

// fingerprintTask hashes a task's structural content together with the
// fingerprints of its declared inputs in declared order, so that two
// structurally identical tasks with identical input fingerprints
// collide and two tasks differing in any field do not (spec §3
// "stable hash of (its Task's structural content, fingerprints of its
// inputs in declared order)").
func fingerprintTask(t *Task, inputFingerprints []Fingerprint) Fingerprint {
	h := xxhash.NewS64(fingerprintSeed)
	writeString(h, t.Output.String())
	writeTaskKind(h, &t.Kind)
	for _, iv := range t.InputVars {
		writeString(h, iv.Var.String())
		writeBool(h, iv.Propagate)
	}
	if t.TzConfig != nil {
		writeString(h, t.TzConfig.LocalTz.String())
		if t.TzConfig.DefaultOutputTz != nil {
			writeString(h, t.TzConfig.DefaultOutputTz.String())
		}
	}
	for _, fp := range inputFingerprints {
		writeUint64(h, uint64(fp))
	}
	return Fingerprint(h.Sum64())
}

func writeTaskKind(h hash.Hash64, k *TaskKind) {
	writeString(h, k.Tag.String())
	switch k.Tag {
	case TaskValue:
		writeTaskValue(h, k.Literal)
	case TaskDataURL:
		writeString(h, k.URL)
		if k.URLSignal != nil {
			writeString(h, k.URLSignal.String())
		}
		writeString(h, k.Format)
		writePipeline(h, k.URLPipeline)
	case TaskDataValues:
		writeTaskValue(h, k.InlineValues)
		writePipeline(h, k.ValuesPipeline)
	case TaskDataSource:
		writeString(h, k.SourceDataset)
		writePipeline(h, k.SourcePipeline)
	case TaskSignal:
		if k.Expr != nil {
			writeString(h, k.Expr.String())
		}
	}
}

// writePipeline folds each stage's concrete type and field values into
// the hash, not just the stage count, so that two pipelines of equal
// length but different transform parameters (a different filter
// predicate, a different aggregate op, a different group-by column)
// never collide (spec §8 "for any pair differing in any field,
// fingerprints differ").
func writePipeline(h hash.Hash64, p *transforms.Pipeline) {
	if p == nil {
		writeUint64(h, 0)
		return
	}
	writeUint64(h, uint64(len(p.Stages)))
	for _, stage := range p.Stages {
		switch s := stage.(type) {
		case *transforms.TimeUnit:
			c := *s
			c.Tz = nil
			writeString(h, fmt.Sprintf("%#v", &c))
			if s.Tz != nil {
				writeString(h, s.Tz.String())
			}
		case *transforms.Impute:
			c := *s
			c.Value = value.Scalar{}
			writeString(h, fmt.Sprintf("%#v", &c))
			writeString(h, s.Value.String())
		default:
			writeString(h, fmt.Sprintf("%#v", stage))
		}
	}
}

func writeTaskValue(h hash.Hash64, tv value.TaskValue) {
	switch tv.Kind {
	case value.TaskValueScalar:
		s, _ := tv.AsScalar()
		writeString(h, s.String())
	case value.TaskValueTable:
		t, _ := tv.AsTable()
		writeString(h, fmt.Sprintf("table(%d rows, %d cols)", t.NumRows(), len(t.Schema.Fields)))
		for _, f := range t.Schema.Fields {
			writeString(h, f.Name+":"+f.Type.String())
		}
		for _, row := range t.Rows {
			for _, cell := range row {
				writeString(h, cell.String())
			}
		}
	}
}

func writeString(h hash.Hash64, s string) {
	_, _ = h.Write([]byte(s))
	_, _ = h.Write([]byte{0})
}

func writeBool(h hash.Hash64, b bool) {
	if b {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}

func writeUint64(h hash.Hash64, v uint64) {
	_, _ = h.Write([]byte(strconv.FormatUint(v, 16)))
}

// sortFingerprints orders fingerprints ascending. No other code in this
// module calls it.
func sortFingerprints(fps []Fingerprint) {
	sort.Slice(fps, func(i, j int) bool { return fps[i] < fps[j] })
}
