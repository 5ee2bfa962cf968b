package transforms

import (
	"context"
	"math"

	"vegafusion-go/internal/dataframe"
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

// Bin computes nice-rounded bin boundaries and projects bin0/bin1
// columns (spec §4.3 Bin).
type Bin struct {
	defaultSupport
	Field       string
	Extent      [2]float64
	MaxBins     int
	Base        float64
	MinStep     float64
	Steps       []float64
	Nice        bool
	As          [2]string // bin0, bin1 aliases; defaults to "bin0"/"bin1"
	SignalName  string
}

func (b *Bin) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	maxBins := b.MaxBins
	if maxBins <= 0 {
		maxBins = 10
	}
	base := b.Base
	if base <= 0 {
		base = 10
	}
	step := chooseBinStep(b.Extent[0], b.Extent[1], maxBins, base, b.MinStep, b.Steps)

	start, stop := b.Extent[0], b.Extent[1]
	if b.Nice {
		start = math.Floor(start/step) * step
		stop = math.Ceil(stop/step) * step
	}

	bin0Name, bin1Name := "bin0", "bin1"
	if b.As[0] != "" {
		bin0Name = b.As[0]
	}
	if b.As[1] != "" {
		bin1Name = b.As[1]
	}

	inSchema := df.Schema()
	fieldRef, ok := inSchema.Field(b.Field)
	if !ok {
		return nil, nil, vferrors.Compilation("bin: column %q not found in input schema", b.Field)
	}
	_ = fieldRef

	bin0Expr := newBinBoundaryExpr(b.Field, step, start, false)
	bin1Expr := newBinBoundaryExpr(b.Field, step, start, true)

	outSchema := inSchema.WithField(value.Field{Name: bin0Name, Type: value.FieldFloat}).WithField(value.Field{Name: bin1Name, Type: value.FieldFloat})

	fields := make([]dataframe.ProjectField, 0, len(outSchema.Fields))
	for _, f := range inSchema.Fields {
		fields = append(fields, dataframe.ProjectField{Alias: f.Name, Expr: columnRefExpr(f)})
	}
	fields = append(fields, dataframe.ProjectField{Alias: bin0Name, Expr: bin0Expr})
	fields = append(fields, dataframe.ProjectField{Alias: bin1Name, Expr: bin1Expr})

	result := df.Select(outSchema, fields)

	var signals []Signal
	if b.SignalName != "" {
		payload := value.String("{fields:[" + b.Field + "],start:" + floatStr(start) + ",stop:" + floatStr(stop) + ",step:" + floatStr(step) + "}")
		signals = append(signals, Signal{Name: b.SignalName, Value: payload})
	}
	return result, signals, nil
}

func (b *Bin) PublishedSignalNames() []string {
	if b.SignalName == "" {
		return nil
	}
	return []string{b.SignalName}
}

// chooseBinStep picks a step per spec §4.3 Bin: the smallest candidate
// step (drawn from steps, or the default 1/2/2.5/5/10 x base^k ladder
// when steps is empty) such that (extent.1-extent.0)/step <= maxbins and
// step >= minstep.
func chooseBinStep(lo, hi float64, maxBins int, base, minStep float64, steps []float64) float64 {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	candidates := steps
	if len(candidates) == 0 {
		candidates = defaultStepLadder(span, maxBins, base)
	}
	best := candidates[0]
	for _, s := range candidates {
		if s < minStep {
			continue
		}
		if span/s <= float64(maxBins) {
			best = s
			break
		}
		best = s
	}
	if best < minStep {
		best = minStep
	}
	return best
}

func defaultStepLadder(span float64, maxBins int, base float64) []float64 {
	rawStep := span / float64(maxBins)
	mag := math.Pow(base, math.Floor(logBase(rawStep, base)))
	var ladder []float64
	for _, mult := range []float64{1, 2, 2.5, 5, 10} {
		ladder = append(ladder, mult*mag)
	}
	return ladder
}

func logBase(x, base float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Log(x) / math.Log(base)
}

func floatStr(f float64) string {
	return value.Float(f).ToStringValue()
}

// newBinBoundaryExpr builds datum.field -> floor((x-start)/step)*step
// + start (+step for the bin1/upper boundary), matching the Bin transform's
// contract that bin0/bin1 bracket the value's bucket.
func newBinBoundaryExpr(field string, step, start float64, upper bool) logicalexpr.Expr {
	col := logicalexpr.NewColumnRef(field, value.FieldFloat)
	shifted := logicalexpr.NewBinary(logicalexpr.OpSub, col, logicalexpr.NewConst(value.Float(start)))
	divided := logicalexpr.NewBinary(logicalexpr.OpDiv, shifted, logicalexpr.NewConst(value.Float(step)))
	floored, _ := logicalexpr.NewCall("floor", []logicalexpr.Expr{divided})
	bucket := logicalexpr.NewBinary(logicalexpr.OpMul, floored, logicalexpr.NewConst(value.Float(step)))
	boundary := logicalexpr.NewBinary(logicalexpr.OpAdd, bucket, logicalexpr.NewConst(value.Float(start)))
	if !upper {
		return boundary
	}
	return logicalexpr.NewBinary(logicalexpr.OpAdd, boundary, logicalexpr.NewConst(value.Float(step)))
}
