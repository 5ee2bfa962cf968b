package transforms

import (
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

func columnRefExpr(f value.Field) logicalexpr.Expr {
	return logicalexpr.NewColumnRef(f.Name, f.Type)
}

func specificationErrorCollectLength(numFields, numOrder int) error {
	return vferrors.Specification("collect: order has %d entries but fields has %d; lengths must match", numOrder, numFields)
}
