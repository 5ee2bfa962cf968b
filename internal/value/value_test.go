package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarCoercion(t *testing.T) {
	require.True(t, Int(1).ToBool())
	require.False(t, Int(0).ToBool())
	require.False(t, Null().ToBool())
	require.True(t, String("x").ToBool())
	require.False(t, String("").ToBool())

	f, ok := Int(3).AsFloat64()
	require.True(t, ok)
	require.Equal(t, 3.0, f)

	_, ok = String("abc").AsFloat64()
	require.False(t, ok)
}

func TestScalarEquality(t *testing.T) {
	require.True(t, Int(1).LooseEqual(Float(1.0)))
	require.False(t, Int(1).Equal(Float(1.0)))
	require.True(t, Int(1).Equal(Int(1)))
	require.True(t, Null().LooseEqual(Null()))
	require.False(t, Null().LooseEqual(Int(0)))
}

func TestSchemaFieldOps(t *testing.T) {
	s := NewSchema(Field{Name: "a", Type: FieldInt}, Field{Name: "b", Type: FieldString})
	require.True(t, s.HasColumn("a"))
	require.False(t, s.HasColumn("z"))

	s2 := s.WithField(Field{Name: "c", Type: FieldFloat})
	require.True(t, s2.HasColumn("c"))
	require.True(t, s.HasColumn("a")) // original untouched

	s3 := s2.WithoutField("b")
	require.False(t, s3.HasColumn("b"))
	require.Equal(t, []string{"a", "c"}, s3.Names())
}

func TestTableOrderingColumn(t *testing.T) {
	schema := NewSchema(Field{Name: "x", Type: FieldInt})
	tbl := NewTable(schema, []Row{{Int(10)}, {Int(20)}, {Int(30)}})
	require.True(t, tbl.Schema.HasColumn(OrderingColumn))

	col, err := tbl.Column("x")
	require.NoError(t, err)
	require.Len(t, col, 3)

	filtered := tbl.Filter(func(r Row) bool {
		v, _ := r.Get(tbl.Schema, "x")
		return v.Int > 10
	})
	require.Equal(t, 2, filtered.NumRows())

	restored := filtered.SortByOrderingColumn()
	require.Equal(t, 2, restored.NumRows())
}

func TestTableWithColumn(t *testing.T) {
	schema := NewSchema(Field{Name: "x", Type: FieldInt})
	tbl := NewTable(schema, []Row{{Int(1)}, {Int(2)}})

	doubled := tbl.WithColumn(Field{Name: "y", Type: FieldInt}, func(r Row) Scalar {
		v, _ := r.Get(tbl.Schema, "x")
		return Int(v.Int * 2)
	})
	require.True(t, doubled.Schema.HasColumn("y"))
	col, err := doubled.Column("y")
	require.NoError(t, err)
	require.Equal(t, int64(2), col[0].Int)
	require.Equal(t, int64(4), col[1].Int)
}

func TestTaskValueAccessors(t *testing.T) {
	tv := NewScalarValue(Int(5))
	require.True(t, tv.IsScalar())
	s, err := tv.AsScalar()
	require.NoError(t, err)
	require.Equal(t, int64(5), s.Int)

	_, err = tv.AsTable()
	require.Error(t, err)
}
