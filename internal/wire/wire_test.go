package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vegafusion-go/internal/taskgraph"
	"vegafusion-go/internal/value"
)

func TestEncodeDecodeScalarRoundTrips(t *testing.T) {
	tv := value.NewScalarValue(value.Int(42))
	rtv, err := EncodeTaskValue(tv)
	require.NoError(t, err)
	require.False(t, rtv.IsTable)

	got, err := DecodeTaskValue(rtv)
	require.NoError(t, err)
	s, _ := got.AsScalar()
	require.Equal(t, "42", s.ToStringValue())
}

func TestEncodeDecodeTableRoundTrips(t *testing.T) {
	schema := value.NewSchema(value.Field{Name: "a", Type: value.FieldString})
	tbl := value.NewTable(schema, []value.Row{
		{value.String("x")},
		{value.String("y")},
	})
	tv := value.NewTableValue(tbl)

	rtv, err := EncodeTaskValue(tv)
	require.NoError(t, err)
	require.True(t, rtv.IsTable)
	require.Equal(t, []string{"a", "__vf_order__"}, rtv.Table.Columns)

	got, err := DecodeTaskValue(rtv)
	require.NoError(t, err)
	gotTbl, err := got.AsTable()
	require.NoError(t, err)
	require.Len(t, gotTbl.Rows, 2)
	require.Equal(t, "x", gotTbl.Rows[0][0].ToStringValue())
	require.Equal(t, "y", gotTbl.Rows[1][0].ToStringValue())
}

func TestQueryRequestEasyJSONRoundTrips(t *testing.T) {
	req := &QueryRequest{
		TaskGraph: []byte("opaque-graph-bytes"),
		Requested: []NodeValueIndexWire{
			FromDomain(taskgraph.MainOutput(0)),
			FromDomain(taskgraph.AuxOutput(2, 1)),
		},
	}
	data, err := req.MarshalJSON()
	require.NoError(t, err)

	var got QueryRequest
	require.NoError(t, got.UnmarshalJSON(data))
	require.Equal(t, req.TaskGraph, got.TaskGraph)
	require.Equal(t, req.Requested, got.Requested)
}

func TestQueryResponseEasyJSONRoundTrips(t *testing.T) {
	scalarRTV, err := EncodeTaskValue(value.NewScalarValue(value.Float(3.5)))
	require.NoError(t, err)

	resp := &QueryResponse{Values: []ResponseTaskValue{scalarRTV}}
	data, err := resp.MarshalJSON()
	require.NoError(t, err)

	var got QueryResponse
	require.NoError(t, got.UnmarshalJSON(data))
	require.Len(t, got.Values, 1)
	require.Equal(t, "3.5", got.Values[0].Scalar.Value)
}

func TestNodeValueIndexWireRoundTrips(t *testing.T) {
	require.Equal(t, taskgraph.MainOutput(5), NodeValueIndexWire{Node: 5, Output: -1}.ToDomain())
	require.Equal(t, taskgraph.AuxOutput(5, 2), NodeValueIndexWire{Node: 5, Output: 2}.ToDomain())
}
