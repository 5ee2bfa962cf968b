package wire

import (
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// The three request/response shapes below get hand-written
// MarshalEasyJSON/UnmarshalEasyJSON methods rather than easyjson-generated
// ones, per SPEC_FULL.md's domain stack: protobuf codegen is out of
// scope, but a fast JSON codec the generator would otherwise produce is
// the concrete "length-delimited message" shape. Within this module only
// this package's own tests exercise it.

var _ interface {
	MarshalEasyJSON(w *jwriter.Writer)
	UnmarshalEasyJSON(l *jlexer.Lexer)
} = (*QueryRequest)(nil)

func (v *NodeValueIndexWire) marshal(w *jwriter.Writer) {
	w.RawByte('{')
	w.RawString(`"node":`)
	w.Int(v.Node)
	w.RawString(`,"output":`)
	w.Int(v.Output)
	w.RawByte('}')
}

func (v *NodeValueIndexWire) unmarshal(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		switch key {
		case "node":
			v.Node = l.Int()
		case "output":
			v.Output = l.Int()
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

// MarshalJSON renders v via the hand-written easyjson codec, giving
// QueryRequest a standard json.Marshaler so it composes with
// encoding/json-based callers that don't know about easyjson.
func (v *QueryRequest) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	v.MarshalEasyJSON(&w)
	return w.BuildBytes()
}

// UnmarshalJSON implements json.Unmarshaler via the hand-written codec.
func (v *QueryRequest) UnmarshalJSON(data []byte) error {
	l := jlexer.Lexer{Data: data}
	v.UnmarshalEasyJSON(&l)
	return l.Error()
}

// MarshalEasyJSON implements easyjson.Marshaler.
func (v *QueryRequest) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	w.RawString(`"task_graph":`)
	w.Base64Bytes(v.TaskGraph)
	w.RawString(`,"requested":[`)
	for i := range v.Requested {
		if i > 0 {
			w.RawByte(',')
		}
		v.Requested[i].marshal(w)
	}
	w.RawString(`]}`)
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (v *QueryRequest) UnmarshalEasyJSON(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		if l.IsNull() {
			l.Skip()
			l.WantComma()
			continue
		}
		switch key {
		case "task_graph":
			v.TaskGraph = l.Bytes()
		case "requested":
			l.Delim('[')
			v.Requested = v.Requested[:0]
			for !l.IsDelim(']') {
				var item NodeValueIndexWire
				item.unmarshal(l)
				v.Requested = append(v.Requested, item)
				l.WantComma()
			}
			l.Delim(']')
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

func (v *WireScalar) marshal(w *jwriter.Writer) {
	w.RawByte('{')
	w.RawString(`"kind":`)
	w.String(v.Kind)
	w.RawString(`,"value":`)
	w.String(v.Value)
	w.RawByte('}')
}

func (v *WireScalar) unmarshal(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		switch key {
		case "kind":
			v.Kind = l.String()
		case "value":
			v.Value = l.String()
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

func (v *WireTable) marshal(w *jwriter.Writer) {
	w.RawByte('{')
	w.RawString(`"columns":[`)
	for i, c := range v.Columns {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(c)
	}
	w.RawString(`],"compressed_rows":`)
	w.Base64Bytes(v.CompressedRows)
	w.RawString(`,"raw_size":`)
	w.Int(v.RawSize)
	w.RawByte('}')
}

func (v *WireTable) unmarshal(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		switch key {
		case "columns":
			l.Delim('[')
			v.Columns = v.Columns[:0]
			for !l.IsDelim(']') {
				v.Columns = append(v.Columns, l.String())
				l.WantComma()
			}
			l.Delim(']')
		case "compressed_rows":
			v.CompressedRows = l.Bytes()
		case "raw_size":
			v.RawSize = l.Int()
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

func (v *ResponseTaskValue) marshal(w *jwriter.Writer) {
	w.RawByte('{')
	w.RawString(`"is_table":`)
	w.Bool(v.IsTable)
	w.RawString(`,"scalar":`)
	v.Scalar.marshal(w)
	w.RawString(`,"table":`)
	v.Table.marshal(w)
	w.RawByte('}')
}

func (v *ResponseTaskValue) unmarshal(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		switch key {
		case "is_table":
			v.IsTable = l.Bool()
		case "scalar":
			v.Scalar.unmarshal(l)
		case "table":
			v.Table.unmarshal(l)
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

// MarshalEasyJSON implements easyjson.Marshaler.
func (v *ResponseTaskValue) MarshalEasyJSON(w *jwriter.Writer) {
	v.marshal(w)
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (v *ResponseTaskValue) UnmarshalEasyJSON(l *jlexer.Lexer) {
	v.unmarshal(l)
}

// MarshalJSON renders v via the hand-written easyjson codec.
func (v *QueryResponse) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	v.MarshalEasyJSON(&w)
	return w.BuildBytes()
}

// UnmarshalJSON implements json.Unmarshaler via the hand-written codec.
func (v *QueryResponse) UnmarshalJSON(data []byte) error {
	l := jlexer.Lexer{Data: data}
	v.UnmarshalEasyJSON(&l)
	return l.Error()
}

// MarshalEasyJSON implements easyjson.Marshaler.
func (v *QueryResponse) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	w.RawString(`"values":[`)
	for i := range v.Values {
		if i > 0 {
			w.RawByte(',')
		}
		v.Values[i].marshal(w)
	}
	w.RawString(`],"error":`)
	w.String(v.Error)
	w.RawByte('}')
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (v *QueryResponse) UnmarshalEasyJSON(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		if l.IsNull() {
			l.Skip()
			l.WantComma()
			continue
		}
		switch key {
		case "values":
			l.Delim('[')
			v.Values = v.Values[:0]
			for !l.IsDelim(']') {
				var item ResponseTaskValue
				item.unmarshal(l)
				v.Values = append(v.Values, item)
				l.WantComma()
			}
			l.Delim(']')
		case "error":
			v.Error = l.String()
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}
