package command

import (
	"strconv"

	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// respValue renders a value as the nested array form of JSON.RESP:
// containers become arrays led by a "[" or "{" marker, objects list
// their members as key then value. depthLimit of 0 means unlimited;
// the EXPAND1 reply format passes 1.
func respValue(v jsonvalue.Value, depthLimit int) Reply {
	return respValueAt(v, depthLimit, 1)
}

func respValueAt(v jsonvalue.Value, depthLimit, depth int) Reply {
	switch v.TypeOf() {
	case jsonvalue.Null:
		return NilReply{}
	case jsonvalue.Bool:
		if v.BoolVal() {
			return SimpleReply("true")
		}
		return SimpleReply("false")
	case jsonvalue.Integer:
		return IntReply(v.Int())
	case jsonvalue.Double:
		return BulkReply(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case jsonvalue.String:
		return BulkReply(v.Str())
	case jsonvalue.Array:
		if depthLimit > 0 && depth > depthLimit {
			return BulkReply("[...]")
		}
		elems := v.Values()
		out := make(ArrayReply, 0, len(elems)+1)
		out = append(out, SimpleReply("["))
		for _, e := range elems {
			out = append(out, respValueAt(e, depthLimit, depth+1))
		}
		return out
	case jsonvalue.Object:
		if depthLimit > 0 && depth > depthLimit {
			return BulkReply("{...}")
		}
		items := v.Items()
		out := make(ArrayReply, 0, len(items)*2+1)
		out = append(out, SimpleReply("{"))
		for _, it := range items {
			out = append(out, BulkReply(it.Key), respValueAt(it.Value, depthLimit, depth+1))
		}
		return out
	default:
		return NilReply{}
	}
}
