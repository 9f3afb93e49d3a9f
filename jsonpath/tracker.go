package jsonpath

import (
	"strconv"

	"github.com/keyspace-io/jsondoc/jsonvalue"
)

// Edge is one step of a tracker chain: either an object key or an
// array index.
type Edge struct {
	Key   string
	Index int
	IsKey bool
}

func keyEdge(k string) Edge { return Edge{Key: k, IsKey: true} }
func indexEdge(i int) Edge  { return Edge{Index: i} }

func (e Edge) token() string {
	if e.IsKey {
		return "[" + strconv.Quote(e.Key) + "]"
	}
	return "[" + strconv.Itoa(e.Index) + "]"
}

// Location is one evaluation result: the addressed node together with
// the tracker, the chain of edges from the document root. A Location is
// only valid for the document snapshot it was produced from; any
// mutation invalidates it.
type Location struct {
	Edges []Edge
	Value jsonvalue.Value
}

// Path renders the canonical bracket form of the tracker, e.g.
// $["store"]["book"][0]. It doubles as the node identity key for
// recursive-descent deduplication.
func (l Location) Path() string {
	out := "$"
	for _, e := range l.Edges {
		out += e.token()
	}
	return out
}

// Depth returns the number of edges from the root.
func (l Location) Depth() int { return len(l.Edges) }
