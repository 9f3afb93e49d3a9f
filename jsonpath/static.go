package jsonpath

// IsRoot reports whether the query addresses the document root itself.
func (q *Query) IsRoot() bool { return len(q.segments) == 0 }

// ParentKey splits a static query into its parent query and final key.
// The third return is false when the query is not static, addresses the
// root, or its final segment is not a plain key. The mutation engine
// uses this to insert the terminal key of a legacy path whose parent
// chain resolves.
func (q *Query) ParentKey() (*Query, string, bool) {
	if !q.static || len(q.segments) == 0 {
		return nil, "", false
	}
	last := q.segments[len(q.segments)-1]
	name, isName := last.selectors[0].(nameSelector)
	if !isName {
		return nil, "", false
	}
	parent := &Query{
		source:   q.source,
		input:    q.input,
		legacy:   q.legacy,
		segments: q.segments[:len(q.segments)-1],
	}
	parent.classify()
	return parent, name.name, true
}
