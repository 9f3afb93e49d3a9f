package command

import "strconv"

// Reply is the tagged result of a command, mirroring the host's wire
// value kinds.
type Reply interface {
	isReply()
}

// NilReply is the null reply (missing key, NX/XX miss).
type NilReply struct{}

// SimpleReply is a status string, e.g. OK.
type SimpleReply string

// BulkReply is a binary-safe string payload.
type BulkReply string

// IntReply is an integer payload.
type IntReply int64

// ArrayReply is an ordered multi-value payload.
type ArrayReply []Reply

func (NilReply) isReply()    {}
func (SimpleReply) isReply() {}
func (BulkReply) isReply()   {}
func (IntReply) isReply()    {}
func (ArrayReply) isReply()  {}

// OK is the canonical success status.
var OK = SimpleReply("OK")

// Render prints a reply in the line protocol used by the CLI shell.
func Render(r Reply) string {
	switch v := r.(type) {
	case NilReply:
		return "(nil)"
	case SimpleReply:
		return string(v)
	case BulkReply:
		return strconv.Quote(string(v))
	case IntReply:
		return "(integer) " + strconv.FormatInt(int64(v), 10)
	case ArrayReply:
		out := ""
		for i, e := range v {
			if i > 0 {
				out += "\n"
			}
			out += strconv.Itoa(i+1) + ") " + Render(e)
		}
		if out == "" {
			return "(empty array)"
		}
		return out
	default:
		return "(unknown)"
	}
}
