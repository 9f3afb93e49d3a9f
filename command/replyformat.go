package command

import "fmt"

// ReplyFormat selects how multi-path replies are shaped: one flattened
// JSON string, per-path strings, or path/value pair expansion.
type ReplyFormat int

const (
	ReplyFormatString ReplyFormat = iota
	ReplyFormatStrings
	ReplyFormatExpand1
	ReplyFormatExpand
)

// ParseReplyFormat accepts the wire names of the reply formats.
func ParseReplyFormat(s string) (ReplyFormat, error) {
	switch s {
	case "STRING":
		return ReplyFormatString, nil
	case "STRINGS":
		return ReplyFormatStrings, nil
	case "EXPAND1":
		return ReplyFormatExpand1, nil
	case "EXPAND":
		return ReplyFormatExpand, nil
	default:
		return 0, fmt.Errorf("wrong reply format: %q", s)
	}
}

func (f ReplyFormat) String() string {
	switch f {
	case ReplyFormatString:
		return "STRING"
	case ReplyFormatStrings:
		return "STRINGS"
	case ReplyFormatExpand1:
		return "EXPAND1"
	case ReplyFormatExpand:
		return "EXPAND"
	default:
		return fmt.Sprintf("ReplyFormat(%d)", int(f))
	}
}
