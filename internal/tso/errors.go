package tso

import "fmt"

// FormatError reports a structural violation in the binary stream.
type FormatError struct {
	Offset int64
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("tso: format error at offset %d: %s", e.Offset, e.Msg)
}

// LookupError reports a reference with no target: a parent path, a palette
// index or a node id.
type LookupError struct {
	What string
	Key  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("tso: %s %s not found", e.What, e.Key)
}
