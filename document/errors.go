package document

import "fmt"

// PathDoesNotExist reports a write that required at least one match.
type PathDoesNotExist struct {
	Path string
}

func (e PathDoesNotExist) Error() string {
	if e.Path == "" {
		return "path does not exist"
	}
	return fmt.Sprintf("path '%s' does not exist", e.Path)
}

// PathExists reports a NotExists-mode set that found a match.
type PathExists struct {
	Path string
}

func (e PathExists) Error() string {
	return fmt.Sprintf("path '%s' already exists", e.Path)
}

// WrongType reports an operation applied to an incompatible JSON type.
type WrongType struct {
	Expected string
	Found    string
}

func (e WrongType) Error() string {
	return fmt.Sprintf("wrong type of path value - expected %s but found %s", e.Expected, e.Found)
}

// IndexOutOfRange reports an array index before the start of the array.
type IndexOutOfRange struct {
	Index int
}

func (e IndexOutOfRange) Error() string {
	return fmt.Sprintf("index '%d' is out of range", e.Index)
}

// EmptyArray reports a pop from an array with no elements.
type EmptyArray struct{}

func (e EmptyArray) Error() string { return "array is empty" }

// Overflow reports arithmetic whose result cannot be represented.
type Overflow struct{}

func (e Overflow) Error() string { return "result cannot be represented as a number" }
