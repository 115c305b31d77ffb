package types

// Index is the integer a vocabulary assigns to a single character or to one
// of the reserved boundary markers.
type Index int64
type Sequence []Index
type IndexMap map[string]Index

const (
	PadIndex   Index = 0
	StartIndex Index = 1
	EndIndex   Index = 2
)

const (
	PadToken   = "<PAD>"
	StartToken = "<S>"
	EndToken   = "</S>"
)
