package testdata

// @layout
type WithSlice struct {
	Magic uint32
	Body  []byte
}

// @layout
type Good struct {
	Magic uint32
}

// @layout
type Loop struct {
	Next Node
}

type Node struct {
	Self [2]Node
}

// @layout
type Platform struct {
	Count int
}

// @layout size=0
type BadAnnotation struct {
	X uint8
}

// @layout
type Pointer struct {
	P *uint32
}
