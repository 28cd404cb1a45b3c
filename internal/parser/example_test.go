package parser

import (
	"fmt"
)

// Example demonstrating how Go declarations map to schema paths
func ExampleParseSource() {
	src := `package nvm

// @layout name=block2_t
type Block2 struct {
	Another struct {
		Struct struct {
			Value       [10][2]uint16
			Arr         [2]uint16
			Description [32]byte
		}
	}
	scratch []byte ` + "`layout:\"-\"`" + `
}
`

	schemas, err := ParseSource("block2.go", src)
	if err != nil {
		fmt.Println("ERROR:", err)
		return
	}

	for _, s := range schemas {
		fmt.Println(s.Name)
		another := s.Fields[0]
		fmt.Println(" ", another.Name)
	}

	// Output:
	// block2_t
	//   another
}
