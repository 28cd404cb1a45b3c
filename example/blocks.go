// Package example declares the flash parameter blocks used by the device
// firmware. The C header is generated from these declarations:
//
//	go run ../cmd/nvmlayout -assert -o blocks.h blocks.go
package example

//go:generate go run ../cmd/nvmlayout -assert -o blocks.h blocks.go
//go:generate go run ../cmd/nvmlayout -lang json -o blocks.json blocks.go

import "structs"

// AStruct is one row of structs.astruct_array.
type AStruct struct {
	A float32 `layout:"A"`
	B float32 `layout:"B"`
}

// @layout name=block_t
type Block struct {
	_ structs.HostLayout

	Some struct {
		Struct struct {
			Value  uint32
			Value2 uint32
			Value3 [10]uint8
		}
	}
	Device struct {
		Info struct {
			Name    [16]uint8
			Serial  uint32
			Version struct {
				Major uint16
				Minor uint16
				Patch uint16
			}
		}
	}
	Wifi struct {
		SSID [32]uint8 `layout:"ssid"`
		Key  [64]uint8
	}
	Net struct {
		IP [4]uint8 `layout:"ip"`
	}
	Calibration struct {
		Coefficients [8]float32
		Matrix       [3][3]int16
	}
	Message [16]uint8
	Magic   uint32
	Nested  struct {
		Complex struct {
			Level1 struct {
				Level2 struct {
					Level3 struct {
						Scalar16 uint16 `layout:"scalar16"`
						Array1D  [4]int16 `layout:"array1d"`
					}
				}
			}
		}
	}
	Structs struct {
		AStructArray [10]AStruct `layout:"astruct_array"`
	}
}

// @layout name=block2_t
type Block2 struct {
	Another struct {
		Struct struct {
			Value       [10][2]uint16
			Arr         [2]uint16
			Description [32]uint8
		}
	}
}

// @layout name=block3_t size=256
type Block3 struct {
	Counters struct {
		BootCount uint64
	}
	Limits struct {
		Temperature struct {
			Min int16
			Max int16
		}
	}
	Thresholds struct {
		Voltage [4]float32
	}
	LegalNotice [128]uint8 `layout:"dlegal_notice"`
}
