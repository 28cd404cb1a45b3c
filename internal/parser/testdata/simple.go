package testdata

import "structs"

// Celsius is a temperature in degrees.
type Celsius int16

const voltageChannels = 4

// @layout name=block3_t size=256
type Block3 struct {
	_ structs.HostLayout

	Counters struct {
		BootCount uint64
	}
	Limits struct {
		Temperature struct {
			Min, Max Celsius
		}
	}
	Thresholds struct {
		Voltage [voltageChannels]float32
	}
	Notice [128]byte `layout:"dlegal_notice"`
	cache  []byte    `layout:"-"`
}

// Version is shared by several records.
type Version struct {
	Major uint16
	Minor uint16
	Patch uint16
}

// @layout endian=big
type DeviceInfo struct {
	Name    [16]uint8
	Serial  uint32
	Version Version
	NetIP   [4]byte
}

// No annotation - should be skipped
type IgnoredType struct {
	Field uint32
}

type (
	// @layout name=grouped_t
	Grouped struct {
		Matrix [3][3]int16
	}

	Other struct{ X uint8 }
)
