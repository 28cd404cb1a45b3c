package analyzer

import "github.com/fordtom/nvmbuilder/internal/schema"

// Fixtures mirror the block_t, block2_t and block3_t records used by the
// flash image tooling.

func blockT() schema.Schema {
	return schema.New("block_t",
		schema.StructField("some",
			schema.StructField("struct",
				schema.ScalarField("value", schema.U32),
				schema.ScalarField("value2", schema.U32),
				schema.ArrayField("value3", schema.Of(schema.U8), 10),
			),
		),
		schema.StructField("device",
			schema.StructField("info",
				schema.ArrayField("name", schema.Of(schema.U8), 16),
				schema.ScalarField("serial", schema.U32),
				schema.StructField("version",
					schema.ScalarField("major", schema.U16),
					schema.ScalarField("minor", schema.U16),
					schema.ScalarField("patch", schema.U16),
				),
			),
		),
		schema.StructField("wifi",
			schema.ArrayField("ssid", schema.Of(schema.U8), 32),
			schema.ArrayField("key", schema.Of(schema.U8), 64),
		),
		schema.StructField("net",
			schema.ArrayField("ip", schema.Of(schema.U8), 4),
		),
		schema.StructField("calibration",
			schema.ArrayField("coefficients", schema.Of(schema.F32), 8),
			schema.ArrayField("matrix", schema.Of(schema.I16), 3, 3),
		),
		schema.ArrayField("message", schema.Of(schema.U8), 16),
		schema.ScalarField("magic", schema.U32),
		schema.StructField("nested",
			schema.StructField("complex",
				schema.StructField("level1",
					schema.StructField("level2",
						schema.StructField("level3",
							schema.ScalarField("scalar16", schema.U16),
							schema.ArrayField("array1d", schema.Of(schema.I16), 4),
						),
					),
				),
			),
		),
		schema.StructField("structs",
			schema.ArrayField("astruct_array",
				schema.StructOf(
					schema.ScalarField("A", schema.F32),
					schema.ScalarField("B", schema.F32),
				), 10),
		),
	)
}

func block2T() schema.Schema {
	return schema.New("block2_t",
		schema.StructField("another",
			schema.StructField("struct",
				schema.ArrayField("value", schema.Of(schema.U16), 10, 2),
				schema.ArrayField("arr", schema.Of(schema.U16), 2),
				schema.ArrayField("description", schema.Of(schema.U8), 32),
			),
		),
	)
}

func block3T() schema.Schema {
	s := schema.New("block3_t",
		schema.StructField("counters",
			schema.ScalarField("boot_count", schema.U64),
		),
		schema.StructField("limits",
			schema.StructField("temperature",
				schema.ScalarField("min", schema.I16),
				schema.ScalarField("max", schema.I16),
			),
		),
		schema.StructField("thresholds",
			schema.ArrayField("voltage", schema.Of(schema.F32), 4),
		),
		schema.ArrayField("dlegal_notice", schema.Of(schema.U8), 128),
	)
	s.Capacity = 256
	return s
}
