package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegardh/han-decode/internal/axdr"
)

func obisValue(a, b, c, d, e, f byte) axdr.Value {
	return axdr.Value{Tag: axdr.TagOctetString, Bytes: []byte{a, b, c, d, e, f}}
}

// TestInterpret_AidonS1 mirrors the S1 scenario: a single AIDON register
// triplet (OBIS 1-0:1.7.0.255, u32 3728, scaler-unit {0, 27=W}).
func TestInterpret_AidonS1(t *testing.T) {
	top := []axdr.Value{
		{
			Tag: axdr.TagArray,
			Elements: []axdr.Value{
				{
					Tag: axdr.TagStructure,
					Elements: []axdr.Value{
						obisValue(1, 0, 1, 7, 0, 0xFF),
						{Tag: axdr.TagU32, U32: 3728},
						{
							Tag: axdr.TagStructure,
							Elements: []axdr.Value{
								{Tag: axdr.TagI8, I8: 0},
								{Tag: axdr.TagEnum, Enum: 27},
							},
						},
					},
				},
			},
		},
	}

	data, err := Interpret(top, AidonV0001, 0)
	require.NoError(t, err)

	reading, ok := data["power_active_import"]
	require.True(t, ok)
	assert.Equal(t, "1-0:1.7.0.255", reading.OBISCode)
	assert.Equal(t, float64(3728), reading.Value)
	assert.Equal(t, "W", reading.Unit)
}

// TestInterpret_KFMFrameType7 mirrors S5: a KFM_001 frame of HDLC type 7
// carrying a single 4-octet unsigned value.
func TestInterpret_KFMFrameType7(t *testing.T) {
	top := []axdr.Value{
		{Tag: axdr.TagU32, U32: 1362},
	}

	data, err := Interpret(top, KFM001, 7)
	require.NoError(t, err)

	reading, ok := data["power_active_import"]
	require.True(t, ok)
	assert.Equal(t, float64(1362), reading.Value)
}

// TestInterpret_KamstrupVersionSynthesis mirrors S6: the flat Kamstrup body
// starts with a structure carrying the OBIS-version string, synthesised as
// a leading "1-1:0.2.129.255" entry.
func TestInterpret_KamstrupVersionSynthesis(t *testing.T) {
	top := []axdr.Value{
		{
			Tag: axdr.TagArray,
			Elements: []axdr.Value{
				{
					Tag: axdr.TagStructure,
					Elements: []axdr.Value{
						{Tag: axdr.TagVisibleString, Text: "Kamstrup_V0001"},
					},
				},
				obisValue(1, 0, 1, 7, 0, 0xFF),
				{Tag: axdr.TagU32, U32: 500},
			},
		},
	}

	data, err := Interpret(top, KamstrupV0001, 0)
	require.NoError(t, err)

	version, ok := data["obis_version"]
	require.True(t, ok)
	assert.Equal(t, "1-1:0.2.129.255", version.OBISCode)
	assert.Equal(t, "Kamstrup_V0001", version.Value)

	power, ok := data["power_active_import"]
	require.True(t, ok)
	assert.Equal(t, float64(500), power.Value)
}

// TestInterpret_KFMFrameType9 exercises the 14-key List2 positional
// sequence, including the non-addressable leading list.size slot.
func TestInterpret_KFMFrameType9(t *testing.T) {
	elems := make([]axdr.Value, 14)
	elems[0] = axdr.Value{Tag: axdr.TagU16, U16: 14} // list.size, ignored
	elems[1] = axdr.Value{Tag: axdr.TagVisibleString, Text: "KFM_001"}
	elems[2] = axdr.Value{Tag: axdr.TagVisibleString, Text: "69700123456789012345"}
	elems[3] = axdr.Value{Tag: axdr.TagVisibleString, Text: "Kaifa"}
	for i := 4; i < 14; i++ {
		elems[i] = axdr.Value{Tag: axdr.TagU32, U32: uint32(i)}
	}
	top := []axdr.Value{{Tag: axdr.TagStructure, Elements: elems}}

	data, err := Interpret(top, KFM001, 9)
	require.NoError(t, err)

	assert.Equal(t, "KFM_001", data["obis_version"].Value)
	assert.Equal(t, float64(4), data["power_active_import"].Value)
	assert.Equal(t, float64(13), data["voltage_l3"].Value)
}

func TestInterpret_UnsupportedVendor(t *testing.T) {
	_, err := Interpret(nil, Vendor("BOGUS"), 0)
	assert.Error(t, err)
}

// TestInterpret_UnknownOBISPassesThrough checks that a register whose
// OBIS code isn't in any dictionary still appears, keyed by its OBIS
// string, with no description or factor applied (spec §4.4).
func TestInterpret_UnknownOBISPassesThrough(t *testing.T) {
	top := []axdr.Value{
		{
			Tag: axdr.TagArray,
			Elements: []axdr.Value{
				{
					Tag: axdr.TagStructure,
					Elements: []axdr.Value{
						obisValue(1, 0, 99, 99, 0, 0xFF),
						{Tag: axdr.TagU32, U32: 42},
					},
				},
			},
		},
	}

	data, err := Interpret(top, AidonV0001, 0)
	require.NoError(t, err)

	reading, ok := data["1-0:99.99.0.255"]
	require.True(t, ok)
	assert.Equal(t, float64(42), reading.Value)
	assert.Empty(t, reading.Description)
	assert.Empty(t, reading.Unit)
}
