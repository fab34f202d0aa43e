package register

import (
	"fmt"
	"math"

	"github.com/vegardh/han-decode/internal/axdr"
	"github.com/vegardh/han-decode/internal/clock"
	"github.com/vegardh/han-decode/internal/obis"
)

// Reading is one measurement in the emitted "data" map (spec §6).
type Reading struct {
	OBISCode    string      `json:"obis_code"`
	Value       interface{} `json:"value"`
	Description string      `json:"description,omitempty"`
	Unit        string      `json:"unit,omitempty"`
}

// pair is an (OBIS code, raw value) association before dictionary lookup,
// optionally carrying an attached scaler-unit pair (spec §4.4 step 3).
type pair struct {
	code       string
	value      axdr.Value
	hasScaler  bool
	scalerExp  int8
	scalerUnit uint8
}

// Interpret converts the top-level COSEM value list into a flat keyed map
// of measurements (spec §4.4). frameType is the HDLC frame-format type
// byte, needed only by KFM_001's positional dispatch.
func Interpret(top []axdr.Value, vendor Vendor, frameType byte) (map[string]Reading, error) {
	dict, err := Lookup(vendor)
	if err != nil {
		return nil, err
	}

	body, ok := selectBody(top)
	if !ok {
		return map[string]Reading{}, nil
	}

	var pairs []pair
	switch vendor {
	case AidonV0001:
		pairs = extractAidon(body)
	case KamstrupV0001:
		pairs = extractKamstrup(body)
	case KFM001:
		pairs = extractKFM(body, frameType)
	}

	out := make(map[string]Reading, len(pairs))
	for _, p := range pairs {
		reading := buildReading(p, dict)
		key := p.code
		if entry, known := dict[p.code]; known {
			key = entry.Key
		}
		out[key] = reading
	}
	return out, nil
}

// selectBody implements the "payload is [timestamp, body]" shape (spec
// §4.4): a two-element top-level list is (timestamp, body); a one-element
// list has no timestamp and the sole element IS the body.
func selectBody(top []axdr.Value) (axdr.Value, bool) {
	switch len(top) {
	case 0:
		return axdr.Value{}, false
	case 1:
		return top[0], true
	default:
		return top[len(top)-1], true
	}
}

// extractAidon walks the register tree looking for register triplets: a
// structure or array element of length 2 or 3 whose first member is a
// 6-octet OBIS octet-string is treated as one register directly; anything
// else is recursed into. This handles both a bare single-register
// structure (as in a List-1-shaped AIDON frame) and an array of several
// registers uniformly, without assuming a fixed nesting depth.
func extractAidon(body axdr.Value) []pair {
	var out []pair
	var walk func(v axdr.Value)
	walk = func(v axdr.Value) {
		if v.Tag != axdr.TagArray && v.Tag != axdr.TagStructure {
			return
		}
		if looksLikeRegister(v) {
			if p, ok := registerPair(v); ok {
				out = append(out, p)
			}
			return
		}
		for _, e := range v.Elements {
			walk(e)
		}
	}
	walk(body)
	return out
}

func looksLikeRegister(v axdr.Value) bool {
	if len(v.Elements) != 2 && len(v.Elements) != 3 {
		return false
	}
	head := v.Elements[0]
	return head.Tag == axdr.TagOctetString && len(head.Bytes) == 6
}

func registerPair(v axdr.Value) (pair, bool) {
	code, ok := obisCode(v.Elements[0])
	if !ok {
		return pair{}, false
	}
	p := pair{code: code, value: v.Elements[1]}
	if len(v.Elements) == 3 {
		if exp, unit, ok := scalerUnit(v.Elements[2]); ok {
			p.hasScaler = true
			p.scalerExp = exp
			p.scalerUnit = unit
		}
	}
	return p, true
}

// scalerUnit decodes the optional scaler-unit structure (an i8 scale
// exponent paired with a unit enumeration value, spec §3).
func scalerUnit(v axdr.Value) (exp int8, unit uint8, ok bool) {
	if v.Tag != axdr.TagStructure || len(v.Elements) != 2 {
		return 0, 0, false
	}
	if v.Elements[0].Tag != axdr.TagI8 {
		return 0, 0, false
	}
	exp = v.Elements[0].I8
	switch v.Elements[1].Tag {
	case axdr.TagU16:
		unit = uint8(v.Elements[1].U16)
	case axdr.TagEnum:
		unit = v.Elements[1].Enum
	default:
		return 0, 0, false
	}
	return exp, unit, true
}

// extractKamstrup implements the Kamstrup_V0001 shape: body.Elements[0] is
// a structure whose first member is the OBIS-version string, synthesised
// as a leading pair; the remaining flat elements are paired two at a time
// into [code, value] tuples (spec §4.4).
func extractKamstrup(body axdr.Value) []pair {
	elems := body.Elements
	if len(elems) == 0 {
		return nil
	}

	var out []pair
	rest := elems
	if first := elems[0]; first.Tag == axdr.TagStructure && len(first.Elements) > 0 {
		out = append(out, pair{
			code:  "1-1:0.2.129.255",
			value: first.Elements[0],
		})
		rest = elems[1:]
	}

	for i := 0; i+1 < len(rest); i += 2 {
		code, ok := obisCode(rest[i])
		if !ok {
			continue
		}
		out = append(out, pair{code: code, value: rest[i+1]})
	}
	return out
}

// extractKFM implements the KFM_001 shape: body's elements are assigned
// OBIS keys purely by position, per the fixed key sequence for the given
// HDLC frame type (spec §4.4). When the element count doesn't match the
// expected key count and the body carries a single wrapper element (an
// array/structure enclosing the real flat list), one level of wrapping is
// peeled off before pairing.
func extractKFM(body axdr.Value, frameType byte) []pair {
	keys := kfmKeysForFrameType(frameType)
	if keys == nil {
		return nil
	}

	elems := body.Elements
	if body.Tag != axdr.TagArray && body.Tag != axdr.TagStructure {
		// A lone scalar top-level value (e.g. HDLC type 7's single
		// momentary reading) stands for a one-element list.
		elems = []axdr.Value{body}
	}
	if len(elems) != len(keys) && len(elems) == 1 {
		inner := elems[0]
		if inner.Tag == axdr.TagArray || inner.Tag == axdr.TagStructure {
			elems = inner.Elements
		}
	}

	var out []pair
	for i, key := range keys {
		if key == "" { // list.size placeholder: not an OBIS-addressed register
			continue
		}
		if i >= len(elems) {
			break
		}
		out = append(out, pair{code: key, value: elems[i]})
	}
	return out
}

func obisCode(v axdr.Value) (string, bool) {
	if v.Tag != axdr.TagOctetString || len(v.Bytes) != 6 {
		return "", false
	}
	c, err := obis.FromBytes(v.Bytes)
	if err != nil {
		return "", false
	}
	return c.String(), true
}

func numericValue(v axdr.Value) (float64, bool) {
	switch v.Tag {
	case axdr.TagU32:
		return float64(v.U32), true
	case axdr.TagI8:
		return float64(v.I8), true
	case axdr.TagI16:
		return float64(v.I16), true
	case axdr.TagU16:
		return float64(v.U16), true
	case axdr.TagEnum:
		return float64(v.Enum), true
	default:
		return 0, false
	}
}

// buildReading applies steps 2-5 of spec §4.4 to a single paired register.
func buildReading(p pair, dict Dictionary) Reading {
	entry, known := dict[p.code]

	if p.code == MeterClockOBIS && p.value.Tag == axdr.TagOctetString {
		if cv, err := clock.Decode(p.value.Bytes); err == nil {
			r := Reading{OBISCode: p.code, Value: cv.String()}
			if known {
				r.Description = entry.Description
			}
			return r
		}
	}

	factor := 1.0
	unit := ""
	switch {
	case p.hasScaler:
		factor = math.Pow(10, float64(p.scalerExp))
		unit = Unit(p.scalerUnit)
	case known:
		factor = entry.DefaultFactor
		unit = entry.DefaultUnit
	}

	var value interface{}
	if num, ok := numericValue(p.value); ok {
		value = num * factor
	} else {
		value = p.value.Interface()
	}

	r := Reading{OBISCode: p.code, Value: value}
	if known {
		r.Description = entry.Description
	}
	if unit != "" {
		r.Unit = unit
	}
	return r
}

// Describe returns a human-readable summary of a vendor selector.
func Describe(vendor Vendor) string {
	return fmt.Sprintf("vendor dictionary %q", string(vendor))
}
