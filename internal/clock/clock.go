// Package clock decodes and renders the 12-byte COSEM clock structure
// carried as an octet-string value (spec §4.3). This is applied by the
// register interpreter to the meter-clock OBIS register, not by the TLV
// decoder itself.
package clock

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Value is a decoded 12-byte COSEM clock structure.
type Value struct {
	Year          int16
	Month         uint8
	Day           uint8
	DayOfWeek     uint8
	Hour          uint8
	Minute        uint8
	Second        uint8
	Hundredths    uint8
	OffsetMinutes int16
	Status        uint8
}

// Decode parses a 12-byte clock structure.
func Decode(b []byte) (Value, error) {
	if len(b) != 12 {
		return Value{}, fmt.Errorf("clock: expected 12 octets, got %d", len(b))
	}
	return Value{
		Year:          int16(binary.BigEndian.Uint16(b[0:2])),
		Month:         b[2],
		Day:           b[3],
		DayOfWeek:     b[4],
		Hour:          b[5],
		Minute:        b[6],
		Second:        b[7],
		Hundredths:    b[8],
		OffsetMinutes: int16(binary.BigEndian.Uint16(b[9:11])),
		Status:        b[11],
	}, nil
}

// String renders the clock as "YYYY-MM-DD HH:MM:SS,hh ±OFF (SSSSSSSS)",
// per spec §4.3, with the status byte rendered in binary.
func (v Value) String() string {
	sign := "+"
	offset := v.OffsetMinutes
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d,%02d %s%d (%s)",
		v.Year, v.Month, v.Day,
		v.Hour, v.Minute, v.Second, v.Hundredths,
		sign, offset,
		paddedBinary(v.Status))
}

func paddedBinary(b uint8) string {
	s := strconv.FormatUint(uint64(b), 2)
	for len(s) < 8 {
		s = "0" + s
	}
	return s
}
