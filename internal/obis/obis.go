// Package obis implements the OBIS (Object Identification System) code
// representation used to address meter registers (spec §3, GLOSSARY).
package obis

import "fmt"

// Code is a six-octet OBIS identifier A-B:C.D.E.F.
type Code [6]byte

// FromBytes builds a Code from six raw octets, as found in a COSEM
// octet-string value.
func FromBytes(b []byte) (Code, error) {
	var c Code
	if len(b) != 6 {
		return c, fmt.Errorf("obis: expected 6 octets, got %d", len(b))
	}
	copy(c[:], b)
	return c, nil
}

// String renders the code as "A-B:C.D.E.F", per spec §3.
func (c Code) String() string {
	return fmt.Sprintf("%d-%d:%d.%d.%d.%d", c[0], c[1], c[2], c[3], c[4], c[5])
}

// Bytes returns the six raw octets.
func (c Code) Bytes() []byte {
	return c[:]
}
