package godtc

import (
	"fmt"
	"regexp"
	"strconv"
)

// Code is a five character SAE J2012 trouble code such as "P0301".
type Code string

// System is the vehicle system a Code belongs to.
type System byte

const (
	Powertrain System = iota
	Chassis
	Body
	Network
)

func (s System) String() string {
	switch s {
	case Powertrain:
		return "Powertrain"
	case Chassis:
		return "Chassis"
	case Body:
		return "Body"
	case Network:
		return "Network"
	}
	return "Unknown"
}

var (
	codePattern = regexp.MustCompile(`^[PCBU][0-3][0-9A-F]{3}$`)
	quadPattern = regexp.MustCompile(`^[0-9A-F]{4}$`)
)

// A stored value of all zero bits means "no code", whatever the system letter.
var sentinels = map[string]struct{}{
	"P0000": {},
	"C0000": {},
	"B0000": {},
	"U0000": {},
}

const (
	systemChars = "PCBU"
	hexDigits   = "0123456789ABCDEF"
)

// How to read DTC codes
//B0 B1    First DTC character
//-- --    -------------------
// 0  0    P - Powertrain
// 0  1    C - Chassis
// 1  0    B - Body
// 1  1    U - Network

//B2 B3    Second DTC character
//-- --    --------------------
// 0  0    0
// 0  1    1
// 1  0    2
// 1  1    3

//B4 B5 B6 B7    Third/Fourth/Fifth DTC characters, one hex digit each

// Example
// 43 01 ->
// 0100 0011 0000 0001
// 01=C
//
//	00=0
//	   0011=3
//	        0000=0
//	             0001=1
//
// ----------------------
// C0301

// DecodeDTC decodes the two byte value (A,B) into a Code. It returns
// ErrSentinelCode for the "no fault" values and ErrInvalidCode if the
// result does not have the trouble code shape.
func DecodeDTC(a, b byte) (Code, error) {
	code := make([]byte, 5)

	// A7..A6 -> system letter (P/C/B/U)
	code[0] = systemChars[(a>>6)&0x03]

	// A5..A4 -> 2nd digit (0..3)
	code[1] = '0' + (a>>4)&0x03

	// A3..A0 -> 3rd digit (0..F)
	code[2] = hexDigits[a&0x0F]

	// B7..B4 -> 4th digit (0..F)
	code[3] = hexDigits[(b>>4)&0x0F]

	// B3..B0 -> 5th digit (0..F)
	code[4] = hexDigits[b&0x0F]

	s := string(code)
	if !ValidCode(s) {
		return "", fmt.Errorf("%w: %s", ErrInvalidCode, s)
	}
	if IsSentinel(s) {
		return "", fmt.Errorf("%w: %s", ErrSentinelCode, s)
	}
	return Code(s), nil
}

// DecodeQuad decodes four hex characters, two encoded bytes, into a Code.
func DecodeQuad(quad string) (Code, error) {
	if !quadPattern.MatchString(quad) {
		return "", fmt.Errorf("%w: %q", ErrInvalidQuad, quad)
	}
	a, err := strconv.ParseUint(quad[0:2], 16, 8)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidQuad, err)
	}
	b, err := strconv.ParseUint(quad[2:4], 16, 8)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidQuad, err)
	}
	return DecodeDTC(byte(a), byte(b))
}

// ValidCode reports whether s has the shape of a trouble code. Sentinels
// are valid codes in this sense.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// IsSentinel reports whether s is one of the "no fault stored" values.
func IsSentinel(s string) bool {
	_, ok := sentinels[s]
	return ok
}

// ParseCode validates s as a reportable trouble code.
func ParseCode(s string) (Code, error) {
	if !ValidCode(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	if IsSentinel(s) {
		return "", fmt.Errorf("%w: %s", ErrSentinelCode, s)
	}
	return Code(s), nil
}

// Bytes packs c back into its two byte J2012 form. c must be valid.
func (c Code) Bytes() (byte, byte) {
	if !ValidCode(string(c)) {
		return 0, 0
	}
	s := string(c)
	var a, b byte
	a = byte(c.System()) << 6
	a |= (s[1] - '0') << 4
	a |= hexValue(s[2])
	b = hexValue(s[3])<<4 | hexValue(s[4])
	return a, b
}

// System returns the vehicle system encoded in the first letter.
func (c Code) System() System {
	if len(c) == 0 {
		return Powertrain
	}
	for i := 0; i < len(systemChars); i++ {
		if systemChars[i] == c[0] {
			return System(i)
		}
	}
	return Powertrain
}

func (c Code) String() string {
	return string(c)
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
