package godtc

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// RawFrame is one response frame as handed over by the caller, each
// element a byte value. Values are kept as int so that out of range input
// reaches the normalizer untouched.
type RawFrame []int

// FrameFromString returns the frame holding the character codes of s.
func FrameFromString(s string) RawFrame {
	f := make(RawFrame, 0, len(s))
	for _, r := range s {
		f = append(f, int(r))
	}
	return f
}

// FrameFromBytes returns the frame holding the values of b.
func FrameFromBytes(b []byte) RawFrame {
	f := make(RawFrame, len(b))
	for i, v := range b {
		f[i] = int(v)
	}
	return f
}

// FrameView is the text projection of a RawFrame.
type FrameView struct {
	ASCII string
	Hex   string
}

// Normalize renders f as text. Every value is mapped to the character with
// the same code point and to two upper case hex digits followed by a space.
// No range checking is done here: values are cut to 16 bits for the text
// view and printed as unsigned 32 bit numbers in the hex view, so -1 shows
// as U+FFFF and "FFFFFFFF".
func Normalize(f RawFrame) FrameView {
	var ascii, hexView strings.Builder
	for _, b := range f {
		ascii.WriteRune(rune(uint16(b)))
		hexView.WriteString(fmt.Sprintf("%02X ", uint32(b)))
	}
	return FrameView{
		ASCII: ascii.String(),
		Hex:   hexView.String(),
	}
}

var (
	yellow = color.New(color.FgHiBlue).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
)

func (v FrameView) String() string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("%-48s", strings.TrimSpace(v.Hex)))
	out.WriteString(" || ")
	out.WriteString(onlyPrintable(v.ASCII))
	return out.String()
}

func (v FrameView) ColorString() string {
	var out strings.Builder
	out.WriteString(red(fmt.Sprintf("%-48s", strings.TrimSpace(v.Hex))))
	out.WriteString(" || ")
	out.WriteString(yellow(onlyPrintable(v.ASCII)))
	return out.String()
}

func onlyPrintable(s string) string {
	var out strings.Builder
	for _, r := range s {
		if r < 32 || r > 126 {
			out.WriteString("·")
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}
