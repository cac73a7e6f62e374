package frames

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/fxamacker/cbor/v2"
	"github.com/roffe/godtc"
)

var (
	green  = color.New(color.FgGreen).SprintfFunc()
	cyan   = color.New(color.FgCyan).SprintfFunc()
	faint  = color.New(color.Faint).SprintfFunc()
	header = color.New(color.Bold).SprintfFunc()
)

// WriteOptions controls how a Result is rendered.
type WriteOptions struct {
	Format  Format
	Verbose bool
	Color   bool
}

// Write renders res to w. Text output is for humans, JSON and CBOR carry
// the full result including the per frame records.
func Write(w io.Writer, res *godtc.Result, opts WriteOptions) error {
	switch opts.Format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case CBOR:
		b, err := cbor.Marshal(res)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case Text, Auto, "":
		return writeText(w, res, opts)
	}
	return fmt.Errorf("unsupported output format %q", opts.Format)
}

func writeText(w io.Writer, res *godtc.Result, opts WriteOptions) error {
	paint := func(f func(string, ...interface{}) string, format string, a ...interface{}) string {
		if opts.Color {
			return f(format, a...)
		}
		return fmt.Sprintf(format, a...)
	}

	mode := res.Mode
	if m, ok := godtc.LookupMode(res.Mode); ok {
		mode = fmt.Sprintf("%s (%s)", res.Mode, m.Description)
	}
	if _, err := fmt.Fprintln(w, paint(header, "mode %s: %d DTC(s)", mode, len(res.DTCs))); err != nil {
		return err
	}
	for _, dtc := range res.DTCs {
		code := godtc.Code(dtc)
		a, b := code.Bytes()
		if _, err := fmt.Fprintf(w, "  %s  %s  %s\n",
			paint(green, "%s", dtc),
			paint(faint, "%02X %02X", a, b),
			code.System(),
		); err != nil {
			return err
		}
	}
	if !opts.Verbose {
		return nil
	}
	for _, rec := range res.Frames {
		view := godtc.FrameView{ASCII: rec.ASCII, Hex: rec.Hex}
		line := view.String()
		if opts.Color {
			line = view.ColorString()
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", paint(cyan, "#%-3d", rec.Index), line); err != nil {
			return err
		}
	}
	return nil
}
