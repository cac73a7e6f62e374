package frames

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/roffe/godtc"
)

// Format names an input or output encoding.
type Format string

const (
	Auto Format = "auto"
	JSON Format = "json"
	CBOR Format = "cbor"
	Text Format = "text"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Auto, JSON, CBOR, Text:
		return f, nil
	case "":
		return Auto, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Batch is one response as captured from an adapter. Mode is only set when
// the input carried it.
type Batch struct {
	Name   string           `json:"-" cbor:"-"`
	Mode   string           `json:"mode" cbor:"mode"`
	Frames []godtc.RawFrame `json:"frames" cbor:"frames"`
}

// LoadFile reads a batch from path, "-" reads stdin.
func LoadFile(path string, format Format) (*Batch, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if format == Auto {
		format = formatFromExt(path)
	}
	batch, err := Load(b, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	batch.Name = path
	return batch, nil
}

// Load decodes b in format. JSON and CBOR accept either a bare list of
// frames, [[49,58,...],[13,62]], or an object with "mode" and "frames".
// Text input is one frame per line.
func Load(b []byte, format Format) (*Batch, error) {
	if format == Auto {
		format = sniff(b)
	}
	switch format {
	case JSON:
		return loadStructured(b, json.Unmarshal)
	case CBOR:
		return loadStructured(b, cbor.Unmarshal)
	case Text:
		return loadText(b)
	}
	return nil, fmt.Errorf("unsupported input format %q", format)
}

func loadStructured(b []byte, unmarshal func([]byte, interface{}) error) (*Batch, error) {
	var list []godtc.RawFrame
	if err := unmarshal(b, &list); err == nil {
		return &Batch{Frames: list}, nil
	}
	var batch Batch
	if err := unmarshal(b, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode frames: %w", err)
	}
	return &batch, nil
}

// loadText turns an ELM327 style capture into frames, one byte value per
// input byte. Line endings, empty lines and the ">" prompt are dropped.
func loadText(b []byte) (*Batch, error) {
	batch := &Batch{}
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		line = strings.TrimPrefix(line, ">")
		if strings.TrimSpace(line) == "" {
			continue
		}
		batch.Frames = append(batch.Frames, godtc.FrameFromBytes([]byte(line)))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return batch, nil
}

func formatFromExt(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".cbor":
		return CBOR
	case ".txt", ".log":
		return Text
	}
	return Auto
}

func sniff(b []byte) Format {
	t := bytes.TrimSpace(b)
	if len(t) > 0 && (t[0] == '[' || t[0] == '{') {
		return JSON
	}
	if !utf8.Valid(b) {
		return CBOR
	}
	return Text
}
