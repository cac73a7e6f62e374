package godtc

import (
	"errors"
	"sort"

	"github.com/rs/zerolog"
)

const quadLen = 4

// DebugRecord is the text view of one input frame, Index is 1-based.
type DebugRecord struct {
	Index int    `json:"index" cbor:"index"`
	ASCII string `json:"ascii" cbor:"ascii"`
	Hex   string `json:"hex" cbor:"hex"`
}

// Result is the outcome of decoding one batch of frames.
type Result struct {
	DTCs   []string      `json:"dtcs" cbor:"dtcs"`
	Frames []DebugRecord `json:"frameData" cbor:"frameData"`
	Mode   string        `json:"mode" cbor:"mode"`
}

// Decoder turns batches of response frames into trouble codes. It holds no
// state between calls and is safe for concurrent use.
type Decoder struct {
	log     zerolog.Logger
	onFrame func(DebugRecord, int)
}

func New(opts ...Opt) *Decoder {
	d := &Decoder{
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDecoder = New()

// Decode decodes frames with a decoder without logging.
func Decode(frames []RawFrame, mode string) (*Result, error) {
	return defaultDecoder.Decode(frames, mode)
}

// DecodePayload decodes an extracted payload quad by quad.
func DecodePayload(payload string) []Code {
	return defaultDecoder.decodePayload(0, payload)
}

// Decode runs every frame through normalization, payload extraction and
// code decoding and returns the sorted set of codes found. Bad quads and
// frames without a payload are skipped, the only error returned is an
// *Error for a batch that could not be processed at all.
func (d *Decoder) Decode(frames []RawFrame, mode string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e := newParseError(r)
			d.log.Error().Str("mode", mode).Msg(e.Error())
			res, err = nil, e
		}
	}()

	d.log.Debug().Str("mode", mode).Int("frames", len(frames)).Msg("decoding DTC response")

	found := make(codeSet)
	records := make([]DebugRecord, 0, len(frames))
	for i, f := range frames {
		index := i + 1
		view := Normalize(f)
		rec := DebugRecord{
			Index: index,
			ASCII: view.ASCII,
			Hex:   view.Hex,
		}
		records = append(records, rec)

		codes, ferr := d.decodeFrame(index, view)
		if ferr != nil {
			d.log.Debug().Int("frame", index).Str("ascii", view.ASCII).Err(ferr).Msg("skipping frame")
		}
		found.add(codes...)

		if d.onFrame != nil {
			d.onFrame(rec, len(codes))
		}
	}

	res = &Result{
		DTCs:   found.sorted(),
		Frames: records,
		Mode:   mode,
	}
	d.log.Info().Str("mode", mode).Strs("dtcs", res.DTCs).Msgf("found %d DTCs", len(res.DTCs))
	return res, nil
}

func (d *Decoder) decodeFrame(index int, view FrameView) ([]Code, error) {
	payload, ok := ExtractPayload(view.ASCII)
	if !ok {
		return nil, ErrNoPayload
	}
	d.log.Debug().Int("frame", index).Str("payload", payload).Msg("frame hex data")
	return d.decodePayload(index, payload), nil
}

// decodePayload walks payload four characters at a time, a trailing
// partial quad is dropped.
func (d *Decoder) decodePayload(index int, payload string) []Code {
	var codes []Code
	for i := 0; i+quadLen <= len(payload); i += quadLen {
		quad := payload[i : i+quadLen]
		code, err := DecodeQuad(quad)
		if err != nil {
			ev := d.log.Debug()
			if errors.Is(err, ErrSentinelCode) {
				ev = d.log.Trace()
			}
			ev.Int("frame", index).Str("quad", quad).Err(err).Msg("skipping quad")
			continue
		}
		d.log.Debug().Int("frame", index).Str("quad", quad).Str("dtc", code.String()).Msg("decoded DTC")
		codes = append(codes, code)
	}
	return codes
}

type codeSet map[Code]struct{}

func (s codeSet) add(codes ...Code) {
	for _, c := range codes {
		s[c] = struct{}{}
	}
}

// sorted returns the members in ascending byte order, never nil.
func (s codeSet) sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}
