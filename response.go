package godtc

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// CategoryMode tags a response decode for a service that does not report DTCs.
const CategoryMode = "invalid_mode"

var hexLine = regexp.MustCompile(`^[0-9A-Fa-f\s\v]*$`)

// RawDTC is one decoded code with the two bytes it came from, in the order
// the adapter sent them. Duplicates are kept.
type RawDTC struct {
	Code  Code    `json:"code" cbor:"code"`
	Bytes [2]byte `json:"bytes" cbor:"bytes"`
}

// Response is the outcome of decoding plain adapter responses.
type Response struct {
	Result
	Raw []RawDTC `json:"raw" cbor:"raw"`
}

// message is one service response, either a single line or the
// concatenated segments of a multi frame ISO-TP response.
type message struct {
	hex   strings.Builder
	frame int
}

// DecodeResponse decodes frames with a decoder without logging.
func DecodeResponse(frames []RawFrame, mode string) (*Response, error) {
	return defaultDecoder.DecodeResponse(frames, mode)
}

// DecodeResponse decodes ELM327 style answers to a DTC service request:
//
//	4302010201 13       single frame, CAN: mode byte, count byte, code pairs
//	43 01 33 00 00 00 00 legacy protocols: mode byte, three code pairs
//	010 / 0:430701 / 1:010113  multi frame, length header and segments
//
// Lines that are not hex (NO DATA, SEARCHING...) and the ">" prompt are
// ignored. A segment may split a code pair, segments are joined before
// decoding and a trailing half byte is dropped. Messages that do not start
// with the response byte of mode are skipped.
func (d *Decoder) DecodeResponse(frames []RawFrame, mode string) (res *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			e := newParseError(r)
			d.log.Error().Str("mode", mode).Msg(e.Error())
			res, err = nil, e
		}
	}()

	sm, ok := LookupMode(mode)
	if !ok {
		return nil, &Error{Category: CategoryMode, Message: fmt.Sprintf("invalid service mode %q", mode)}
	}

	res = &Response{
		Result: Result{
			Frames: make([]DebugRecord, 0, len(frames)),
			Mode:   mode,
		},
	}

	var (
		messages []*message
		cur      *message
	)
	for i, f := range frames {
		index := i + 1
		view := Normalize(f)
		res.Frames = append(res.Frames, DebugRecord{
			Index: index,
			ASCII: view.ASCII,
			Hex:   view.Hex,
		})

		lines := strings.FieldsFunc(strings.ReplaceAll(view.ASCII, ">", ""), func(r rune) bool {
			return r == '\r' || r == '\n'
		})
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if c := strings.IndexByte(line, ':'); c >= 0 {
				data := line[c+1:]
				if !hexLine.MatchString(data) {
					d.log.Debug().Int("frame", index).Str("line", line).Msg("skipping segment")
					continue
				}
				if cur == nil || strings.TrimSpace(line[:c]) == "0" {
					cur = &message{}
					messages = append(messages, cur)
				}
				cur.hex.WriteString(stripSpace(data))
				cur.frame = index
				continue
			}
			if !hexLine.MatchString(line) {
				d.log.Debug().Int("frame", index).Str("line", line).Msg("skipping line")
				continue
			}
			digits := stripSpace(line)
			cur = nil
			if len(digits) == 3 {
				// byte count header of a multi frame response
				continue
			}
			m := &message{frame: index}
			m.hex.WriteString(digits)
			messages = append(messages, m)
		}
	}

	found := make(codeSet)
	counts := make([]int, len(frames))
	for _, m := range messages {
		codes := d.decodeMessage(m, sm)
		for _, r := range codes {
			found.add(r.Code)
		}
		res.Raw = append(res.Raw, codes...)
		counts[m.frame-1] += len(codes)
	}

	if d.onFrame != nil {
		for i, rec := range res.Frames {
			d.onFrame(rec, counts[i])
		}
	}

	res.DTCs = found.sorted()
	d.log.Info().Str("mode", mode).Strs("dtcs", res.DTCs).Msgf("found %d DTCs", len(res.DTCs))
	return res, nil
}

func (d *Decoder) decodeMessage(m *message, sm ServiceMode) []RawDTC {
	digits := m.hex.String()
	if len(digits)%2 == 1 {
		d.log.Debug().Int("frame", m.frame).Str("leftover", digits[len(digits)-1:]).Msg("dropping half byte")
		digits = digits[:len(digits)-1]
	}
	b, err := hex.DecodeString(digits)
	if err != nil || len(b) == 0 {
		return nil
	}
	if b[0] != sm.Response {
		d.log.Debug().Int("frame", m.frame).Str("message", digits).Msgf("not a %s response", sm.Name)
		return nil
	}
	body := b[1:]
	if len(body)%2 == 1 {
		// CAN responses carry the number of codes before the pairs
		d.log.Debug().Int("frame", m.frame).Int("count", int(body[0])).Msg("DTC count")
		body = body[1:]
	}

	var out []RawDTC
	for i := 0; i+1 < len(body); i += 2 {
		code, err := DecodeDTC(body[i], body[i+1])
		if err != nil {
			if !errors.Is(err, ErrSentinelCode) {
				d.log.Debug().Int("frame", m.frame).Err(err).Msg("skipping pair")
			}
			continue
		}
		out = append(out, RawDTC{Code: code, Bytes: [2]byte{body[i], body[i+1]}})
	}
	return out
}

func stripSpace(s string) string {
	return whitespace.ReplaceAllString(s, "")
}
