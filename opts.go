package godtc

import "github.com/rs/zerolog"

type Opt func(d *Decoder)

// OptLogger sets the logger used for per frame and per quad diagnostics.
func OptLogger(l zerolog.Logger) Opt {
	return func(d *Decoder) {
		d.log = l
	}
}

// OptOnFrame registers fn to be called after each frame with its debug
// record and the number of codes it yielded, duplicates included.
func OptOnFrame(fn func(rec DebugRecord, codes int)) Opt {
	return func(d *Decoder) {
		d.onFrame = fn
	}
}
