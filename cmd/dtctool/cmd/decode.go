package cmd

import (
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/roffe/godtc"
	"github.com/roffe/godtc/pkg/bar"
	"github.com/roffe/godtc/pkg/frames"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	flagMode        = "mode"
	flagFormat      = "format"
	flagInput       = "input"
	flagVerbose     = "verbose"
	flagInteractive = "interactive"
	flagProgress    = "progress"
	flagProtocol    = "protocol"
)

const (
	protocolSequence = "sequence"
	protocolELM327   = "elm327"
)

func init() {
	f := decodeCmd.Flags()
	f.StringP(flagMode, "m", "", "service mode echoed in the result (03, 07, 0A)")
	f.StringP(flagFormat, "f", "", "output format text|json|cbor")
	f.StringP(flagInput, "i", "auto", "input format auto|json|cbor|text")
	f.BoolP(flagVerbose, "v", false, "print per frame debug records")
	f.BoolP(flagInteractive, "I", false, "pick the service mode from a list")
	f.Bool(flagProgress, false, "show decode progress")
	f.StringP(flagProtocol, "p", protocolSequence, "frame layout: sequence (\"<n>: <hex>\" lines) or elm327 (plain adapter responses)")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode [file...]",
	Short: "decode DTC's from captured response frames",
	Long: `Each file holds one response. JSON and CBOR files contain a list of
frames, each a list of byte values, text files contain one frame per line.
Without files, or with "-", stdin is read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f := cmd.Flags()

		if len(args) == 0 {
			args = []string{"-"}
		}

		inFormat, err := frames.ParseFormat(mustString(f, flagInput))
		if err != nil {
			return err
		}
		outName := cfg.Format
		if f.Changed(flagFormat) {
			outName = mustString(f, flagFormat)
		}
		outFormat, err := frames.ParseFormat(outName)
		if err != nil {
			return err
		}

		protocol := mustString(f, flagProtocol)
		if protocol != protocolSequence && protocol != protocolELM327 {
			return fmt.Errorf("unknown protocol %q", protocol)
		}

		mode := cfg.Mode
		fixedMode := f.Changed(flagMode)
		if fixedMode {
			mode = mustString(f, flagMode)
		} else if interactive, _ := f.GetBool(flagInteractive); interactive {
			if mode, err = selectMode(); err != nil {
				return err
			}
			fixedMode = true
		}

		batches := make([]*frames.Batch, len(args))
		var total int
		{
			errg, _ := errgroup.WithContext(ctx)
			for i, name := range args {
				i, name := i, name
				errg.Go(func() error {
					b, err := frames.LoadFile(name, inFormat)
					if err != nil {
						return err
					}
					batches[i] = b
					return nil
				})
			}
			if err := errg.Wait(); err != nil {
				return err
			}
		}
		for _, b := range batches {
			total += len(b.Frames)
		}

		var pb *progressbar.ProgressBar
		if progress, _ := f.GetBool(flagProgress); progress {
			pb = bar.New(total, "decoding frames")
			defer pb.Finish()
		}

		dec := godtc.New(
			godtc.OptLogger(logger),
			godtc.OptOnFrame(func(rec godtc.DebugRecord, codes int) {
				logger.Debug().Int("frame", rec.Index).Int("codes", codes).Msg("frame done")
				if pb != nil {
					pb.Add(1)
				}
			}),
		)

		results := make([]*godtc.Result, len(batches))
		errg, gctx := errgroup.WithContext(ctx)
		for i, b := range batches {
			i, b := i, b
			errg.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				m := batchMode(mode, fixedMode, b)
				if _, ok := godtc.LookupMode(m); !ok && protocol == protocolSequence {
					logger.Warn().Str("file", b.Name).Str("mode", m).Msg("not a DTC service mode")
				}
				res, err := decodeBatch(dec, protocol, b, m)
				if err != nil {
					return fmt.Errorf("%s: %w", b.Name, err)
				}
				results[i] = res
				return nil
			})
		}
		if err := errg.Wait(); err != nil {
			return err
		}
		if pb != nil {
			pb.Finish()
		}

		verbose, _ := f.GetBool(flagVerbose)
		return writeResults(cmd.OutOrStdout(), batches, results, frames.WriteOptions{
			Format:  outFormat,
			Verbose: verbose,
			Color:   cfg.Color,
		})
	},
}

// batchMode picks the mode for b: a mode given on the command line or
// chosen interactively wins over one carried in the input.
func batchMode(mode string, fixed bool, b *frames.Batch) string {
	if !fixed && b.Mode != "" {
		return b.Mode
	}
	return mode
}

func decodeBatch(dec *godtc.Decoder, protocol string, b *frames.Batch, mode string) (*godtc.Result, error) {
	if protocol == protocolELM327 {
		resp, err := dec.DecodeResponse(b.Frames, mode)
		if err != nil {
			return nil, err
		}
		return &resp.Result, nil
	}
	return dec.Decode(b.Frames, mode)
}

func writeResults(w io.Writer, batches []*frames.Batch, results []*godtc.Result, opts frames.WriteOptions) error {
	for i, res := range results {
		if len(results) > 1 && (opts.Format == frames.Text || opts.Format == frames.Auto) {
			if _, err := fmt.Fprintf(w, "== %s\n", batches[i].Name); err != nil {
				return err
			}
		}
		if err := frames.Write(w, res, opts); err != nil {
			return err
		}
	}
	return nil
}

func selectMode() (string, error) {
	modes := godtc.Modes()
	items := make([]string, len(modes))
	for i, m := range modes {
		items[i] = fmt.Sprintf("%s %s", m.Request, m.Description)
	}
	prompt := promptui.Select{
		Label: "Service mode",
		Items: items,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return modes[i].Request, nil
}
