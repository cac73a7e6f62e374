package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/roffe/godtc/pkg/frames"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--no-color"))
	defer func() {
		// flag values stick to the package level commands between runs
		f := decodeCmd.Flags()
		f.Set(flagMode, "")
		f.Set(flagFormat, "")
		f.Set(flagVerbose, "false")
		f.Set(flagProtocol, protocolSequence)
		for _, name := range []string{flagMode, flagFormat, flagVerbose, flagProtocol} {
			f.Lookup(name).Changed = false
		}
	}()
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeCommand(t *testing.T) {
	text := writeFile(t, "capture.txt", "1: 43 01 01 43\r\n>")
	list := writeFile(t, "capture.json", `[[50,58,32,56,49,32,50,51],[13,62]]`)

	out, err := run(t, "decode", "-f", "json", "-m", "07", text, list)
	if err != nil {
		t.Fatalf("decode error = %v\n%s", err, out)
	}

	dec := json.NewDecoder(strings.NewReader(out))
	var got []struct {
		DTCs []string `json:"dtcs"`
		Mode string   `json:"mode"`
	}
	for dec.More() {
		var r struct {
			DTCs []string `json:"dtcs"`
			Mode string   `json:"mode"`
		}
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("invalid json output: %v\n%s", err, out)
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2:\n%s", len(got), out)
	}
	if !reflect.DeepEqual(got[0].DTCs, []string{"C0301", "P0143"}) || got[0].Mode != "07" {
		t.Errorf("first result = %+v", got[0])
	}
	if !reflect.DeepEqual(got[1].DTCs, []string{"B0123"}) || got[1].Mode != "07" {
		t.Errorf("second result = %+v", got[1])
	}
}

func TestDecodeCommandText(t *testing.T) {
	path := writeFile(t, "capture.txt", "no sequence\n1: E1 03\n")
	out, err := run(t, "decode", "-v", path)
	if err != nil {
		t.Fatalf("decode error = %v\n%s", err, out)
	}
	for _, want := range []string{"mode 03 (Current DTCs): 1 DTC(s)", "U2103", "Network", "#1", "#2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDecodeCommandMissingFile(t *testing.T) {
	if _, err := run(t, "decode", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("decode of missing file, want error")
	}
}

func TestCodeCommand(t *testing.T) {
	tests := []struct {
		arg  string
		want string
		err  bool
	}{
		{"P0301", "P0301  03 01  00000011 00000001  Powertrain", false},
		{"4301", "C0301  43 01  01000011 00000001  Chassis", false},
		{"0xE103", "U2103  E1 03  11100001 00000011  Network", false},
		{"P0000", "", true},
		{"zz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			out, err := run(t, "code", tt.arg)
			if (err != nil) != tt.err {
				t.Fatalf("code %s error = %v, wantErr %v", tt.arg, err, tt.err)
			}
			if !tt.err && strings.TrimSpace(out) != tt.want {
				t.Errorf("code %s = %q, want %q", tt.arg, out, tt.want)
			}
		})
	}
}

func TestStatusCommand(t *testing.T) {
	out, err := run(t, "status", "0x83")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"MIL:             on", "DTC count:       3", "Confirmed error: off"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := run(t, "status", "1FF"); err == nil {
		t.Error("status 1FF, want error")
	}
}

func TestModesCommand(t *testing.T) {
	out, err := run(t, "modes")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"03  0x43  CURRENT", "07  0x47  PENDING", "0A  0x4A  PERMANENT"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDecodeCommandELM327(t *testing.T) {
	path := writeFile(t, "capture.json", `{"mode":"07","frames":[[52,55,48,50,48,50,57,57,48,53,57,70,13],[13,62]]}`)
	out, err := run(t, "decode", "-p", "elm327", "-f", "json", path)
	if err != nil {
		t.Fatalf("decode error = %v\n%s", err, out)
	}
	var got struct {
		DTCs []string `json:"dtcs"`
		Mode string   `json:"mode"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, out)
	}
	if !reflect.DeepEqual(got.DTCs, []string{"P0299", "P059F"}) || got.Mode != "07" {
		t.Errorf("result = %+v", got)
	}

	if _, err := run(t, "decode", "-p", "elm327", "-m", "01", path); err == nil {
		t.Error("elm327 decode with mode 01, want error")
	}
	if _, err := run(t, "decode", "-p", "canbus", path); err == nil {
		t.Error("decode with unknown protocol, want error")
	}
}

func TestBatchMode(t *testing.T) {
	withMode := &frames.Batch{Mode: "0A"}
	without := &frames.Batch{}
	tests := []struct {
		name  string
		mode  string
		fixed bool
		batch *frames.Batch
		want  string
	}{
		{"input mode beats config", "03", false, withMode, "0A"},
		{"flag or prompt beats input", "07", true, withMode, "07"},
		{"config when input has none", "03", false, without, "03"},
		{"fixed when input has none", "07", true, without, "07"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := batchMode(tt.mode, tt.fixed, tt.batch); got != tt.want {
				t.Errorf("batchMode() = %q, want %q", got, tt.want)
			}
		})
	}
}
