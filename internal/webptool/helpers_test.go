package webptool

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// encodeCall records one Encoder invocation.
type encodeCall struct {
	input  string
	output string
	args   []Arg
}

// fakeEncoder scripts encode outcomes without running a codec. respond gets
// the zero-based call number and decides the outcome: returned bytes are
// written to the output path, a returned error fails the call.
type fakeEncoder struct {
	calls   []encodeCall
	respond func(call int, args []Arg) ([]byte, error)
}

func (f *fakeEncoder) Encode(ctx context.Context, input, output string, args []Arg) error {
	n := len(f.calls)
	f.calls = append(f.calls, encodeCall{input: input, output: output, args: args})
	payload, err := f.respond(n, args)
	if err != nil {
		return err
	}
	return os.WriteFile(output, payload, 0o644)
}

// fakeProber returns fixed dimensions.
type fakeProber struct {
	width  int
	height int
	err    error
}

func (p fakeProber) Dimensions(path string) (int, int, error) {
	return p.width, p.height, p.err
}

// writeTestFile creates a file of n bytes and returns its path.
func writeTestFile(t *testing.T, dir, name string, n int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, n), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

// argValue returns the first value of flag within args, or "" when absent.
func argValue(args []Arg, flag string) string {
	for _, a := range args {
		if a.Flag == flag && len(a.Values) > 0 {
			return a.Values[0]
		}
	}
	return ""
}

// hasFlag reports whether flag appears in args.
func hasFlag(args []Arg, flag string) bool {
	for _, a := range args {
		if a.Flag == flag {
			return true
		}
	}
	return false
}

// argInt returns the first value of flag as an int, or -1 when absent.
func argInt(t *testing.T, args []Arg, flag string) int {
	t.Helper()
	v := argValue(args, flag)
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		t.Fatalf("Flag %s has non-numeric value %q", flag, v)
	}
	return n
}

// assertNoLeftovers fails when temp or scratch files survived an operation.
func assertNoLeftovers(t *testing.T, path string) {
	t.Helper()
	for _, suffix := range []string{".tmp", ".test", ".best"} {
		if _, err := os.Stat(path + suffix); err == nil {
			t.Errorf("Leftover file %s%s was not cleaned up", path, suffix)
		}
	}
}
