package benchmark

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/perf/benchfmt"
)

// Export writes every applicable sample as a Go benchmark result so the
// measurements can be fed to benchstat. Results are named
// <binary>/size=<n>/procs=<p> and carry one iteration in sec/op.
func Export(w io.Writer, t *Timings) error {
	bw := benchfmt.NewWriter(w)
	for _, k := range t.Keys() {
		s, _ := t.Get(k)
		if s.NotApplicable {
			continue
		}
		res := &benchfmt.Result{
			Config: []benchfmt.Config{
				{Key: "harness", Value: []byte("scalebench"), File: true},
			},
			Name:   benchfmt.Name(fmt.Sprintf("%s/size=%d/procs=%d", exportName(k.Binary), k.Size, k.Processors)),
			Iters:  1,
			Values: []benchfmt.Value{{Value: s.Seconds, Unit: "sec/op"}},
		}
		if err := bw.Write(res); err != nil {
			return fmt.Errorf("export %s: %w", k, err)
		}
	}
	return nil
}

// exportName percent-encodes the bytes benchfmt treats as separators, and
// '%' itself, so distinct binaries keep distinct names.
func exportName(binary string) string {
	var b strings.Builder
	for i := 0; i < len(binary); i++ {
		switch c := binary[i]; {
		case c <= ' ', c == 0x7f, c == '%', c == '/', c == '-', c == '=':
			fmt.Fprintf(&b, "%%%02X", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
