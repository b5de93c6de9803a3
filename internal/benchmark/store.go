package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/moby/sys/atomicwriter"
	"github.com/samber/lo"
)

// dataset is the persisted layout: binary -> processors -> size -> repeats.
type dataset map[string]map[string]map[string][]Sample

// OutputTimeFormat names artifacts after the moment a session started.
const OutputTimeFormat = "2006-01-02-150405"

// OutputName returns the default name for an artifact of a session started at
// now. An explicit prefix replaces the timestamp.
func OutputName(now time.Time, prefix, name string) string {
	if prefix == "" {
		prefix = now.Format(OutputTimeFormat) + "-"
	}
	return prefix + name
}

// Encode writes the measurements of space to w. Every key of space must be
// present in t.
func Encode(w io.Writer, t *Timings, space Space) error {
	if err := t.Covers(space); err != nil {
		return err
	}

	data := make(dataset)
	for _, b := range lo.Uniq(space.Binaries) {
		byProc := make(map[string]map[string][]Sample)
		for _, p := range lo.Uniq(space.Processors) {
			bySize := make(map[string][]Sample)
			for _, n := range lo.Uniq(space.Sizes) {
				runs := make([]Sample, space.Repeats)
				for r := range space.Repeats {
					runs[r], _ = t.Get(Key{Binary: b, Size: n, Processors: p, Repeat: r})
				}
				bySize[strconv.Itoa(n)] = runs
			}
			byProc[strconv.Itoa(p)] = bySize
		}
		data[b] = byProc
	}
	return json.NewEncoder(w).Encode(data)
}

// Decode reads a dataset written by Encode.
func Decode(r io.Reader) (*Timings, error) {
	var data dataset
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	t := NewTimings()
	for binary, byProc := range data {
		for procText, bySize := range byProc {
			procs, err := strconv.Atoi(procText)
			if err != nil || procs < AcceleratorProcessors {
				return nil, fmt.Errorf("binary %s: invalid processor count %q", binary, procText)
			}
			for sizeText, runs := range bySize {
				size, err := strconv.Atoi(sizeText)
				if err != nil || size < 0 {
					return nil, fmt.Errorf("binary %s: invalid size %q", binary, sizeText)
				}
				for repeat, s := range runs {
					k := Key{Binary: binary, Size: size, Processors: procs, Repeat: repeat}
					if err := t.Record(k, s); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return t, nil
}

// Save writes the measurements of space to path. Nothing is written if a key
// is missing.
func Save(path string, t *Timings, space Space) error {
	var buf bytes.Buffer
	if err := Encode(&buf, t, space); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := atomicwriter.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load reads a dataset file.
func Load(path string) (*Timings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}
