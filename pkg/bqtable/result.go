package bqtable

import (
	"bulkloader/pkg/config"
	"bulkloader/pkg/manifest"
)

// Result is the outcome of one manifest row.
type Result struct {
	Line    int
	Row     *manifest.Row
	TableID string
	Mode    config.Mode
	JobID   string

	// NumRows and OutputBytes are only set by load mode.
	NumRows     uint64
	OutputBytes int64

	Err error
}

func (r *Result) OK() bool {
	return r.Err == nil
}

// Summary counts the succeeded and failed rows of a run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for i := range results {
		if results[i].OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
