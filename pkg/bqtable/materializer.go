// Package bqtable turns manifest rows into BigQuery tables, either by loading
// the data file into a native table or by defining an external table over it.
package bqtable

import (
	"context"
	"io"

	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"
	"github.com/pingcap/errors"
	"go.uber.org/zap"

	"bulkloader/pkg/config"
	"bulkloader/pkg/manifest"
)

// RowSource yields manifest rows until io.EOF.
type RowSource interface {
	Next() (*manifest.Row, error)
}

// Materializer applies one mode to every row of a manifest, one row at a time.
type Materializer struct {
	wh     Warehouse
	mode   config.Mode
	logger *zap.Logger
}

func NewMaterializer(wh Warehouse, mode config.Mode, logger *zap.Logger) *Materializer {
	return &Materializer{wh: wh, mode: mode, logger: logger}
}

// LoadTable loads rec's data file into a native table with schema
// auto-detection and blocks until the job is done.
func (m *Materializer) LoadTable(ctx context.Context, rec manifest.Record) (*LoadStats, error) {
	format, err := ResolveFormat(rec.FileFormat)
	if err != nil {
		return nil, err
	}
	project, dataset := rec.ProjectDataset()
	stats, err := m.wh.Load(ctx, LoadRequest{
		Project:   project,
		Dataset:   dataset,
		Table:     rec.Table,
		SourceURI: rec.DataFilePath,
		Format:    format,
	})
	return stats, errors.Trace(err)
}

// DefineExternalTable creates or replaces an external table over rec's data
// file. No data is copied.
func (m *Materializer) DefineExternalTable(ctx context.Context, rec manifest.Record) (string, error) {
	if _, err := ResolveFormat(rec.FileFormat); err != nil {
		return "", err
	}
	sql := ExternalTableDDL(rec.TableID(), rec.DataFilePath, FormatLabel(rec.FileFormat))
	jobID, err := m.wh.Exec(ctx, sql)
	return jobID, errors.Trace(err)
}

// Materialize processes a single row. Every failure ends up in the result.
func (m *Materializer) Materialize(ctx context.Context, row *manifest.Row) Result {
	res := Result{Line: row.Line, Row: row, Mode: m.mode}
	rec, err := row.Record()
	if err != nil {
		res.Err = err
		return res
	}
	res.TableID = rec.TableID()

	switch m.mode {
	case config.ModeLoad:
		stats, err := m.LoadTable(ctx, rec)
		if stats != nil {
			res.JobID = stats.JobID
			res.NumRows = stats.NumRows
			res.OutputBytes = stats.OutputBytes
		}
		res.Err = err
	default:
		res.JobID, res.Err = m.DefineExternalTable(ctx, rec)
	}
	return res
}

// Run materializes every row of rows in order. The returned error is only
// set when the manifest itself can no longer be read or ctx is done; row
// failures are reported in the results.
func (m *Materializer) Run(ctx context.Context, rows RowSource) ([]Result, error) {
	var results []Result
	for {
		if err := ctx.Err(); err != nil {
			return results, errors.Trace(err)
		}
		row, err := rows.Next()
		if err == io.EOF {
			return results, nil
		}
		if err != nil {
			return results, errors.Trace(err)
		}
		res := m.Materialize(ctx, row)
		m.report(&res)
		results = append(results, res)
	}
}

func (m *Materializer) report(res *Result) {
	if !res.OK() {
		m.logger.Error("failed to create/load table",
			zap.Int("line", res.Line),
			zap.Stringer("row", res.Row),
			zap.Error(res.Err))
		return
	}
	if res.Mode == config.ModeLoad {
		m.logger.Info("loaded table",
			zap.String("table", res.TableID),
			zap.String("job-id", res.JobID),
			zap.String("rows", humanize.Comma(int64(res.NumRows))),
			zap.String("size", units.HumanSize(float64(res.OutputBytes))))
		return
	}
	m.logger.Info("created external table",
		zap.String("table", res.TableID),
		zap.String("job-id", res.JobID))
}
