package bqtable

import (
	"context"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/pingcap/errors"

	"bulkloader/pkg/config"
	berrors "bulkloader/pkg/errors"
)

// LoadRequest describes one load job.
type LoadRequest struct {
	// Project is empty for the client's own project.
	Project   string
	Dataset   string
	Table     string
	SourceURI string
	Format    bigquery.DataFormat
}

// LoadStats is what a finished load job reports.
type LoadStats struct {
	JobID       string
	NumRows     uint64
	OutputBytes int64
}

// Warehouse is the subset of BigQuery the materializer drives.
type Warehouse interface {
	// Load runs a load job to completion and returns the destination table's
	// row count.
	Load(ctx context.Context, req LoadRequest) (*LoadStats, error)
	// Exec runs a statement to completion and returns its job id.
	Exec(ctx context.Context, sql string) (string, error)
}

// Client implements Warehouse on top of a BigQuery client.
type Client struct {
	bq  *bigquery.Client
	cfg config.BigQuery
}

func NewClient(bq *bigquery.Client, cfg *config.BigQuery) *Client {
	return &Client{bq: bq, cfg: *cfg}
}

func (c *Client) newJobID() string {
	return c.cfg.JobIDPrefix + uuid.New().String()
}

func (c *Client) table(req LoadRequest) *bigquery.Table {
	if req.Project != "" {
		return c.bq.DatasetInProject(req.Project, req.Dataset).Table(req.Table)
	}
	return c.bq.Dataset(req.Dataset).Table(req.Table)
}

func writeDisposition(s string) bigquery.TableWriteDisposition {
	switch s {
	case config.WriteTruncate:
		return bigquery.WriteTruncate
	case config.WriteEmpty:
		return bigquery.WriteEmpty
	default:
		return bigquery.WriteAppend
	}
}

func (c *Client) newLoader(req LoadRequest) *bigquery.Loader {
	gcs := bigquery.NewGCSReference(req.SourceURI)
	gcs.SourceFormat = req.Format
	gcs.AutoDetect = true

	loader := c.table(req).LoaderFrom(gcs)
	loader.JobID = c.newJobID()
	loader.Location = c.cfg.Location
	loader.CreateDisposition = bigquery.CreateIfNeeded
	loader.WriteDisposition = writeDisposition(c.cfg.WriteDisposition)
	return loader
}

func (c *Client) Load(ctx context.Context, req LoadRequest) (*LoadStats, error) {
	loader := c.newLoader(req)
	job, err := loader.Run(ctx)
	if err != nil {
		return nil, errors.Annotatef(err, "submit load job %s", loader.JobID)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, errors.Annotatef(err, "wait for load job %s", job.ID())
	}
	if err := status.Err(); err != nil {
		return nil, berrors.ErrJob.GenWithStackByArgs(job.ID(), err.Error())
	}

	stats := &LoadStats{JobID: job.ID()}
	if status.Statistics != nil {
		if ls, ok := status.Statistics.Details.(*bigquery.LoadStatistics); ok {
			stats.OutputBytes = ls.OutputBytes
		}
	}
	md, err := c.table(req).Metadata(ctx)
	if err != nil {
		return stats, errors.Annotatef(err, "get metadata of %s.%s", req.Dataset, req.Table)
	}
	stats.NumRows = md.NumRows
	return stats, nil
}

func (c *Client) newQuery(sql string) *bigquery.Query {
	q := c.bq.Query(sql)
	q.JobID = c.newJobID()
	q.Location = c.cfg.Location
	return q
}

func (c *Client) Exec(ctx context.Context, sql string) (string, error) {
	q := c.newQuery(sql)
	job, err := q.Run(ctx)
	if err != nil {
		return "", errors.Annotatef(err, "submit query job %s", q.JobID)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return job.ID(), errors.Annotatef(err, "wait for query job %s", job.ID())
	}
	if err := status.Err(); err != nil {
		return job.ID(), berrors.ErrJob.GenWithStackByArgs(job.ID(), err.Error())
	}
	return job.ID(), nil
}
