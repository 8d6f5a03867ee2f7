package gcp

import (
	"context"

	"cloud.google.com/go/bigquery"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"bulkloader/pkg/config"
	berrors "bulkloader/pkg/errors"
)

// NewBigQueryClient creates the single client shared by every row of a run.
// Close() MUST be called once the run is over.
func NewBigQueryClient(ctx context.Context, creds *google.Credentials, cfg *config.BigQuery) (*bigquery.Client, error) {
	opts := []option.ClientOption{option.WithCredentials(creds)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	client, err := bigquery.NewClient(ctx, creds.ProjectID, opts...)
	if err != nil {
		return nil, berrors.ErrAuth.GenWithStackByArgs(creds.ProjectID, err.Error())
	}
	client.Location = cfg.Location
	return client, nil
}
