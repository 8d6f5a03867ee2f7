// Package loader runs one bulk table creation pass over a manifest.
package loader

import (
	"context"
	"io"
	"time"

	"github.com/pingcap/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"

	"bulkloader/pkg/bqtable"
	"bulkloader/pkg/config"
	"bulkloader/pkg/gcp"
	"bulkloader/pkg/manifest"
)

// Run authenticates, opens the manifest and materializes every row.
// Only fatal errors are returned; row failures are logged and counted.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	start := time.Now()

	creds, err := gcp.LoadCredentials(ctx, cfg.App.ServiceAccountJSONPath, &cfg.BigQuery)
	if err != nil {
		return errors.Trace(err)
	}

	rows, closer, err := openManifest(ctx, cfg, creds)
	if err != nil {
		return errors.Trace(err)
	}
	defer closer.Close()

	client, err := gcp.NewBigQueryClient(ctx, creds, &cfg.BigQuery)
	if err != nil {
		return errors.Trace(err)
	}
	defer client.Close()

	mode := cfg.App.Mode()
	logger.Info("bulk loader started",
		zap.String("project", creds.ProjectID),
		zap.String("manifest", cfg.App.ParameterFilePath),
		zap.Stringer("mode", mode))

	m := bqtable.NewMaterializer(bqtable.NewClient(client, &cfg.BigQuery), mode, logger)
	results, err := m.Run(ctx, rows)

	s := bqtable.Summarize(results)
	logger.Info("bulk loader finished",
		zap.Int("total", s.Total),
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed),
		zap.Duration("take", time.Since(start)))
	return errors.Trace(err)
}

func openManifest(ctx context.Context, cfg *config.Config, creds *google.Credentials) (*manifest.Reader, io.Closer, error) {
	path := cfg.App.ParameterFilePath
	blockSize := int(cfg.App.ManifestReadBlockSize)
	if !gcp.IsGCSURI(path) {
		f, err := manifest.Open(path, blockSize)
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
		return f.Reader, f, nil
	}

	rc, err := gcp.OpenObject(ctx, creds, path)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	r, err := manifest.NewReader(path, rc, blockSize)
	if err != nil {
		rc.Close()
		return nil, nil, errors.Trace(err)
	}
	return r, rc, nil
}
