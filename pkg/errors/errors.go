package errors

import (
	"github.com/pingcap/errors"
)

// Fatal errors abort the whole run.
var (
	ErrConfig   = errors.Normalize("invalid configuration: %s", errors.RFCCodeText("BulkLoader:Config:ErrConfig"))
	ErrManifest = errors.Normalize("cannot read manifest '%s': %s", errors.RFCCodeText("BulkLoader:Manifest:ErrManifest"))
	ErrAuth     = errors.Normalize("cannot authenticate with '%s': %s", errors.RFCCodeText("BulkLoader:GCP:ErrAuth"))
)

// Row errors fail a single manifest row; the run continues.
var (
	ErrMissingField      = errors.Normalize("manifest row %d has no column '%s'", errors.RFCCodeText("BulkLoader:Manifest:ErrMissingField"))
	ErrEmptyField        = errors.Normalize("manifest row %d has an empty '%s'", errors.RFCCodeText("BulkLoader:Manifest:ErrEmptyField"))
	ErrUnsupportedFormat = errors.Normalize("unsupported file format '%s', expected one of parquet, orc, json, csv", errors.RFCCodeText("BulkLoader:BigQuery:ErrUnsupportedFormat"))
	ErrJob               = errors.Normalize("BigQuery job %s failed: %s", errors.RFCCodeText("BulkLoader:BigQuery:ErrJob"))
)
