package bqtable

import (
	"strings"

	"cloud.google.com/go/bigquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	berrors "bulkloader/pkg/errors"
)

var sourceFormats = map[string]bigquery.DataFormat{
	"parquet": bigquery.Parquet,
	"orc":     bigquery.ORC,
	"json":    bigquery.JSON,
	"csv":     bigquery.CSV,
}

// ResolveFormat maps a manifest file_format, in any letter case, to a load
// job source format.
func ResolveFormat(fileFormat string) (bigquery.DataFormat, error) {
	f, ok := sourceFormats[strings.ToLower(strings.TrimSpace(fileFormat))]
	if !ok {
		return "", berrors.ErrUnsupportedFormat.GenWithStackByArgs(fileFormat)
	}
	return f, nil
}

// FormatLabel is the format name used in external table DDL, e.g. "Parquet".
func FormatLabel(fileFormat string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(fileFormat))
}
