package manifest

import (
	"strconv"
	"strings"

	berrors "bulkloader/pkg/errors"
)

// Required manifest columns.
const (
	ColDatasetName  = "dataset_name"
	ColTableName    = "table_name"
	ColDataFilePath = "datafile_path"
	ColFileFormat   = "file_format"
)

// Row is one manifest line keyed by the header. Columns keep header order.
type Row struct {
	// Line is the 1-based line number of the row in the manifest.
	Line    int
	columns []string
	values  []string
}

// NewRow pairs values with columns. Missing trailing values leave their
// columns absent from the row; extra values are dropped.
func NewRow(line int, columns, values []string) *Row {
	n := len(columns)
	if len(values) < n {
		n = len(values)
	}
	return &Row{Line: line, columns: columns[:n], values: values[:n]}
}

// Get returns the value of col and whether the row has it.
func (r *Row) Get(col string) (string, bool) {
	for i, c := range r.columns {
		if c == col {
			return r.values[i], true
		}
	}
	return "", false
}

// String renders the raw row, e.g. {dataset_name: d1, table_name: t1}.
func (r *Row) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c)
		b.WriteString(": ")
		b.WriteString(strconv.Quote(r.values[i]))
	}
	b.WriteByte('}')
	return b.String()
}

// Record is a validated manifest row.
type Record struct {
	Dataset      string
	Table        string
	DataFilePath string
	FileFormat   string
}

// Record validates the required columns of r.
func (r *Row) Record() (Record, error) {
	var rec Record
	for _, f := range []struct {
		col string
		dst *string
	}{
		{ColDatasetName, &rec.Dataset},
		{ColTableName, &rec.Table},
		{ColDataFilePath, &rec.DataFilePath},
		{ColFileFormat, &rec.FileFormat},
	} {
		v, ok := r.Get(f.col)
		if !ok {
			return Record{}, berrors.ErrMissingField.GenWithStackByArgs(r.Line, f.col)
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return Record{}, berrors.ErrEmptyField.GenWithStackByArgs(r.Line, f.col)
		}
		*f.dst = v
	}
	return rec, nil
}

// TableID is the dataset-qualified table name, "dataset.table".
func (rec Record) TableID() string {
	return rec.Dataset + "." + rec.Table
}

// ProjectDataset splits a "project.dataset" dataset name. project is empty
// when the dataset name is unqualified.
func (rec Record) ProjectDataset() (project, dataset string) {
	if i := strings.LastIndexByte(rec.Dataset, '.'); i >= 0 {
		return rec.Dataset[:i], rec.Dataset[i+1:]
	}
	return "", rec.Dataset
}
