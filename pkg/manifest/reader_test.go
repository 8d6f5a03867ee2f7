package manifest

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	berrors "bulkloader/pkg/errors"
)

func readAll(t *testing.T, r *Reader) []*Row {
	t.Helper()
	var rows []*Row
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestReaderRowsInFileOrder(t *testing.T) {
	in := "dataset_name,table_name,datafile_path,file_format\n" +
		"d1,t1,gs://b/f.parquet,parquet\n" +
		"\n" +
		"d2,t2,gs://b/g.csv,CSV\n"
	r, err := NewReader("tables.csv", strings.NewReader(in), 0)
	require.NoError(t, err)
	require.Equal(t, []string{ColDatasetName, ColTableName, ColDataFilePath, ColFileFormat}, r.Header())

	rows := readAll(t, r)
	require.Len(t, rows, 2)
	require.Equal(t, 2, rows[0].Line)
	require.Equal(t, 4, rows[1].Line)

	rec, err := rows[1].Record()
	require.NoError(t, err)
	require.Equal(t, Record{Dataset: "d2", Table: "t2", DataFilePath: "gs://b/g.csv", FileFormat: "CSV"}, rec)
	require.Equal(t, "d2.t2", rec.TableID())
}

func TestReaderStripsBOMAndTrimsHeader(t *testing.T) {
	in := "\ufeffdataset_name , table_name,datafile_path,file_format\nd1,t1,gs://b/f.orc,orc\n"
	r, err := NewReader("bom.csv", strings.NewReader(in), 16)
	require.NoError(t, err)

	rows := readAll(t, r)
	require.Len(t, rows, 1)
	v, ok := rows[0].Get(ColDatasetName)
	require.True(t, ok)
	require.Equal(t, "d1", v)
}

func TestReaderEmptyInput(t *testing.T) {
	_, err := NewReader("empty.csv", strings.NewReader(""), 0)
	require.Error(t, err)
	require.True(t, berrors.ErrManifest.Equal(err))
}

func TestReaderSyntaxErrorIsFatal(t *testing.T) {
	in := "dataset_name,table_name\nd1,\"t1\n"
	r, err := NewReader("broken.csv", strings.NewReader(in), 0)
	require.NoError(t, err)
	_, err = r.Next()
	require.Error(t, err)
	require.True(t, berrors.ErrManifest.Equal(err))
}

func TestReaderShortRowFailsLazily(t *testing.T) {
	in := "dataset_name,table_name,datafile_path,file_format\n" +
		"d1,t1\n" +
		"d2,t2,gs://b/g.json,json\n"
	r, err := NewReader("short.csv", strings.NewReader(in), 0)
	require.NoError(t, err)

	rows := readAll(t, r)
	require.Len(t, rows, 2)

	_, err = rows[0].Record()
	require.True(t, berrors.ErrMissingField.Equal(err))
	require.Contains(t, err.Error(), ColDataFilePath)

	_, err = rows[1].Record()
	require.NoError(t, err)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.csv")
	require.NoError(t, os.WriteFile(path, []byte("dataset_name,table_name,datafile_path,file_format\nd,t,gs://b/x,csv\n"), 0o644))

	f, err := Open(path, 0)
	require.NoError(t, err)
	defer f.Close()
	require.Len(t, readAll(t, f.Reader), 1)

	_, err = Open(filepath.Join(t.TempDir(), "missing.csv"), 0)
	require.True(t, berrors.ErrManifest.Equal(err))
}
