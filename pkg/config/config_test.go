package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"

	berrors "bulkloader/pkg/errors"
)

var requiredArgs = []string{
	"--service_account_json_path", "/secrets/sa.json",
	"--parameter_file_path", "tables.csv",
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(requiredArgs, nil)
	require.NoError(t, err)
	require.Equal(t, "/secrets/sa.json", cfg.App.ServiceAccountJSONPath)
	require.Equal(t, "tables.csv", cfg.App.ParameterFilePath)
	require.Equal(t, "no", cfg.App.LoadDataToBQ)
	require.Equal(t, ModeExternal, cfg.App.Mode())
	require.Equal(t, ReadBlockSize, cfg.App.ManifestReadBlockSize)
	require.Equal(t, WriteAppend, cfg.BigQuery.WriteDisposition)
	require.Equal(t, DefaultJobIDPrefix, cfg.BigQuery.JobIDPrefix)
	require.True(t, cfg.BigQuery.VerifyCredentials)
}

func TestLoadConfigMode(t *testing.T) {
	for value, want := range map[string]Mode{
		"yes":  ModeLoad,
		"YES":  ModeLoad,
		"Yes":  ModeLoad,
		"no":   ModeExternal,
		"true": ModeExternal,
		"y":    ModeExternal,
	} {
		cfg, err := LoadConfig(append(requiredArgs, "-load_data_to_bq", value), nil)
		require.NoError(t, err, value)
		require.Equal(t, want, cfg.App.Mode(), value)
	}
}

func TestLoadConfigRequiredFlags(t *testing.T) {
	_, err := LoadConfig([]string{"--parameter_file_path", "tables.csv"}, nil)
	require.True(t, berrors.ErrConfig.Equal(err))
	require.Contains(t, err.Error(), "service_account_json_path")

	_, err = LoadConfig([]string{"--service_account_json_path", "sa.json"}, nil)
	require.True(t, berrors.ErrConfig.Equal(err))
	require.Contains(t, err.Error(), "parameter_file_path")
}

func TestLoadConfigHelp(t *testing.T) {
	_, err := LoadConfig([]string{"-h"}, nil)
	require.Equal(t, flag.ErrHelp, errors.Cause(err))
}

func TestLoadConfigFileAndFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulkloader.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[bulkloader]
service-account-json-path = "/from/file.json"
parameter-file-path = "gs://manifests/tables.csv"
load-data-to-bq = "yes"
manifest-read-block-size = "1MiB"

[bigquery]
project = "analytics-dev"
location = "EU"
write-disposition = "Truncate"
verify-credentials = false

[log]
level = "debug"
format = "json"
`), 0o644))

	cfg, err := LoadConfig([]string{"-config", path, "--load_data_to_bq", "no"}, nil)
	require.NoError(t, err)
	require.Equal(t, "/from/file.json", cfg.App.ServiceAccountJSONPath)
	require.Equal(t, "gs://manifests/tables.csv", cfg.App.ParameterFilePath)
	require.Equal(t, ModeExternal, cfg.App.Mode())
	require.Equal(t, ByteSize(1<<20), cfg.App.ManifestReadBlockSize)
	require.Equal(t, "analytics-dev", cfg.BigQuery.Project)
	require.Equal(t, "EU", cfg.BigQuery.Location)
	require.Equal(t, WriteTruncate, cfg.BigQuery.WriteDisposition)
	require.False(t, cfg.BigQuery.VerifyCredentials)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, LogFormatJSON, cfg.Log.Format)
	require.NotEmpty(t, cfg.ConfigFileContent)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	cfg := NewConfig()
	err := cfg.LoadFromTOML([]byte("[bigquery]\nregion = \"EU\"\n"))
	require.True(t, berrors.ErrConfig.Equal(err))
	require.Contains(t, err.Error(), "bigquery.region")
}

func TestAdjustRejectsBadValues(t *testing.T) {
	cfg := NewConfig()
	cfg.App.ServiceAccountJSONPath = "sa.json"
	cfg.App.ParameterFilePath = "tables.csv"
	cfg.BigQuery.WriteDisposition = "overwrite"
	require.True(t, berrors.ErrConfig.Equal(cfg.Adjust()))

	cfg.BigQuery.WriteDisposition = "EMPTY"
	cfg.Log.Format = "xml"
	require.True(t, berrors.ErrConfig.Equal(cfg.Adjust()))

	cfg.Log.Format = ""
	require.NoError(t, cfg.Adjust())
	require.Equal(t, WriteEmpty, cfg.BigQuery.WriteDisposition)
	require.Equal(t, LogFormatConsole, cfg.Log.Format)
}

func TestByteSize(t *testing.T) {
	var size ByteSize
	require.NoError(t, size.UnmarshalText([]byte("64KiB")))
	require.Equal(t, ReadBlockSize, size)
	require.Equal(t, "64KiB", size.String())

	require.NoError(t, size.UnmarshalJSON([]byte(`4096`)))
	require.Equal(t, ByteSize(4096), size)
	require.NoError(t, size.UnmarshalJSON([]byte(`"2MiB"`)))
	require.Equal(t, ByteSize(2<<20), size)

	require.Error(t, size.UnmarshalText([]byte("lots")))
}

func TestAdjustCapsManifestReadBlockSize(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromTOML([]byte(`
[bulkloader]
service-account-json-path = "sa.json"
parameter-file-path = "tables.csv"
manifest-read-block-size = "10GiB"
`)))
	err := cfg.Adjust()
	require.True(t, berrors.ErrConfig.Equal(err))
	require.Contains(t, err.Error(), "manifest-read-block-size")

	cfg.App.ManifestReadBlockSize = MaxReadBlockSize
	require.NoError(t, cfg.Adjust())
}

func TestFailureMessage(t *testing.T) {
	_, err := LoadConfig([]string{"--parameter_file_path", "tables.csv"}, nil)
	require.Error(t, err)
	require.Contains(t, failureMessage(err), "Invalid configuration: ")

	_, err = LoadConfig(append(requiredArgs, "--no_such_flag"), nil)
	require.Error(t, err)
	require.NotEqual(t, flag.ErrHelp, errors.Cause(err))
	require.Contains(t, failureMessage(err), "Failed to parse command flags: ")
}
