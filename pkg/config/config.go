package config

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"

	berrors "bulkloader/pkg/errors"
)

// Mode selects how every manifest row is materialized.
type Mode int

const (
	// ModeExternal defines an external table over the data file.
	ModeExternal Mode = iota
	// ModeLoad copies the data file into a native table.
	ModeLoad
)

func (m Mode) String() string {
	if m == ModeLoad {
		return "load"
	}
	return "external"
}

// Config defines all configurations of a bulk loading run.
type Config struct {
	App      BulkLoader `toml:"bulkloader" json:"bulkloader"`
	BigQuery BigQuery   `toml:"bigquery" json:"bigquery"`
	Log      Log        `toml:"log" json:"log"`

	ConfigFileContent []byte `toml:"-" json:"-"`
}

type BulkLoader struct {
	ServiceAccountJSONPath string   `toml:"service-account-json-path" json:"service-account-json-path"`
	ParameterFilePath      string   `toml:"parameter-file-path" json:"parameter-file-path"`
	LoadDataToBQ           string   `toml:"load-data-to-bq" json:"load-data-to-bq"`
	ManifestReadBlockSize  ByteSize `toml:"manifest-read-block-size" json:"manifest-read-block-size"`
}

// Mode resolves the run mode. Only "yes", in any letter case, selects load mode.
func (b *BulkLoader) Mode() Mode {
	if strings.EqualFold(strings.TrimSpace(b.LoadDataToBQ), "yes") {
		return ModeLoad
	}
	return ModeExternal
}

type BigQuery struct {
	// Project overrides the project found in the credentials file.
	Project          string `toml:"project" json:"project"`
	Location         string `toml:"location" json:"location"`
	Endpoint         string `toml:"endpoint" json:"endpoint"`
	JobIDPrefix      string `toml:"job-id-prefix" json:"job-id-prefix"`
	WriteDisposition string `toml:"write-disposition" json:"write-disposition"`
	// VerifyCredentials mints a token before the run starts so that a bad
	// key or a missing scope fails the run instead of every row.
	VerifyCredentials bool `toml:"verify-credentials" json:"verify-credentials"`
}

type Log struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
	File   string `toml:"file" json:"file"`
}

func NewConfig() *Config {
	return &Config{
		App: BulkLoader{
			LoadDataToBQ:          DefaultLoadDataToBQ,
			ManifestReadBlockSize: ReadBlockSize,
		},
		BigQuery: BigQuery{
			JobIDPrefix:       DefaultJobIDPrefix,
			WriteDisposition:  WriteAppend,
			VerifyCredentials: true,
		},
		Log: Log{
			Level:  DefaultLogLevel,
			Format: LogFormatConsole,
		},
	}
}

// Must should be called after LoadConfig(). If LoadConfig() returns
// any error, this function will exit the program with an appropriate exit code.
func Must(cfg *Config, err error) *Config {
	switch errors.Cause(err) {
	case nil:
	case flag.ErrHelp:
		os.Exit(0)
	default:
		fmt.Println(failureMessage(err))
		os.Exit(2)
	}
	return cfg
}

func failureMessage(err error) string {
	if berrors.ErrConfig.Equal(err) {
		return fmt.Sprint("Invalid configuration: ", err)
	}
	return fmt.Sprint("Failed to parse command flags: ", err)
}

// LoadConfig reads the arguments and fills in the Config.
func LoadConfig(args []string, extraFlags func(*flag.FlagSet)) (*Config, error) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("bulkloader", flag.ContinueOnError)

	// if both `-c` and `-config` are specified, the last one in the command line will take effect.
	var configFilePath string
	fs.StringVar(&configFilePath, "c", "", "(alias of -config)")
	fs.StringVar(&configFilePath, "config", "", "bulk loader configuration file")

	// zero values mean "not given on the command line" and leave the file values untouched
	var saPath, paramPath, loadToBQ string
	fs.StringVar(&saPath, "service_account_json_path", "", "full path of the service account file")
	fs.StringVar(&paramPath, "parameter_file_path", "", "full path (or gs:// URI) of the parameter file containing the details to create tables")
	fs.StringVar(&loadToBQ, "load_data_to_bq", "", "pass yes to load data into BigQuery, no to only create external tables (default \"no\")")

	if extraFlags != nil {
		extraFlags(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, errors.Trace(err)
	}
	if fs.NArg() > 0 {
		return nil, berrors.ErrConfig.GenWithStackByArgs(fmt.Sprintf("unexpected positional arguments %q", fs.Args()))
	}

	if len(configFilePath) > 0 {
		data, err := ioutil.ReadFile(configFilePath)
		if err != nil {
			return nil, errors.Annotatef(err, "Cannot read config file `%s`", configFilePath)
		}
		if err = cfg.LoadFromTOML(data); err != nil {
			return nil, errors.Annotatef(err, "Cannot parse config file `%s`", configFilePath)
		}
		cfg.ConfigFileContent = data
	}

	if saPath != "" {
		cfg.App.ServiceAccountJSONPath = saPath
	}
	if paramPath != "" {
		cfg.App.ParameterFilePath = paramPath
	}
	if loadToBQ != "" {
		cfg.App.LoadDataToBQ = loadToBQ
	}

	if err := cfg.Adjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromTOML decodes data into cfg, rejecting keys that match no option.
func (cfg *Config) LoadFromTOML(data []byte) error {
	metaData, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Trace(err)
	}
	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return berrors.ErrConfig.GenWithStackByArgs("unknown configuration options: " + strings.Join(keys, ", "))
	}
	return nil
}

// Adjust validates the required options and normalizes the rest.
func (cfg *Config) Adjust() error {
	switch {
	case cfg.App.ServiceAccountJSONPath == "":
		return berrors.ErrConfig.GenWithStackByArgs("--service_account_json_path is required")
	case cfg.App.ParameterFilePath == "":
		return berrors.ErrConfig.GenWithStackByArgs("--parameter_file_path is required")
	}
	if cfg.App.LoadDataToBQ == "" {
		cfg.App.LoadDataToBQ = DefaultLoadDataToBQ
	}
	if cfg.App.ManifestReadBlockSize <= 0 {
		cfg.App.ManifestReadBlockSize = ReadBlockSize
	}
	if cfg.App.ManifestReadBlockSize > MaxReadBlockSize {
		return berrors.ErrConfig.GenWithStackByArgs(fmt.Sprintf("manifest-read-block-size %s exceeds %s", cfg.App.ManifestReadBlockSize, MaxReadBlockSize))
	}

	cfg.BigQuery.WriteDisposition = strings.ToLower(strings.TrimSpace(cfg.BigQuery.WriteDisposition))
	switch cfg.BigQuery.WriteDisposition {
	case "":
		cfg.BigQuery.WriteDisposition = WriteAppend
	case WriteAppend, WriteTruncate, WriteEmpty:
	default:
		return berrors.ErrConfig.GenWithStackByArgs(fmt.Sprintf("unknown write-disposition %q", cfg.BigQuery.WriteDisposition))
	}

	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	switch cfg.Log.Format {
	case "":
		cfg.Log.Format = LogFormatConsole
	case LogFormatConsole, LogFormatJSON:
	default:
		return berrors.ErrConfig.GenWithStackByArgs(fmt.Sprintf("unknown log format %q", cfg.Log.Format))
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	return nil
}
