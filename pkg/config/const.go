package config

import "github.com/docker/go-units"

const (
	// manifest
	ReadBlockSize    ByteSize = 64 * units.KiB
	MaxReadBlockSize ByteSize = 16 * units.MiB

	DefaultLoadDataToBQ = "no"

	// bigquery
	DefaultJobIDPrefix = "bulkloader_"

	WriteAppend   = "append"
	WriteTruncate = "truncate"
	WriteEmpty    = "empty"

	// log
	DefaultLogLevel  = "info"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)
