package config

import (
	"encoding/json"

	"github.com/docker/go-units"
	"github.com/pingcap/errors"
)

// ByteSize is an alias of int64 which supports unmarshaling from human-readable sizes like "64KiB".
type ByteSize int64

// UnmarshalText implements encoding.TextUnmarshaler.
func (size *ByteSize) UnmarshalText(b []byte) error {
	res, err := units.RAMInBytes(string(b))
	if err != nil {
		return errors.Annotatef(err, "invalid byte size %q", b)
	}
	*size = ByteSize(res)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting both numbers and strings.
func (size *ByteSize) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*size = ByteSize(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Trace(err)
	}
	return size.UnmarshalText([]byte(s))
}

func (size ByteSize) String() string {
	return units.BytesSize(float64(size))
}
