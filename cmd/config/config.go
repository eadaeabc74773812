// Package config decodes toml config files. Keys that match no field are rejected so a
// misspelled setting fails loudly instead of silently keeping its default.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ErrUnknownKeys is returned when the config has keys v has no field for
var ErrUnknownKeys = errors.New("unknown config keys")

// LoadFile decodes the toml file at path into v
func LoadFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	if err := LoadReader(file, v); err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}

// LoadString decodes toml data into v
func LoadString(data string, v interface{}) error {
	return LoadReader(strings.NewReader(data), v)
}

// LoadReader decodes toml from r into v
func LoadReader(r io.Reader, v interface{}) error {
	md, err := toml.NewDecoder(r).Decode(v)
	if err != nil {
		return errors.Wrap(err, "decode config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k.String())
		}
		return errors.Wrap(ErrUnknownKeys, strings.Join(names, ", "))
	}
	return nil
}
