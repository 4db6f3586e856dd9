package config

import (
	"bytes"
	"io"

	"github.com/a8m/envsubst"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"go.viam.com/pointindex/logging"
)

// Read reads a config from the given file, expanding environment variables first. Settings the
// file leaves out keep their defaults.
func Read(filePath string, logger golog.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from. The content is JSON5, so comments
// and trailing commas are accepted.
func FromReader(originalPath string, r io.Reader, logger golog.Logger) (*Config, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("config")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %q", originalPath)
	}
	cfg := Default()
	if err = json5.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	cfg.ConfigFilePath = originalPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debugw("read config", "path", originalPath, "points", cfg.Cloud.Points, "sample", cfg.Sample.Count)
	return cfg, nil
}
