package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.uber.org/zap"
	"go.viam.com/test"
)

func TestNewLoggerLevels(t *testing.T) {
	logger := NewLogger("info")
	test.That(t, logger.Desugar().Core().Enabled(zap.InfoLevel), test.ShouldBeTrue)
	test.That(t, logger.Desugar().Core().Enabled(zap.DebugLevel), test.ShouldBeFalse)

	debug := NewDebugLogger("debug")
	test.That(t, debug.Desugar().Core().Enabled(zap.DebugLevel), test.ShouldBeTrue)

	blank := NewBlankLogger("blank")
	test.That(t, blank.Desugar().Core().Enabled(zap.ErrorLevel), test.ShouldBeFalse)
}

func TestNewLoggerConfig(t *testing.T) {
	cfg := NewLoggerConfig()
	test.That(t, cfg.Level.Level(), test.ShouldEqual, zap.InfoLevel)
	test.That(t, cfg.DisableStacktrace, test.ShouldBeTrue)
	test.That(t, cfg.Encoding, test.ShouldEqual, "console")
}

func TestReplaceGlobal(t *testing.T) {
	orig := Global()
	defer ReplaceGlobal(orig)

	logger := golog.NewTestLogger(t)
	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcindex.log")
	logger, closer := NewFileLogger("file", path, zap.InfoLevel)
	logger.Debugw("hidden", "k", 1)
	logger.Infow("built point index", "points", 12)
	test.That(t, closer.Close(), test.ShouldBeNil)

	//nolint:gosec
	contents, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, "INFO")
	test.That(t, string(contents), test.ShouldContainSubstring, "file\tbuilt point index")
	test.That(t, string(contents), test.ShouldContainSubstring, `{"points": 12}`)
	test.That(t, string(contents), test.ShouldNotContainSubstring, "hidden")
}
