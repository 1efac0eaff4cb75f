// Package boot supplies the startup banner and logger bootstrap the
// evaluator binary runs before wiring anything else.
package boot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
)

const banner = `
  ____                 _          _      _
 / ___|  __ _ _ __   __| |_      _(_) ___| |__
 \___ \ / _' | '_ \ / _' \ \ /\ / / |/ __| '_ \
  ___) | (_| | | | | (_| |\ V  V /| | (__| | | |
 |____/ \__,_|_| |_|\__,_| \_/\_/ |_|\___|_| |_|

 sandwich opportunity evaluator
`

// PrintBanner writes the startup banner to stderr.
func PrintBanner() {
	fmt.Fprintln(os.Stderr, banner)
}

// SetupLogger installs a leveled, terminal-formatted logger as
// go-ethereum's default logger.
func SetupLogger(levelName string) error {
	level, err := parseLevel(levelName)
	if err != nil {
		return err
	}
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, level, true)
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func parseLevel(name string) (slog.Level, error) {
	switch name {
	case "", "info":
		return log.LevelInfo, nil
	case "debug":
		return log.LevelDebug, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return 0, fmt.Errorf("boot: unknown log level %q", name)
	}
}
