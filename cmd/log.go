package cmd

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// newLogger creates a logger writing to w, at debug level when --verbose is set
func newLogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if viper.GetBool("verbose") {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "gridmark",
	})
}
