package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/simp-lee/logger"
)

// SetupLogger builds the process logger from cfg and makes it the slog
// default, so packages that log through slog.Default share its sinks. Close
// the returned logger on shutdown to flush the file sink.
func SetupLogger(cfg *LogConfig) (*logger.Logger, error) {
	if cfg == nil {
		return nil, errors.New("log config is nil")
	}
	log, err := logger.New(BuildLoggerOpts(cfg)...)
	if err != nil {
		return nil, err
	}
	log.SetDefault()
	return log, nil
}

// BuildLoggerOpts maps cfg onto logger options. Every logger carries the
// context middleware so request_id and user_id follow a request into the
// service and repository lines. A nil cfg yields nil.
func BuildLoggerOpts(cfg *LogConfig) []logger.Option {
	if cfg == nil {
		return nil
	}
	format := parseFormat(cfg.Format)
	opts := []logger.Option{
		logger.WithLevel(parseLevel(cfg.Level)),
		logger.WithMiddleware(logger.ContextMiddleware()),
		logger.WithConsoleFormat(format),
		logger.WithConsoleColor(cfg.Color == nil || *cfg.Color),
	}
	if cfg.FilePath == "" {
		return opts
	}

	opts = append(opts, logger.WithFilePath(cfg.FilePath), logger.WithFileFormat(format))
	for _, rot := range []struct {
		set bool
		opt func() logger.Option
	}{
		{cfg.MaxSizeMB > 0, func() logger.Option { return logger.WithMaxSizeMB(cfg.MaxSizeMB) }},
		{cfg.RetentionDays > 0, func() logger.Option { return logger.WithRetentionDays(cfg.RetentionDays) }},
		{cfg.MaxBackups > 0, func() logger.Option { return logger.WithMaxBackups(cfg.MaxBackups) }},
		{cfg.CompressRotated != nil, func() logger.Option { return logger.WithCompressRotated(*cfg.CompressRotated) }},
	} {
		if rot.set {
			opts = append(opts, rot.opt())
		}
	}
	return opts
}

// parseFormat falls back to the colourised custom layout for anything
// other than text or json.
func parseFormat(s string) logger.OutputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return logger.FormatText
	case "json":
		return logger.FormatJSON
	}
	return logger.FormatCustom
}

var slogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func parseLevel(s string) slog.Level {
	if l, ok := slogLevels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l
	}
	return slog.LevelInfo
}
