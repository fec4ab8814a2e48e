package bollywood

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug": zap.DebugLevel,
	"info":  zap.InfoLevel,
	"warn":  zap.WarnLevel,
	"error": zap.ErrorLevel,
}

// newLogger builds the zap.Logger an Engine attaches to every Context it
// creates. console encoding with color levels in development, JSON in
// production, matching the two presets most of this codebase's deployments
// choose between.
func newLogger(cfg EngineConfig) (*zap.Logger, error) {
	level, ok := logLevels[cfg.LogLevel]
	if !ok {
		level = zap.InfoLevel
	}

	var zc zap.Config
	if cfg.LogEncoding == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named("bollywood"), nil
}
