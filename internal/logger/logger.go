package logger

import (
	"go.uber.org/zap"
)

// New builds the process-wide zap logger. Production gets the JSON encoder,
// everything else gets the human-readable development encoder.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		conf := zap.NewProductionConfig()
		conf.DisableStacktrace = true
		return conf.Build(zap.AddCaller())
	}
	conf := zap.NewDevelopmentConfig()
	return conf.Build()
}
