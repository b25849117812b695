package reconcile

import (
	"time"

	"go.uber.org/zap"
)

// Config holds sync run settings.
type Config struct {
	// BatchSize caps tasks per insert transaction and per drain load.
	BatchSize int `mapstructure:"batch_size" default:"100"`
	// Workers bounds concurrent provider work during a drain.
	Workers int `mapstructure:"workers" default:"4"`
	// TaskTimeoutSeconds bounds the provider work of one task. Zero disables it.
	TaskTimeoutSeconds int `mapstructure:"task_timeout_seconds" default:"60"`
	// RunTimeoutSeconds bounds a whole sync run. Zero disables it.
	RunTimeoutSeconds int `mapstructure:"run_timeout_seconds" default:"600"`
}

// Spec builds a run spec for adapter from the configured knobs.
func (c Config) Spec(adapter Adapter, logger *zap.Logger) *Spec {
	return &Spec{
		Adapter:     adapter,
		BatchSize:   c.BatchSize,
		Workers:     c.Workers,
		TaskTimeout: time.Duration(c.TaskTimeoutSeconds) * time.Second,
		RunTimeout:  time.Duration(c.RunTimeoutSeconds) * time.Second,
		Logger:      logger,
	}
}
