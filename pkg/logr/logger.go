// Package logr builds the zap logger threaded through the engine,
// rebuilding the teacher's pkg/logger (referenced from cmd/engine/main.go
// in the teacher repo but absent from it) in the same idiom: a single
// *zap.Logger constructed once at startup and passed explicitly into
// every constructor that needs to log.
package logr

import "go.uber.org/zap"

// New builds a production logger, or a development logger (human
// readable, debug level) when dev is true.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
