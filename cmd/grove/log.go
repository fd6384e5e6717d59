package main

import (
	"go.uber.org/zap"
)

// logger returns a development logger when verbose, and a production logger
// that only reports warnings and errors otherwise.
func (rcc *rootCmdConfig) logger() (*zap.Logger, error) {
	if rcc.verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
