package core

import "github.com/tutormesh/tutormesh/logging"

// LoggerOrNoOp returns the provided logger, substituting a NoOpLogger when
// it is nil so components never need nil checks before logging.
func LoggerOrNoOp(l logging.Logger) logging.Logger {
	if l == nil {
		return logging.NoOpLogger{}
	}
	return l
}
