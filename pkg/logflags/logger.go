package logflags

// Logger represents a generic logger used by the rest of the program.
// It is satisfied by *zap.SugaredLogger, which is what the
// constructors in this package hand out.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
