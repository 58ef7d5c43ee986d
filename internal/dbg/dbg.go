// Package dbg is the core's debug logger. It is swapped between a real and
// a no-op implementation at init time by the `debug` build tag, so bus
// faults, open-bus reads and exception entry can be traced without paying
// for it in a release build.
package dbg

// Logger is implemented by both the debug and no-op backends.
type Logger interface {
	Printf(format string, a ...interface{})
	Println(a ...interface{})
}

var logger Logger

func Printf(format string, a ...interface{}) {
	logger.Printf(format, a...)
}

func Println(a ...interface{}) {
	logger.Println(a...)
}
