//go:build !debug
// +build !debug

package dbg

type noopLogger struct{}

func init() {
	logger = noopLogger{}
}

func (noopLogger) Printf(format string, a ...interface{}) {}
func (noopLogger) Println(a ...interface{})               {}
