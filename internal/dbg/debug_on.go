//go:build debug
// +build debug

package dbg

import (
	"fmt"
	"log"
	"os"
)

type realLogger struct {
	l *log.Logger
}

func init() {
	logger = &realLogger{l: log.New(os.Stderr, "gbacore: ", log.Lshortfile)}
}

func (r *realLogger) Printf(format string, a ...interface{}) {
	r.l.Output(3, fmt.Sprintf(format, a...))
}

func (r *realLogger) Println(a ...interface{}) {
	r.l.Output(3, fmt.Sprintln(a...))
}
