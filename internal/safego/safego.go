// Package safego starts goroutines that leave a trace in the log file before
// a panic takes the process down. The terminal UI owns stdout, so a bare
// panic message would otherwise be lost when the screen is torn down.
package safego

import (
	"log"
	"runtime/debug"
	"sync"
)

// GoWithWaitGroup runs fn in a new goroutine tracked by wg. A panic is logged
// with its stack and then re-raised.
func GoWithWaitGroup(wg *sync.WaitGroup, logger *log.Logger, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer recoverAndLog(logger)
		fn()
	}()
}

func recoverAndLog(logger *log.Logger) {
	if r := recover(); r != nil {
		logger.Printf("PANIC: %v\n%s", r, debug.Stack())
		panic(r)
	}
}
