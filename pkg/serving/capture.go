package serving

import (
	"bytes"
	"io"
	"os"
	"sync"
)

// os.Stdout is process-global, so captured calls are serialized.
var stdoutMu sync.Mutex

// captureStdout runs fn with os.Stdout redirected into a buffer and returns
// what was written. fn's error is passed through.
func captureStdout(fn func() error) (string, error) {
	stdoutMu.Lock()
	defer stdoutMu.Unlock()

	r, w, err := os.Pipe()
	if err != nil {
		return "", fn()
	}
	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		defer close(done)
		_, _ = io.Copy(&buf, r)
	}()

	fnErr := fn()

	os.Stdout = orig
	w.Close()
	<-done
	r.Close()
	return buf.String(), fnErr
}
