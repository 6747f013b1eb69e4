package serving

import (
	"os"
	"sync"
)

// The process environment is shared state, so requests that carry envs are
// serialized against each other.
var envMu sync.Mutex

// withEnv applies envs, runs fn, and restores the previous values.
func withEnv(envs map[string]string, fn func() error) error {
	if len(envs) == 0 {
		return fn()
	}
	envMu.Lock()
	defer envMu.Unlock()

	prev := make(map[string]*string, len(envs))
	for k, v := range envs {
		if old, ok := os.LookupEnv(k); ok {
			s := old
			prev[k] = &s
		} else {
			prev[k] = nil
		}
		os.Setenv(k, v)
	}
	defer func() {
		for k, old := range prev {
			if old == nil {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, *old)
			}
		}
	}()
	return fn()
}
