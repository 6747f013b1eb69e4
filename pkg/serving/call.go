package serving

import (
	"context"
	"fmt"
)

// Output is the response envelope for every serving call. Handler failures
// are reported inside the envelope rather than as transport errors, so a
// client always receives the same shape back.
type Output struct {
	Result any    `json:"result"`
	Error  string `json:"error"`
	Stdout string `json:"stdout"`
}

// CallOptions tune a single serving invocation.
type CallOptions struct {
	// Envs are applied as process environment variables for the duration of
	// the call and restored afterwards.
	Envs map[string]string
	// CaptureStdout records what the handler writes to stdout into the
	// envelope. Capturing serializes calls module-wide.
	CaptureStdout bool
}

// Call invokes a serving function and wraps the outcome into an envelope.
// Panics inside the handler are recovered into the envelope error.
func Call(ctx context.Context, e *Entry, inputs map[string]any, opts CallOptions) Output {
	var (
		result any
		stdout string
	)
	err := withEnv(opts.Envs, func() error {
		run := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("handler panic: %v", r)
				}
			}()
			result, err = e.Handler(ctx, inputs)
			return err
		}
		if opts.CaptureStdout {
			var err error
			stdout, err = captureStdout(run)
			return err
		}
		return run()
	})
	out := Output{Result: result, Stdout: stdout}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

// CallStream invokes a serving function and forwards envelopes to send.
// Streaming entries produce one envelope per token; plain entries produce a
// single envelope. The returned bool reports whether the entry streamed, in
// which case the caller is expected to close the connection afterwards.
func CallStream(ctx context.Context, e *Entry, inputs map[string]any, opts CallOptions, send func(Output) error) (bool, error) {
	if e.Stream == nil {
		return false, send(Call(ctx, e, inputs, opts))
	}
	err := withEnv(opts.Envs, func() error {
		return e.Stream(ctx, inputs, func(token string) error {
			return send(Output{Result: token})
		})
	})
	if err != nil {
		return true, send(Output{Error: err.Error()})
	}
	return true, nil
}
