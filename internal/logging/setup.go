package logging

import (
	"io"
	"os"
)

// SetupOptions describes where a run should log.
type SetupOptions struct {
	Level   Level
	File    string
	NoColor bool
	Quiet   bool
	// Interactive suppresses the console sink so the UI owns the terminal.
	Interactive bool
	// Console overrides the console writer (stderr by default).
	Console io.Writer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Setup builds the process logger. The console sink is skipped for
// quiet and interactive runs, and a file sink is added when File is set.
// The returned closer must be called on exit.
func Setup(opts SetupOptions) (Logger, io.Closer, error) {
	var sinks []Logger
	closer := io.Closer(closerFunc(func() error { return nil }))

	if !opts.Quiet && !opts.Interactive {
		console := DefaultOptions()
		console.Level = opts.Level
		console.NoColor = opts.NoColor
		if opts.Console != nil {
			console.Output = opts.Console
		} else {
			console.Output = os.Stderr
		}
		sinks = append(sinks, New(console))
	}

	if opts.File != "" {
		fl, c, err := NewFileLogger(opts.File, opts.Level)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, fl)
		closer = c
	}

	switch len(sinks) {
	case 0:
		return NewNop(), closer, nil
	case 1:
		return sinks[0], closer, nil
	default:
		return NewMultiLogger(sinks...), closer, nil
	}
}
