package main

import (
	"context"
	"os"
	"time"

	"github.com/kombatant/nvidia-oc/internal/app"
	"github.com/kombatant/nvidia-oc/internal/launcher"
)

func main() {
	application := app.New(app.Options{
		Version:         Version,
		BuildTime:       BuildTime,
		GitCommit:       GitCommit,
		ShutdownTimeout: 5 * time.Second,
	})

	ctx, stop := application.Lifecycle().Context(context.Background())
	args := os.Args[1:]

	var code int
	switch {
	case launcher.IsChild():
		code = NewGUI(application, os.Stderr).Run(ctx, args)
	case launcher.GUIRequested(args):
		code = spawnGUI(ctx, args)
	default:
		code = NewCLI(application, os.Stderr).Run(ctx, args)
	}

	_ = application.Shutdown()
	stop()
	os.Exit(code)
}
