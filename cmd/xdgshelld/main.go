// Command xdgshelld runs a standalone shell daemon. It listens on a
// Unix socket in the runtime directory and speaks the line-delimited
// JSON protocol from deedles.dev/xdg/wire, applying a minimal
// window-management policy on top of the shell state machines.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"deedles.dev/xdg"
	"deedles.dev/xdg/internal/config"
	"deedles.dev/xdg/internal/sutureext"
	"deedles.dev/xdg/wire"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
	"github.com/thejerf/suture/v4"
)

type Options struct {
	Debug  bool   `doc:"enable debug logging"`
	Socket string `doc:"socket path to listen on, overrides the config file"`
	Config string `doc:"config file" default:".xdgshelld.yaml"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			store, err := config.NewStore(config.NewYAML(configFilePath))
			if err != nil {
				return err
			}
			cfg, err := store.GetConfig()
			if err != nil {
				return err
			}
			if options.Socket != "" {
				cfg.Socket = options.Socket
			}

			lis, path, err := wire.Listen(cfg.Socket)
			if err != nil {
				return err
			}
			slog.Info("Listening", slog.String("socket", path), slog.Any("work_area", cfg.WorkArea.Rect()))

			shell := xdg.NewShell()
			shell.SetWorkArea(cfg.WorkArea.Rect())
			defer shell.Close()

			srv := newServer(shell, lis)
			shell.OnRequest(srv.handle)

			super := suture.New("xdgshelld", suture.Spec{
				EventHook: sutureext.EventHook(),
			})
			sutureext.Add(super, sutureext.NewServiceFunc("listener", srv.listen))
			sutureext.Add(super, sutureext.NewServiceFunc("dispatch", srv.dispatch))

			return super.Serve(ctx)
		})
	})

	cli.Run()
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
