package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/wcraigtrader/wbc/ical"
)

var Server = cli.Command{
	Name:  "start",
	Usage: "Starts the iCal serving server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Set hostname on which to listen to",
			Value: "localhost",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "Set port on which to listen to",
			Value: 8080,
		},
		&cli.StringFlag{
			Name:  "tag",
			Usage: "The published snapshot tag to serve",
		},
	},
	Action: serverStart,
}

var wait = 100 * time.Millisecond

func serverStart(c *cli.Context) error {
	l := Logger(c.Bool("debug"))

	tag := c.String("tag")
	st := openStore(c, l)
	if tag == "" {
		tags, err := st.Tags()
		if err != nil || len(tags) == 0 {
			return fmt.Errorf("no published snapshot to serve, run publish first")
		}
		tag = tags[len(tags)-1]
	}

	listen := fmt.Sprintf("%s:%d", c.String("host"), c.Int("port"))
	l.Info("listening", "addr", listen, "tag", tag)

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	m := ical.Routes(st, tag, AppVersion, l)
	srvRun, srvStop := setupHttpServer(listen, m, ctx)
	go srvRun(l)

	sigChan := make(chan os.Signal, 1)
	exitChan := make(chan int)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go waitForSignal(sigChan, exitChan)(l)
	code := <-exitChan

	// Doesn't block if no connections, but will otherwise wait until the timeout deadline.
	go srvStop(l)
	l.Info("shutting down")

	if code != 0 {
		return fmt.Errorf("received exit code %d", code)
	}
	return nil
}

func setupHttpServer(listen string, m http.Handler, ctx context.Context) (func(*slog.Logger), func(*slog.Logger)) {
	srv := &http.Server{
		Addr:         listen,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m,
	}

	run := func(l *slog.Logger) {
		if err := srv.ListenAndServe(); err != nil {
			if l != nil {
				l.Error("server stopped", "err", err)
			}
			os.Exit(1)
		}
	}

	stop := func(l *slog.Logger) {
		if err := srv.Shutdown(ctx); err != nil && l != nil {
			l.Error("shutdown", "err", err)
		}
		<-ctx.Done()
		if l != nil && ctx.Err() != nil {
			l.Warn("shutdown deadline", "err", ctx.Err())
		}
	}
	// Run our server in a goroutine so that it doesn't block.
	return run, stop
}

func waitForSignal(sigChan chan os.Signal, exitChan chan int) func(*slog.Logger) {
	return func(l *slog.Logger) {
		for {
			s := <-sigChan
			switch s {
			case syscall.SIGHUP:
				l.Info("SIGHUP received, reloading configuration")
			case syscall.SIGINT:
				l.Info("SIGINT received, stopping")
				exitChan <- 0
			case syscall.SIGTERM:
				l.Info("SIGTERM received, force stopping")
				exitChan <- 0
			case syscall.SIGQUIT:
				l.Info("SIGQUIT received, force stopping with core-dump")
				exitChan <- 0
			default:
				l.Warn("unknown signal", "signal", s)
			}
		}
	}
}
