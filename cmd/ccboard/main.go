// Package main is the ccboard entry point: a single binary that launches
// the TUI, the web server, both, or dispatches one of the short-lived CLI
// subcommands (stats, search, recent, info, resume, clear-cache).
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ccboard/ccboard/internal/api"
	"github.com/ccboard/ccboard/internal/cliapp"
	"github.com/ccboard/ccboard/internal/config"
	"github.com/ccboard/ccboard/internal/datastore"
	"github.com/ccboard/ccboard/internal/tui"
	"github.com/ccboard/ccboard/pkg/log"
	"github.com/google/gops/agent"

	tea "github.com/charmbracelet/bubbletea"
)

var cliCommands = map[string]bool{
	"stats": true, "search": true, "recent": true,
	"info": true, "resume": true, "clear-cache": true,
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal(err)
	}

	args := os.Args[1:]
	if len(args) > 0 && cliCommands[args[0]] {
		os.Exit(cliapp.Run(cliapp.Env{Stdout: os.Stdout, Stderr: os.Stderr, Args: args}))
	}

	mode := "tui"
	if len(args) > 0 {
		mode = args[0]
		args = args[1:]
	}

	switch mode {
	case "tui":
		runTUI()
	case "web":
		runWeb(parsePort(args))
	case "both":
		runBoth(parsePort(args))
	default:
		fmt.Fprintf(os.Stderr, "ccboard: unknown command %q\n", mode)
		os.Exit(64)
	}
}

func parsePort(args []string) string {
	addr := config.Keys.Addr
	for i, a := range args {
		if a == "--port" && i+1 < len(args) {
			addr = ":" + args[i+1]
		}
	}
	return addr
}

var flagGops = os.Getenv("CCBOARD_GOPS") != ""

func maybeStartGops() {
	if !flagGops {
		return
	}
	if err := agent.Listen(agent.Options{}); err != nil {
		log.Fatalf("gops/agent.Listen failed: %s", err.Error())
	}
}

func openStore(watch bool) *datastore.Store {
	store, err := datastore.New(datastore.Options{
		AssistantHome: config.Keys.AssistantHome,
		ProjectPath:   config.Keys.ProjectPath,
		CachePath:     config.CachePath(),
		Watch:         watch,
	})
	if err != nil {
		log.Fatal(err)
	}

	report := store.InitialLoad()
	log.Infof("loaded %d sessions (%d failed)", report.SessionsScanned, report.SessionsFailed)

	if watch {
		if err := store.StartWatching(); err != nil {
			log.Warnf("file watcher did not start: %s", err.Error())
		}
		if err := store.StartBackgroundTasks(); err != nil {
			log.Warnf("background tasks did not start: %s", err.Error())
		}
	}

	return store
}

func runTUI() {
	maybeStartGops()
	store := openStore(true)
	defer store.Close()

	p := tea.NewProgram(tui.New(store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("tui exited with error: %s", err.Error())
	}
}

func runWeb(addr string) {
	maybeStartGops()
	store := openStore(true)
	defer store.Close()

	srv := api.NewServer(addr, store, "")
	log.Infof("HTTP server listening at %s", addr)
	runServerUntilSignal(srv)
}

func runBoth(addr string) {
	maybeStartGops()
	store := openStore(true)
	defer store.Close()

	srv := api.NewServer(addr, store, "")
	go func() {
		log.Infof("HTTP server listening at %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("starting server failed: %s", err.Error())
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	p := tea.NewProgram(tui.New(store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("tui exited with error: %s", err.Error())
	}
}

func runServerUntilSignal(srv *http.Server) {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("starting server failed: %s", err.Error())
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warnf("graceful shutdown failed: %s", err.Error())
		}
	}
}
