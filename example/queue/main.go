package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kroma-labs/getman/httpclient"
	"github.com/kroma-labs/getman/mockserver"
	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// 1. Start the mock API on a free port
	server := mockserver.New(
		mockserver.WithAddr("127.0.0.1:0"),
		mockserver.WithLogger(logger),
		mockserver.WithRequestLogging(),
	)
	server.Store().Add(http.MethodDelete, "/v1/users/1", mockserver.Mock{Status: http.StatusNoContent})

	serverCtx, stopServer := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(serverCtx) }()

	select {
	case <-server.Ready():
	case err := <-done:
		log.Fatalf("mock server failed: %v", err)
	}

	// 2. Build a client with settings loaded from the environment, if present
	settings := httpclient.DefaultSettings()
	if path := os.Getenv("GETMAN_SETTINGS"); path != "" {
		loaded, err := httpclient.LoadSettings(path)
		if err != nil {
			log.Fatalf("load settings: %v", err)
		}
		settings = loaded
	}

	client := httpclient.New(server.URL(),
		httpclient.WithVersion("v1"),
		httpclient.WithSettings(settings),
		httpclient.WithLogger(logger),
		httpclient.WithConcurrency(4),
	)

	// 3. Queue a batch of requests, then run them together
	for i := range 5 {
		if _, err := client.Request().
			Query("page", fmt.Sprint(i+1)).
			Queued().
			Get(ctx, "users"); err != nil {
			log.Fatalf("queue request: %v", err)
		}
	}
	if _, err := client.Request().
		Body(map[string]string{"name": "ada"}).
		Queued().
		Post(ctx, "users"); err != nil {
		log.Fatalf("queue request: %v", err)
	}
	if _, err := client.Request().Queued().Delete(ctx, "users/1"); err != nil {
		log.Fatalf("queue request: %v", err)
	}

	start := time.Now()
	results, err := client.ExecuteQueue(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("some queued requests failed")
	}
	logger.Info().
		Int("responses", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("queue executed")

	// 4. Print a report for the first response
	if _, err := client.GetReport(results, httpclient.ReportOptions{
		ShowRequestHeader:  true,
		ShowResponseHeader: true,
		ShowSettings:       true,
	}); err != nil && !errors.Is(err, httpclient.ErrReportInput) {
		log.Fatalf("report: %v", err)
	}

	stopServer()
	if err := <-done; err != nil {
		log.Fatalf("mock server shutdown: %v", err)
	}
}
