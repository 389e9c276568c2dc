package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/layergraph"
	httpAdapter "github.com/aretw0/layergraph/internal/adapters/http"
	"github.com/aretw0/layergraph/internal/metrics"
	"github.com/aretw0/layergraph/internal/presentation/tui"
	"github.com/aretw0/layergraph/pkg/adapters/file"
	"github.com/aretw0/layergraph/pkg/adapters/redis"
	"github.com/aretw0/layergraph/pkg/persistence/middleware"
	"github.com/aretw0/layergraph/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP editor server",
	Long: `Serves the documents in --dir (or in Redis with --redis) over a JSON API,
with mutation events as Server-Sent Events and Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address; documents are kept in Redis instead of --dir")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().Duration("redis-ttl", 0, "Expire idle documents after this long (0 keeps them)")
}

func runServe(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("dir")
	port, _ := cmd.Flags().GetString("port")
	logger := commandLogger(cmd)

	var docs ports.DocumentStore = file.New(dir)
	source := dir
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("redis-ttl")

		rs := redis.New(addr, password, db, redis.WithTTL(ttl))
		defer rs.Close()
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			return fmt.Errorf("redis %s unreachable: %w", addr, err)
		}
		docs, source = rs, "redis://"+addr
	}

	docs = middleware.Chain(docs,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewValidationMiddleware(),
		middleware.NewCanonicalMiddleware(),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.New(reg, logger)
	if err != nil {
		return err
	}

	editor := layergraph.New(
		layergraph.WithDocumentStore(docs),
		layergraph.WithHooks(collector.Hooks()),
		layergraph.WithLogger(logger),
	)
	handler := httpAdapter.NewHandler(editor,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetrics(reg),
	)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		if isTerminal() {
			tui.PrintBanner(os.Stdout)
		}
		fmt.Printf("Starting layergraph server on %s\n", srv.Addr)
		fmt.Printf("Serving documents from: %s\n", source)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			if err := srv.Close(); err != nil {
				fmt.Printf("Error killing server: %v\n", err)
			}
		}
		fmt.Println("layergraph server stopped gracefully")
	}
	return nil
}
