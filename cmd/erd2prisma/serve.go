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

	"github.com/spf13/cobra"

	"github.com/tordrt/erd2prisma/internal/persist"
	"github.com/tordrt/erd2prisma/internal/server"
	"github.com/tordrt/erd2prisma/internal/store"
)

var (
	port        int
	storeURL    string
	noAutosave  bool
	shutdownFor time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the design editor API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default: from config or PORT, 8080)")
	serveCmd.Flags().StringVar(&storeURL, "store", "", "Store URL (default: from config or ERD2PRISMA_STORE_URL)")
	serveCmd.Flags().BoolVar(&noAutosave, "no-autosave", false, "Keep edits in memory only")
	serveCmd.Flags().DurationVar(&shutdownFor, "shutdown-timeout", 5*time.Second, "Grace period for in-flight requests")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if storeURL != "" {
		cfg.Store.URL = storeURL
	}
	if noAutosave {
		cfg.Server.Autosave = false
	}

	ctx := context.Background()
	backend, err := persist.Open(ctx, cfg.Store.URL)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("failed to close store: %v", err)
		}
	}()

	repo := persist.NewRepository(backend, cfg.Store.Namespace)
	doc, err := repo.Load(ctx)
	if err != nil {
		warnf(cmd.ErrOrStderr(), "starting with an empty design: %v", err)
	}

	st := store.New(store.WithDocument(doc))
	srv := server.NewServer(cfg, st, repo)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("Shutting down server gracefully ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownFor)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Server Shutdown:", err)
	}
	log.Println("Server exiting")
	return nil
}
