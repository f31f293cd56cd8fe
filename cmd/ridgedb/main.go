// Command ridgedb starts the database server: it opens a data
// directory and listens for line-oriented SQL connections until
// interrupted.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ridgedb/config"
	"ridgedb/db"
	"ridgedb/server"
	"ridgedb/version"
)

func main() {
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:     "ridgedb",
		Short:   "ridgedb database server",
		Version: version.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}
	config.RegisterFlags(root, cfg)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	database, err := db.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer database.Shutdown()

	srv := server.New(cfg, database)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("received %v, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	return srv.ListenAndServe()
}
