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

	intconfig "github.com/guironm/crew-center/internal/config"
	intdb "github.com/guironm/crew-center/internal/db"
	router "github.com/guironm/crew-center/internal/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "crew-center",
	Short:         "Employee and department directory API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or revert the SQL schema",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default departments and synthetic employees",
	RunE:  runSeed,
}

var seedCount int

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", -1, "employees to generate (defaults to SEED_EMPLOYEE_COUNT)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("crew-center: %v", err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	a, err := newApp(env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	if env.SeedOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := a.seeder.Run(ctx, env.SeedEmployeeCount); err != nil {
			// the API stays usable with whatever was stored
			log.Printf("seeding failed: %v", err)
		}
		cancel()
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           router.NewRouter(a.deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on http://localhost%s (store=%s)", env.AppAddr, env.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Println("server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	env := intconfig.LoadEnv()
	if env.StoreDriver == intdb.DriverMemory {
		return errors.New("migrate needs STORE_DRIVER set to mysql, postgres or sqlite")
	}
	db, err := intconfig.ConnectDB(env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	if len(args) == 1 && args[0] == "down" {
		if err := intdb.MigrateDown(db, env.StoreDriver); err != nil {
			return err
		}
		cmd.Println("schema reverted")
		return nil
	}
	if err := intdb.Migrate(db, env.StoreDriver); err != nil {
		return err
	}
	cmd.Println("schema up to date")
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	env := intconfig.LoadEnv()
	if env.StoreDriver == intdb.DriverMemory {
		return errors.New("seeding the in-memory store is done by serve; set STORE_DRIVER to a SQL backend")
	}
	a, err := newApp(env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	count := env.SeedEmployeeCount
	if seedCount >= 0 {
		count = seedCount
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	lookup, err := a.seeder.SeedDepartments(ctx)
	if err != nil {
		return err
	}
	created, err := a.seeder.SeedEmployees(ctx, count, lookup)
	if err != nil {
		return err
	}
	cmd.Printf("departments: %d, employees created: %d\n", lookup.Len(), created)
	return nil
}
