package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/yixianOu/movie-rating/internal/conf"
	"github.com/yixianOu/movie-rating/internal/data"
	"github.com/yixianOu/movie-rating/internal/server"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "movies"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string

	id, _ = os.Hostname()
)

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

func newLogger() log.Logger {
	return log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
		"request.id", server.RequestID(),
	)
}

// loadConfig reads the yaml files under path. Placeholders such as
// ${DB_SOURCE:...} resolve from MOVIES_-prefixed environment variables.
func loadConfig(path string) (*conf.Bootstrap, func(), error) {
	c := config.New(
		config.WithSource(
			env.NewSource("MOVIES_"),
			file.NewSource(path),
		),
	)
	if err := c.Load(); err != nil {
		return nil, nil, err
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	if bc.Data == nil || bc.Data.Database == nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("config %s: data.database is required", path)
	}
	if bc.Server == nil {
		bc.Server = &conf.Server{Http: &conf.Server_HTTP{}}
	}
	if bc.Auth == nil {
		bc.Auth = &conf.Auth{}
	}
	if bc.Pagination == nil {
		bc.Pagination = &conf.Pagination{}
	}
	return &bc, func() { _ = c.Close() }, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           Name,
		Short:         "Movie catalog and rating service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagconf, "conf", "../../configs", "config path, eg: --conf config.yaml")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newStatsCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, closeConfig, err := loadConfig(flagconf)
			if err != nil {
				return err
			}
			defer closeConfig()

			app, cleanup, err := wireApp(bc.Server, bc.Data, bc.Auth, bc.Pagination, newLogger())
			if err != nil {
				return err
			}
			defer cleanup()

			// start and wait for stop signal
			return app.Run()
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, closeConfig, err := loadConfig(flagconf)
			if err != nil {
				return err
			}
			defer closeConfig()

			l := log.NewHelper(newLogger())
			db, err := data.Open(bc.Data.Database.Driver, bc.Data.Database.Source)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := data.RunMigrations(cmd.Context(), db, bc.Data.Database.Driver); err != nil {
				return err
			}
			l.Info("database migrations applied")
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	var minMovies int64

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print catalog counts and check the catalog is seeded",
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, closeConfig, err := loadConfig(flagconf)
			if err != nil {
				return err
			}
			defer closeConfig()

			stats, cleanup, err := wireStats(bc.Data, log.NewFilter(newLogger(), log.FilterLevel(log.LevelWarn)))
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := stats.CatalogStats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "movies:    %d\n", s.Movies)
			fmt.Fprintf(out, "directors: %d\n", s.Directors)
			fmt.Fprintf(out, "ratings:   %d\n", s.Ratings)
			if s.Movies < minMovies {
				return fmt.Errorf("catalog holds %d movies, want at least %d", s.Movies, minMovies)
			}
			fmt.Fprintf(out, "catalog ready (>= %d movies)\n", minMovies)
			return nil
		},
	}
	cmd.Flags().Int64Var(&minMovies, "min-movies", 1000, "minimum number of movies expected in the catalog")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
