package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawbridge/internal/server"
	"github.com/matzehuels/drawbridge/pkg/cache"
	"github.com/matzehuels/drawbridge/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	redisAddr string // Redis address for the shared artifact cache
	redisDB   int    // Redis database number
	mongoURI  string // MongoDB connection string for diagram storage
	mongoDB   string // MongoDB database name
	noCache   bool   // disable the artifact cache entirely
}

// serveCommand creates the serve command for running the HTTP API.
//
// Without flags the server runs self-contained: artifacts are cached on
// disk and saved diagrams live in memory. --redis and --mongo swap in the
// shared backends.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080", mongoDB: server.DefaultDatabase}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Long: `Run the HTTP conversion and diagram storage API.

Examples:
  drawbridge serve                                # memory store, file cache
  drawbridge serve --addr :9090
  drawbridge serve --redis localhost:6379         # shared artifact cache
  drawbridge serve --mongo mongodb://localhost    # persistent diagram store`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for the artifact cache (file cache if empty)")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for diagram storage (in-memory if empty)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runServe connects the configured backends and blocks serving HTTP until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	backing, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(backing, nil, logger)
	defer runner.Close()

	var store server.Store
	if opts.mongoURI != "" {
		spinner := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
		spinner.Start()
		mongoStore, err := server.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			spinner.StopWithError(fmt.Sprintf("MongoDB: %v", err))
			return err
		}
		spinner.StopWithSuccess(fmt.Sprintf("Connected to MongoDB (%s)", opts.mongoDB))
		store = mongoStore
		defer func() { _ = store.Close(context.Background()) }()
	}

	srv := server.New(server.Config{Addr: opts.addr}, runner, store, logger)
	printInfo("Listening on %s", StyleHighlight.Render(opts.addr))
	return srv.Start(ctx)
}

// serveCache picks the artifact cache backend for the server: Redis when
// --redis is set, otherwise the file cache (or no cache with --no-cache).
func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr == "" {
		return newCache(false)
	}

	spinner := newSpinnerWithContext(ctx, "Connecting to Redis...")
	spinner.Start()
	redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr: opts.redisAddr,
		DB:   opts.redisDB,
	})
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Redis: %v", err))
		return nil, err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Connected to Redis (%s)", opts.redisAddr))
	return redisCache, nil
}
