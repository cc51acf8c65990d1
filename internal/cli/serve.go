package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/hessam/chronos/internal/server"
	"github.com/hessam/chronos/pkg/cache"
	"github.com/hessam/chronos/pkg/pipeline"
	"github.com/hessam/chronos/pkg/store"
)

// serveConfig is the optional TOML config file for the serve command.
// Flags set explicitly on the command line win over file values.
type serveConfig struct {
	Addr     string `toml:"addr"`
	StoreDir string `toml:"store"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
	Redis    string `toml:"redis"`
}

func loadServeConfig(path string) (serveConfig, error) {
	var cfg serveConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return serveConfig{}, err
	}
	return cfg, nil
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		storeDir   string
		mongoURI   string
		mongoDB    string
		redisAddr  string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Snapshots come from a file store directory by default, or from MongoDB when
--mongo-uri is set. Layouts and rendered artifacts are cached in the local
file cache, or in Redis when --redis is set (for shared deployments).
Backend settings may also come from a TOML file via --config; explicit
flags take precedence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if configPath != "" {
				cfg, err := loadServeConfig(configPath)
				if err != nil {
					return fmt.Errorf("load config %s: %w", configPath, err)
				}
				if cfg.Addr != "" && !cmd.Flags().Changed("addr") {
					addr = cfg.Addr
				}
				if cfg.StoreDir != "" && !cmd.Flags().Changed("store") {
					storeDir = cfg.StoreDir
				}
				if cfg.MongoURI != "" && !cmd.Flags().Changed("mongo-uri") {
					mongoURI = cfg.MongoURI
				}
				if cfg.MongoDB != "" && !cmd.Flags().Changed("mongo-db") {
					mongoDB = cfg.MongoDB
				}
				if cfg.Redis != "" && !cmd.Flags().Changed("redis") {
					redisAddr = cfg.Redis
				}
			}

			var st store.Store
			var err error
			if mongoURI != "" {
				st, err = store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI, Database: mongoDB})
				if err != nil {
					return fmt.Errorf("connect mongodb: %w", err)
				}
			} else {
				st, err = store.NewFileStore(storeDir)
				if err != nil {
					return fmt.Errorf("open store %s: %w", storeDir, err)
				}
			}

			var cch cache.Cache
			switch {
			case noCache:
				cch = cache.NewNullCache()
			case redisAddr != "":
				cch, err = cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
				if err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
			default:
				cch, err = newCache(false)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
			}

			// Scope API cache keys away from local CLI runs sharing the
			// same file cache or Redis instance.
			keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api")
			runner := pipeline.NewRunner(st, cch, keyer, c.Logger)
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Config{Addr: addr})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file with backend settings (flags win)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&storeDir, "store", "projects", "project store directory (file backend)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI (switches to the MongoDB backend)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "chronos", "MongoDB database name")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for shared caching (host:port)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
