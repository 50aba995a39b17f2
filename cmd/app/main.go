package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/modcat/internal"
	pkgconfig "github.com/starford/modcat/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// loadConfig reads the optional config file and applies flag overrides.
// A positional argument, when present, is the catalog root.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("root") {
		cfg.Catalog.Root = cmd.String("root")
	}
	if cmd.IsSet("out") {
		cfg.Catalog.Output = cmd.String("out")
	}
	if cmd.IsSet("db") {
		cfg.SQLite.Path = cmd.String("db")
	}
	if cmd.IsSet("ext") {
		cfg.Catalog.Extensions = cmd.StringSlice("ext")
	}
	if cmd.IsSet("port") {
		cfg.App.HTTP.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

// withConfig adapts an internal entry point into a cli action.
func withConfig(fn func(context.Context, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() > 1 {
			return fmt.Errorf("expected at most one root directory, got %d", cmd.Args().Len())
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if root := cmd.Args().First(); root != "" {
			cfg.Catalog.Root = root
		}
		return fn(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
	}
}

func classifyAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("classify: at least one path is required")
	}
	return internal.Classify(cmd.Args().Slice())
}

func queryAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	q := internal.QueryParams{
		Category: cmd.String("category"),
		Search:   cmd.String("search"),
		Limit:    int(cmd.Int("limit")),
		Path:     cmd.String("path"),
		Counts:   cmd.Bool("counts"),
	}
	return internal.Query(ctx, q, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:      "modcat",
		Usage:     "Catalog a module source tree: describe and categorize every file",
		Version:   version,
		ArgsUsage: "[root]",
		Action:    withConfig(internal.Generate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (optional)",
				Value:   "modcat.yaml",
				Sources: cli.EnvVars("MODCAT_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Root directory to catalog",
				Sources: cli.EnvVars("MODCAT_ROOT"),
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write the catalog JSON to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database to export the catalog to",
				Sources: cli.EnvVars("MODCAT_DB"),
			},
			&cli.StringSliceFlag{
				Name:  "ext",
				Usage: "File extension to include (repeatable, replaces the default list)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Build the catalog and print it as JSON (default)",
				ArgsUsage: "[root]",
				Action:    withConfig(internal.Generate),
			},
			{
				Name:      "classify",
				Usage:     "Classify paths without reading the filesystem",
				ArgsUsage: "<path>...",
				Action:    classifyAction,
			},
			{
				Name:      "summary",
				Usage:     "Print per-category counts as a table",
				ArgsUsage: "[root]",
				Action:    withConfig(internal.Summary),
			},
			{
				Name:      "export",
				Usage:     "Build the catalog and replace the contents of the SQLite database",
				ArgsUsage: "[root]",
				Action:    withConfig(internal.Export),
			},
			{
				Name:  "query",
				Usage: "Read records back from an exported SQLite database",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "Only records with this category"},
					&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Search paths and descriptions"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum number of records (0 for all)"},
					&cli.StringFlag{Name: "path", Usage: "Print the record stored for this path"},
					&cli.BoolFlag{Name: "counts", Usage: "Print per-category counts"},
				},
				Action: queryAction,
			},
			{
				Name:      "serve",
				Usage:     "Serve the catalog over HTTP and rebuild it when the tree changes",
				ArgsUsage: "[root]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP port", Sources: cli.EnvVars("MODCAT_PORT")},
				},
				Action: withConfig(internal.Serve),
			},
			{
				Name:      "mcp",
				Usage:     "Serve the catalog to MCP clients over stdio",
				ArgsUsage: "[root]",
				Action:    withConfig(internal.ServeMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
