package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/fonds/internal"
	"github.com/starford/fonds/internal/auditlog"
	"github.com/starford/fonds/internal/bulk"
	"github.com/starford/fonds/internal/hierarchy"
	"github.com/starford/fonds/internal/mcpserver"
	"github.com/starford/fonds/internal/progress"
	pkgconfig "github.com/starford/fonds/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// runSweep is the shared shape of the journaled bulk commands: log in, run
// the sweep, journal the outcome, print the change log.
func runSweep(ctx context.Context, cmd *cli.Command, op string,
	sweep func(ctx context.Context, svc *bulk.Service, resourceID int) ([]bulk.ChangeEntry, error)) error {

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)

	client, err := internal.NewClient(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("backend login: %w", err)
	}
	defer client.Logout(context.Background()) //nolint:errcheck

	journal, err := auditlog.Open(cfg.Audit.SQLitePath)
	if err != nil {
		return err
	}
	defer journal.Close()

	resourceID := int(cmd.Int("resource"))
	svc := bulk.NewService(client, logger, nil)

	entries, sweepErr := sweep(ctx, svc, resourceID)
	if _, jErr := journal.Append(op, resourceID, entries); jErr != nil {
		logger.Warn("journal append failed", slog.String("error", jErr.Error()))
	}
	for _, e := range entries {
		fmt.Printf("%s\t%s\t%s\n", e.URI, e.Title, e.Restriction)
	}
	if sweepErr != nil {
		return fmt.Errorf("sweep aborted after %d changes: %w", len(entries), sweepErr)
	}
	fmt.Printf("%d restrictions unpublished\n", len(entries))
	return nil
}

func runMerge(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)

	client, err := internal.NewClient(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("backend login: %w", err)
	}
	defer client.Logout(context.Background()) //nolint:errcheck

	journal, err := auditlog.Open(cfg.Audit.SQLitePath)
	if err != nil {
		return err
	}
	defer journal.Close()

	source := int(cmd.Int("source"))
	target := int(cmd.Int("target"))
	svc := bulk.NewService(client, logger, nil)
	if err := svc.MergeTopContainers(ctx, source, target); err != nil {
		return err
	}
	if _, jErr := journal.Append(progress.OpMerge, source, nil); jErr != nil {
		logger.Warn("journal append failed", slog.String("error", jErr.Error()))
	}
	fmt.Printf("container %d merged into %d\n", source, target)
	return nil
}

func runCleanup(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)

	client, err := internal.NewClient(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("backend login: %w", err)
	}
	defer client.Logout(context.Background()) //nolint:errcheck

	journal, err := auditlog.Open(cfg.Audit.SQLitePath)
	if err != nil {
		return err
	}
	defer journal.Close()

	resourceID := int(cmd.Int("resource"))
	svc := bulk.NewService(client, logger, nil)
	if err := svc.RemoveResourceAssociations(ctx, resourceID); err != nil {
		return err
	}
	if _, jErr := journal.Append(progress.OpCleanup, resourceID, nil); jErr != nil {
		logger.Warn("journal append failed", slog.String("error", jErr.Error()))
	}
	fmt.Println("associations removed")
	return nil
}

func runDisplay(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)

	client, err := internal.NewClient(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("backend login: %w", err)
	}
	defer client.Logout(context.Background()) //nolint:errcheck

	uri := cmd.String("uri")
	rec, err := client.RecordByURI(ctx, uri)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", uri, err)
	}

	resolver := hierarchy.NewResolver(client)
	out, err := resolver.DisplayString(ctx, rec, cmd.Bool("parent-title"))
	if err != nil {
		return err
	}
	fmt.Println(out)

	if cmd.Bool("hierarchy") {
		path, err := resolver.Build(ctx, rec, cmd.String("delimiter"))
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Println(path)
		}
	}
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunWatch(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("watch service error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)

	client, err := internal.NewClient(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("backend login: %w", err)
	}
	defer client.Logout(context.Background()) //nolint:errcheck

	return mcpserver.New(client).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
	resourceFlag := &cli.IntFlag{
		Name:     "resource",
		Usage:    "Resource id",
		Required: true,
	}

	cmd := &cli.Command{
		Name:  "fonds",
		Usage: "Maintenance toolkit for archival description backends",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:  "merge-containers",
				Usage: "Repoint every instance of one top container at another, then delete it",
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{Name: "source", Usage: "Container id to merge away", Required: true},
					&cli.IntFlag{Name: "target", Usage: "Container id to keep", Required: true},
				},
				Action: runMerge,
			},
			{
				Name:  "expire-restrictions",
				Usage: "Unpublish access restrictions whose expiry date has passed",
				Flags: []cli.Flag{configFlag, resourceFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runSweep(ctx, cmd, progress.OpExpiry,
						func(ctx context.Context, svc *bulk.Service, id int) ([]bulk.ChangeEntry, error) {
							return svc.UnpublishExpiredRestrictions(ctx, id)
						})
				},
			},
			{
				Name:  "unpublish-restrictions",
				Usage: "Unpublish access restrictions whose text matches exactly",
				Flags: []cli.Flag{
					configFlag,
					resourceFlag,
					&cli.StringFlag{Name: "text", Usage: "Restriction text to match", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					text := cmd.String("text")
					return runSweep(ctx, cmd, progress.OpTextMatch,
						func(ctx context.Context, svc *bulk.Service, id int) ([]bulk.ChangeEntry, error) {
							return svc.UnpublishRestrictionsByText(ctx, id, text)
						})
				},
			},
			{
				Name:   "remove-associations",
				Usage:  "Delete digital objects and containers solely owned by a resource",
				Flags:  []cli.Flag{configFlag, resourceFlag},
				Action: runCleanup,
			},
			{
				Name:  "display",
				Usage: "Print a record's display string",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "uri", Usage: "Record uri", Required: true},
					&cli.BoolFlag{Name: "parent-title", Usage: "Prefix the parent's display string"},
					&cli.BoolFlag{Name: "hierarchy", Usage: "Also print the full ancestor chain"},
					&cli.StringFlag{Name: "delimiter", Usage: "Hierarchy separator", Value: hierarchy.DefaultDelimiter},
				},
				Action: runDisplay,
			},
			{
				Name:   "watch-ead",
				Usage:  "Watch the drop directory and import finding aids as resources",
				Flags:  []cli.Flag{configFlag},
				Action: runWatch,
			},
			{
				Name:   "mcp",
				Usage:  "Serve archival description tools over MCP on stdio",
				Flags:  []cli.Flag{configFlag},
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
