// Command ingest is the Hockey Explainer roster and knowledge CLI.
//
// Usage:
//
//	hockey-ingest roster refresh
//	hockey-ingest roster show mcdavid
//	hockey-ingest resolve concept "power paly"
//	hockey-ingest classify --position D --age 25 --ppg 0.9
//	hockey-ingest token --subject curator --ttl 24h
//	hockey-ingest validate --dir ./knowledge
//	hockey-ingest lookups top --days 7
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/hockey-explainer/internal/archetype"
	"github.com/albapepper/hockey-explainer/internal/auth"
	"github.com/albapepper/hockey-explainer/internal/config"
	"github.com/albapepper/hockey-explainer/internal/db"
	"github.com/albapepper/hockey-explainer/internal/knowledge"
	"github.com/albapepper/hockey-explainer/internal/lookuplog"
	"github.com/albapepper/hockey-explainer/internal/provider"
	"github.com/albapepper/hockey-explainer/internal/provider/nhl"
	"github.com/albapepper/hockey-explainer/internal/resolver"
	"github.com/albapepper/hockey-explainer/internal/roster"
	"github.com/albapepper/hockey-explainer/internal/snapshot"
)

var logger = slog.New(log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Level:           log.InfoLevel,
}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "hockey-ingest",
		Short:        "Hockey Explainer roster and knowledge CLI",
		SilenceUsage: true,
	}

	root.AddCommand(rosterCmd())
	root.AddCommand(resolveCmd())
	root.AddCommand(classifyCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(lookupsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// roster command
// --------------------------------------------------------------------------

func rosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Fetch or inspect the NHL league roster snapshot",
	}
	cmd.AddCommand(rosterRefreshCmd())
	cmd.AddCommand(rosterShowCmd())
	return cmd
}

func rosterRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch every team roster and write the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoster(true, func(ctx context.Context, g *roster.Gateway) error {
				start := time.Now()
				n, err := g.Refresh(ctx)
				if err != nil {
					return err
				}
				logger.Info("Roster refreshed",
					"players", n,
					"duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

func rosterShowCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "show [query]",
		Short: "Show the snapshot summary, or rank players matching a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoster(false, func(ctx context.Context, g *roster.Gateway) error {
				if err := g.EnsureLoaded(ctx); err != nil {
					return fmt.Errorf("no roster snapshot: %w", err)
				}
				st := g.Status()
				logger.Info("Roster snapshot",
					"players", st.Players,
					"source", st.Source,
					"fetched_at", st.FetchedAt.Format(time.RFC3339))
				if len(args) == 0 {
					return nil
				}
				cands := g.Search(args[0], limit)
				if len(cands) == 0 {
					logger.Warn("No roster match", "query", args[0])
					return nil
				}
				for _, c := range cands {
					fmt.Printf("%-8d %-28s %-4s %s  %.3f\n",
						c.Player.ID, c.Player.Name, c.Player.TeamAbbrev, c.Player.Position, c.Score)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", roster.MaxCandidates, "Maximum candidates to print")
	return cmd
}

// --------------------------------------------------------------------------
// resolve command
// --------------------------------------------------------------------------

func resolveCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "resolve <domain> <query>",
		Short: "Resolve a query against the knowledge base and print the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := knowledge.NewBase(dir, logger)
			if err != nil {
				return err
			}
			d, ok := kb.Current().Domain(args[0])
			if !ok {
				return fmt.Errorf("unknown domain %q (valid: %v)", args[0], kb.Current().Names())
			}
			res := resolver.New(resolver.DefaultConfig()).Resolve(args[1], d)
			if !res.Found {
				logger.Warn("No match", "query", res.Query, "suggestions", res.Suggestions)
				return nil
			}
			logger.Info("Resolved",
				"key", res.Key,
				"stage", res.Stage,
				"score", fmt.Sprintf("%.3f", res.Score),
				"alternates", res.Alternates)
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Knowledge directory (empty = embedded data)")
	return cmd
}

// --------------------------------------------------------------------------
// classify command
// --------------------------------------------------------------------------

func classifyCmd() *cobra.Command {
	var (
		p        provider.PlayerProfile
		position string
	)
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a player profile into an archetype",
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Position = provider.ParsePosition(position)
			if p.PointsPerGame == 0 && p.GamesPlayed > 0 {
				p.PointsPerGame = provider.PointsPerGame(p.Goals, p.Assists, p.GamesPlayed)
			}
			arch, rule := archetype.Explain(p)
			pools, err := archetype.LoadPools()
			if err != nil {
				return err
			}
			prof, _ := pools.Get(arch)
			logger.Info("Classified", "archetype", arch, "rule", rule)
			return printJSON(prof)
		},
	}
	f := cmd.Flags()
	f.StringVar(&position, "position", "C", "Position code (C, L, R, D, G)")
	f.IntVar(&p.Age, "age", 0, "Age in years")
	f.IntVar(&p.WeightLbs, "weight", 0, "Weight in pounds")
	f.IntVar(&p.GamesPlayed, "games", 0, "Career games played")
	f.IntVar(&p.Goals, "goals", 0, "Career goals")
	f.IntVar(&p.Assists, "assists", 0, "Career assists")
	f.Float64Var(&p.PointsPerGame, "ppg", 0, "Points per game (derived from goals, assists and games when omitted)")
	f.IntVar(&p.DraftOverall, "draft", 0, "Overall draft pick (0 = undrafted)")
	return cmd
}

// --------------------------------------------------------------------------
// token command
// --------------------------------------------------------------------------

func tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token signed with ADMIN_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.AdminEnabled() {
				return fmt.Errorf("ADMIN_JWT_SECRET is required")
			}
			tok, err := auth.Issue(cfg.AdminJWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			logger.Info("Issued admin token", "subject", subject, "expires", time.Now().Add(ttl).Format(time.RFC3339))
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

// --------------------------------------------------------------------------
// validate command
// --------------------------------------------------------------------------

func validateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a knowledge directory and the archetype pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := knowledge.NewBase(dir, logger)
			if err != nil {
				return fmt.Errorf("knowledge: %w", err)
			}
			pools, err := archetype.LoadPools()
			if err != nil {
				return fmt.Errorf("archetypes: %w", err)
			}
			logger.Info("Knowledge valid", "dir", dir, "domains", kb.Current().Counts())
			logger.Info("Archetype pools valid", "archetypes", len(pools.Profiles()))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Knowledge directory (empty = embedded data)")
	return cmd
}

// --------------------------------------------------------------------------
// lookups command
// --------------------------------------------------------------------------

func lookupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookups",
		Short: "Inspect or prune the lookup log",
	}
	cmd.AddCommand(lookupsTopCmd())
	cmd.AddCommand(lookupsPruneCmd())
	return cmd
}

func lookupsTopCmd() *cobra.Command {
	var days, limit int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the most frequent unresolved queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				since := time.Now().AddDate(0, 0, -days)
				rows, err := lookuplog.TopUnresolved(ctx, pool.Pool, since, limit)
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Printf("%6d  %-8s %s\n", r.Count, r.Domain, r.Query)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Look back this many days")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows")
	return cmd
}

func lookupsPruneCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete lookup events older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if days <= 0 {
					days = cfg.LookupRetentionDays
				}
				n, err := lookuplog.Prune(ctx, pool.Pool, time.Now().AddDate(0, 0, -days))
				if err != nil {
					return err
				}
				logger.Info("Pruned lookup events", "deleted", n, "retention_days", days)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (default LOOKUP_RETENTION_DAYS)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runRoster opens the snapshot store and builds a gateway. The NHL client is
// attached only when network is true or the provider is enabled.
func runRoster(network bool, fn func(ctx context.Context, g *roster.Gateway) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.RosterSnapshotPath == "" {
		return fmt.Errorf("ROSTER_SNAPSHOT_PATH is required")
	}
	store, err := snapshot.Open(cfg.RosterSnapshotBackend, cfg.RosterSnapshotPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var src roster.Source
	if network || cfg.NHLAPIEnabled {
		src = nhl.NewClient(cfg.NHLAPIBaseURL, cfg.NHLRequestsPerMinute, cfg.ExternalTimeout, logger)
	}
	g := roster.New(src, store, roster.Options{
		Teams:       nhl.Teams,
		Timeout:     cfg.ExternalTimeout,
		FillTimeout: cfg.RosterFillTimeout,
		Logger:      logger,
	})
	return fn(ctx, g)
}

// runDB handles config loading, DB connection, and context cancellation.
func runDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
