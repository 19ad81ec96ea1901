// ABOUTME: CLI for the hybrid persistence layer: serve, maintain, blacklist admin
// ABOUTME: Configuration comes from environment variables; see printUsage

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/SilentBlox01/BeethovenBot/internal/config"
	"github.com/SilentBlox01/BeethovenBot/internal/hybrid"
)

const banner = `
 _               _   _                             _
| |__   ___  ___| |_| |__   _____   _____ _ __    | |__   ___ | |_
| '_ \ / _ \/ _ \ __| '_ \ / _ \ \ / / _ \ '_ \   | '_ \ / _ \| __|
| |_) |  __/  __/ |_| | | | (_) \ V /  __/ | | |  | |_) | (_) | |_
|_.__/ \___|\___|\__|_| |_|\___/ \_/ \___|_| |_|  |_.__/ \___/ \__|
`

func main() {
	setupLogging()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "serve":
		err = cmdServe()
	case "maintain":
		err = cmdMaintain()
	case "status":
		err = cmdStatus()
	case "blacklist":
		err = cmdBlacklist(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		switch strings.ToLower(v) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: beethoven-store <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  serve                      Open the store and run maintenance until interrupted")
	fmt.Println("  maintain                   Run one maintenance sweep and exit")
	fmt.Println("  status                     Show store configuration and backend health")
	fmt.Println("  blacklist add <id> [why]   Add a user to the deny-list")
	fmt.Println("  blacklist remove <id>      Remove a user from the deny-list")
	fmt.Println("  blacklist check <id>       Report whether a user is deny-listed")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  SQLITE_PATH                Primary database file (default: ./data/beethoven_bot.db)")
	fmt.Println("  SURREAL_URL                Mirror websocket URL (empty disables mirroring)")
	fmt.Println("  SURREAL_NS                 Mirror namespace (default: beethoven)")
	fmt.Println("  SURREAL_DB                 Mirror database (default: beethoven_bot)")
	fmt.Println("  SURREAL_USER               Mirror username (default: root)")
	fmt.Println("  SURREAL_PASS               Mirror password (default: root)")
	fmt.Println("  RETENTION_DAYS             Prune rows older than this (default: 30)")
	fmt.Println("  CACHE_TTL_SECONDS          Ephemeral cache TTL (default: 300)")
	fmt.Println("  MAINTENANCE_INTERVAL       Sweep period, Go duration (default: 24h)")
	fmt.Println("  LOG_LEVEL                  debug, info, warn or error (default: info)")
	fmt.Println()
}

// openCoordinator loads configuration and initializes the hybrid layer.
func openCoordinator() (*hybrid.Coordinator, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	c, err := hybrid.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening hybrid store: %w", err)
	}
	return c, cfg, nil
}

// cmdServe runs the store with the background maintenance loop until SIGINT
// or SIGTERM.
func cmdServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, cfg, err := openCoordinator()
	if err != nil {
		return err
	}
	defer c.Close()

	green := color.New(color.FgGreen)
	green.Print(banner)
	fmt.Println()
	fmt.Printf("  Primary:      %s\n", cfg.SQLitePath)
	printMirrorLine(cfg, c)
	fmt.Printf("  Maintenance:  every %s\n", cfg.MaintenanceInterval)
	fmt.Println()

	go c.StartMaintenance(ctx)

	<-ctx.Done()
	slog.Info("shutdown signal received")
	return nil
}

// cmdMaintain runs a single sweep, for cron-style deployments.
func cmdMaintain() error {
	c, _, err := openCoordinator()
	if err != nil {
		return err
	}
	defer c.Close()

	start := time.Now()
	c.RunMaintenance(context.Background())
	color.Green("✓ Maintenance sweep finished in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// cmdStatus opens both backends and reports their health.
func cmdStatus() error {
	c, cfg, err := openCoordinator()
	if err != nil {
		return err
	}
	defer c.Close()

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Hybrid Store")
	cyan.Println("  ------------")
	fmt.Printf("  Primary:      %s\n", cfg.SQLitePath)
	printMirrorLine(cfg, c)
	fmt.Printf("  Retention:    %d days\n", cfg.RetentionDays)
	fmt.Printf("  Cache TTL:    %s\n", cfg.CacheTTL)
	fmt.Println()
	return nil
}

func printMirrorLine(cfg *config.Config, c *hybrid.Coordinator) {
	fmt.Printf("  Mirror:       ")
	switch {
	case !cfg.MirrorEnabled():
		fmt.Println("disabled")
	case c.MirrorAvailable():
		color.Green("connected (%s)\n", cfg.SurrealURL)
	default:
		color.Yellow("unavailable, running primary-only (%s)\n", cfg.SurrealURL)
	}
}

// cmdBlacklist handles blacklist subcommands.
func cmdBlacklist(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: blacklist <add|remove|check> <user-id> [reason]")
	}
	subcmd, userID := args[0], args[1]

	c, _, err := openCoordinator()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := context.Background()
	switch subcmd {
	case "add":
		reason := strings.Join(args[2:], " ")
		if err := c.AddToBlacklist(ctx, userID, reason); err != nil {
			return err
		}
		color.Green("✓ Blacklisted %s\n", userID)
	case "remove", "rm":
		if err := c.RemoveFromBlacklist(ctx, userID); err != nil {
			return err
		}
		color.Green("✓ Removed %s from the blacklist\n", userID)
	case "check":
		banned, err := c.IsBlacklisted(ctx, userID)
		if err != nil {
			return err
		}
		if banned {
			color.Red("%s is blacklisted\n", userID)
		} else {
			fmt.Printf("%s is not blacklisted\n", userID)
		}
	default:
		return fmt.Errorf("unknown blacklist subcommand: %s (use add, remove, check)", subcmd)
	}
	return nil
}
