package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kapu/pokeapi-artwork-go/internal/app"
	"github.com/kapu/pokeapi-artwork-go/internal/config"
	"github.com/kapu/pokeapi-artwork-go/internal/constants"
	"github.com/kapu/pokeapi-artwork-go/internal/util"
)

const usage = `Usage:
  pokeapi info <name|number>
  pokeapi names [-offset N] [-limit N]
  pokeapi artwork [-dir DIR] <name|number>...
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File, util.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger, os.Stdout)
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		os.Exit(1)
	}

	code := run(ctx, container, os.Args[1:], os.Stdout, os.Stderr)
	container.Close()
	if code != 0 {
		_ = logger.Sync()
		os.Exit(code)
	}
}

func run(ctx context.Context, c *app.Container, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	switch args[0] {
	case "info":
		return runInfo(ctx, c, args[1:], stdout, stderr)
	case "names":
		return runNames(ctx, c, args[1:], stdout, stderr)
	case "artwork":
		return runArtwork(ctx, c, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

func runInfo(ctx context.Context, c *app.Container, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	info, err := c.Pokemon.GetPokemonInfo(ctx, args[0])
	if err != nil {
		c.Logger.Debug("Info lookup failed", zap.Error(err))
		return 1
	}

	name, _ := info.Name()
	fmt.Fprintf(stdout, "Name:    %s\n", name)
	if id, ok := info["id"]; ok {
		fmt.Fprintf(stdout, "ID:      %v\n", id)
	}
	if artURL, err := info.ArtworkURL(); err == nil {
		fmt.Fprintf(stdout, "Artwork: %s\n", artURL)
	}
	return 0
}

func runNames(ctx context.Context, c *app.Container, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("names", flag.ContinueOnError)
	fs.SetOutput(stderr)
	offset := fs.Int("offset", 0, "index of the first name")
	limit := fs.Int("limit", constants.APIConfig.DefaultListLimit, "maximum number of names")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	names, err := c.Pokemon.GetPokemonNames(ctx, *offset, *limit)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return 0
}

func runArtwork(ctx context.Context, c *app.Container, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("artwork", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("dir", c.Config.Artwork.Directory, "destination folder")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	// One pokemon at a time; a failure does not stop the rest.
	failed := 0
	for _, identifier := range fs.Args() {
		path, err := c.Artwork.DownloadPokemonArtwork(ctx, identifier, *dir)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to download artwork for %s: %v\n", identifier, err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "Saved %s\n", path)
	}

	if failed > 0 {
		return 1
	}
	return 0
}
