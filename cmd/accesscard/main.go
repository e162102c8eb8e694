package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/internal/config"
	"github.com/bulkexchange/accesscard/internal/observability"
	"github.com/bulkexchange/accesscard/internal/render"
	"github.com/bulkexchange/accesscard/internal/share"
	"github.com/bulkexchange/accesscard/internal/tui"
	"github.com/bulkexchange/accesscard/pkg/card"
	"github.com/bulkexchange/accesscard/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("accesscard " + version)
			return nil
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return nil
		case "serve":
			return runServe()
		case "render":
			return runRender(args[1:], os.Stdout)
		}
	}

	var ref string
	if len(args) > 0 {
		ref = args[0]
	}
	return runEditor(ref)
}

// clientLogger writes to cfg.LogFile when set. The editor owns the terminal,
// so without a file nothing is logged.
func clientLogger(cfg config.Client) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	return observability.NewLogger(cfg.LogLevel, cfg.LogFile)
}

func runEditor(ref string) error {
	q, err := card.ParseCardRef(ref)
	if err != nil {
		return fmt.Errorf("read card link: %w", err)
	}
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	logger, err := clientLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	api := client.New(cfg.APIURL)
	var uploader share.Uploader
	if cfg.Upload {
		uploader = api
	}

	app := tui.NewApp(tui.Deps{
		Profiles:  api,
		Exporter:  render.NewExporter(render.CardRasterizer{}, render.NewAvatarLoader(nil), logger),
		Sharer:    share.NewDispatcher(share.NewDesktop(), uploader, cfg.ComposerURL, logger),
		CopyText:  clipboard.WriteAll,
		PublicURL: cfg.PublicURL,
		ExportDir: cfg.ExportDir,
		Logger:    logger,
	}, q)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// renderOptions are the arguments of `accesscard render`.
type renderOptions struct {
	ref    string
	out    string
	lookup bool
}

func parseRenderArgs(args []string) (renderOptions, error) {
	opts := renderOptions{lookup: true}
	for i := 0; i < len(args); i++ {
		switch a := args[i]; a {
		case "-o", "--output":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s needs a file name", a)
			}
			i++
			opts.out = args[i]
		case "--offline":
			opts.lookup = false
		default:
			if strings.HasPrefix(a, "-") {
				return opts, fmt.Errorf("unknown flag %s", a)
			}
			if opts.ref != "" {
				return opts, fmt.Errorf("unexpected argument %q", a)
			}
			opts.ref = a
		}
	}
	if opts.ref == "" {
		return opts, fmt.Errorf("usage: accesscard render <card-url|handle> [-o file] [--offline]")
	}
	return opts, nil
}

func runRender(args []string, w io.Writer) error {
	opts, err := parseRenderArgs(args)
	if err != nil {
		return err
	}
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	logger, err := clientLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	q, err := card.ParseCardRef(opts.ref)
	if err != nil {
		return fmt.Errorf("read card link: %w", err)
	}

	var profiles tui.ProfileFetcher
	if opts.lookup {
		profiles = client.New(cfg.APIURL)
	}
	exp := render.NewExporter(render.CardRasterizer{}, render.NewAvatarLoader(nil), logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	art, err := renderCard(ctx, q, profiles, exp, time.Now())
	if err != nil {
		return err
	}

	path := opts.out
	if path == "" {
		path = filepath.Join(cfg.ExportDir, art.FileName)
	}
	if err := os.WriteFile(path, art.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printRendered(w, path)
	return nil
}

// renderCard builds the card described by q and exports it. A failed
// profile lookup falls back to the handle-only card.
func renderCard(ctx context.Context, q card.QueryState, profiles tui.ProfileFetcher, exp tui.Exporter, now time.Time) (*render.Artifact, error) {
	store := card.NewStore(now)
	store.Hydrate(q)
	if h := store.Input().Handle; h != "" && profiles != nil {
		if p, err := profiles.LookupProfile(ctx, h); err == nil {
			store.SetProfile(p)
		}
	}
	art, err := exp.Export(ctx, store.View())
	if err != nil {
		return nil, fmt.Errorf("render card: %w", err)
	}
	return art, nil
}
