// Command gffkit reads, converts, validates and fingerprints GFF1, GFF2,
// GTF and GFF3 annotation files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/gffkit/internal/config"
	"github.com/FocuswithJustin/gffkit/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for gffkit.
type CLI struct {
	// Global flags
	Config    string `name:"config" help:"Configuration file" default:"${config_path}"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error); overrides the config file"`
	LogFormat string `name:"log-format" help:"Log format (text, json); overrides the config file"`

	Convert  ConvertCmd  `cmd:"" help:"Convert between GFF versions"`
	Validate ValidateCmd `cmd:"" help:"Report malformed lines and invalid records"`
	Info     InfoCmd     `cmd:"" help:"Summarize a GFF file"`
	Checksum ChecksumCmd `cmd:"" help:"Digest records independently of dialect and formatting"`
	Load     LoadCmd     `cmd:"" help:"Export records into a SQLite database"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// App carries what every command needs at run time.
type App struct {
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// newParser builds the kong parser with output sent to the given writers.
func newParser(cli *CLI, stdout, stderr io.Writer, options ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("gffkit"),
		kong.Description("GFF/GTF reader, writer and toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"config_path": config.DefaultPath},
		kong.Writers(stdout, stderr),
	}
	return kong.New(cli, append(opts, options...)...)
}

// setup loads the configuration, applies flag overrides and installs the
// logger. Logs go to stderr so stdout stays free for GFF output.
func (c *CLI) setup(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) (*App, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Logging.Format = c.LogFormat
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	logger := logging.InitLogger(stderr, level, format)

	return &App{
		Ctx:    logging.WithRunID(ctx, uuid.NewString()),
		Config: cfg,
		Logger: logger,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}, nil
}

// run parses args and runs the selected command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, options ...kong.Option) error {
	var cli CLI
	parser, err := newParser(&cli, stdout, stderr, options...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	app, err := cli.setup(ctx, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	return kctx.Run(app)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "gffkit: error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
