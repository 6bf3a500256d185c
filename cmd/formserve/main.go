package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formserve"
	"github.com/goliatone/go-formserve/internal/logctx"
	"github.com/goliatone/go-formserve/pkg/apidoc"
	"github.com/goliatone/go-formserve/pkg/config"
	"github.com/goliatone/go-formserve/pkg/httpform"
	"github.com/goliatone/go-formserve/pkg/prompt"
	"github.com/goliatone/go-formserve/pkg/store"
	"github.com/goliatone/go-formserve/pkg/submission"
)

const (
	defaultConfigPath   = "config.toml"
	defaultOpenAPIRoute = "/openapi.json"
	shutdownTimeout     = 5 * time.Second
)

const usage = `usage: formserve [serve|fill|openapi] [flags]

  serve    render the form over HTTP and store submissions (default)
  fill     fill the form interactively in the terminal
  openapi  print the OpenAPI description of the form endpoints
`

type cliFlags struct {
	config  string
	output  string
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	command := "serve"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	flags, err := parseFlags(command, args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "formserve: %v\n", err)
		return 1
	}
	logger := newLogger(stderr, settings.LogFormat, flags.verbose)

	switch command {
	case "serve":
		err = serve(ctx, logger, settings, flags)
	case "fill":
		err = fill(ctx, logger, flags, stdout)
	case "openapi":
		err = printOpenAPI(settings, flags, stdout)
	default:
		fmt.Fprintf(stderr, "formserve: unknown command %q\n\n%s", command, usage)
		return 2
	}

	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Fprintln(stderr, "formserve: aborted")
			return 130
		}
		logger.Error("formserve.failed", slog.String("command", command), slog.Any("error", err))
		return 1
	}
	return 0
}

func parseFlags(command string, args []string, stderr io.Writer) (cliFlags, error) {
	var flags cliFlags
	fs := flag.NewFlagSet("formserve "+command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage+"\nflags:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&flags.config, "config", defaultConfigPath, "form config file (.toml, .yaml or .yml)")
	fs.StringVar(&flags.output, "output", "", "response log file (overrides json_output, default "+formserve.DefaultOutputPath+")")
	fs.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	return flags, nil
}

func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(logctx.New(handler))
}

func serve(ctx context.Context, logger *slog.Logger, settings config.Settings, flags cliFlags) error {
	svc, err := formserve.Open(flags.config, flags.output,
		httpform.WithLogger(logger),
		httpform.WithFormRoute(settings.FormRoute),
		httpform.WithSubmitRoute(settings.SubmitRoute),
		httpform.WithOpenAPIRoute(defaultOpenAPIRoute),
		httpform.WithMaxBodyBytes(settings.MaxBodyBytes),
	)
	if err != nil {
		return err
	}
	if drift := svc.Drift(); len(drift) > 0 {
		logger.Warn("store.schema_drift",
			slog.String("path", svc.Store.Path()),
			slog.Any("unknown_keys", drift),
		)
	}

	srv := &http.Server{
		Addr:              settings.Addr(),
		Handler:           svc.Component.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.listening",
			slog.String("addr", srv.Addr),
			slog.String("form", settings.FormRoute),
			slog.String("submit", settings.SubmitRoute),
			slog.String("output", svc.Store.Path()),
			slog.Int("records", svc.Store.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func fill(ctx context.Context, logger *slog.Logger, flags cliFlags, stdout io.Writer) error {
	form, err := formserve.LoadForm(flags.config)
	if err != nil {
		return err
	}
	s, err := store.Open(formserve.OutputPath(form, flags.output), store.WithLogger(logger))
	if err != nil {
		return err
	}
	handler, err := submission.New(form, s, submission.WithLogger(logger))
	if err != nil {
		return err
	}

	answers, err := prompt.NewFiller(nil, prompt.WithLogger(logger)).Fill(ctx, form)
	if err != nil {
		return err
	}
	outcome, err := handler.Handle(ctx, answers)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "Saved to %s at %s\n", s.Path(), outcome.Record.Timestamp.Format(time.RFC3339))
	return err
}

func printOpenAPI(settings config.Settings, flags cliFlags, stdout io.Writer) error {
	form, err := formserve.LoadForm(flags.config)
	if err != nil {
		return err
	}
	doc, err := apidoc.Build(form, apidoc.Routes{Form: settings.FormRoute, Submit: settings.SubmitRoute})
	if err != nil {
		return err
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = stdout.Write(out.Bytes())
	return err
}
