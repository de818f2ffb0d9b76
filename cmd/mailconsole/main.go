package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mail-console/internal/app"
	"github.com/nhle/mail-console/internal/credential"
	"github.com/nhle/mail-console/internal/graphql"
	"github.com/nhle/mail-console/internal/imapprobe"
	"github.com/nhle/mail-console/internal/logging"
	"github.com/nhle/mail-console/internal/mailapi"
	"github.com/nhle/mail-console/internal/model"
	"github.com/nhle/mail-console/internal/store"
)

func main() {
	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	state, err := store.NewSQLiteStore(cfg.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open state %s: %v\n", cfg.StatePath, err)
		os.Exit(1)
	}
	defer state.Close()

	ids := store.NewConfigIDStore(state)
	configID, err := ids.Get(context.Background())
	if err != nil {
		// Start without a saved configuration rather than refusing to run.
		logger.Error().Err(err).Msg("reading cached configuration id")
		configID = ""
	}

	token, err := credential.APIToken(cfg.APIToken)
	if err != nil {
		logger.Warn().Err(err).Msg("keyring unavailable, continuing without API token")
	}

	client := graphql.NewClient(cfg.APIURL,
		graphql.WithTimeout(cfg.RequestTimeout()),
		graphql.WithToken(token),
		graphql.WithLogger(logger),
	)

	m := app.New(app.Deps{
		API:           mailapi.NewService(client),
		Prober:        imapprobe.New(cfg.RequestTimeout(), logger),
		IDs:           ids,
		Logger:        logger,
		ConfigID:      configID,
		ToastDuration: cfg.ToastDuration(),
	})

	logger.Info().
		Str("api_url", cfg.APIURL).
		Bool("has_config", configID != "").
		Msg("starting mailconsole")

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(args []string) error {
	switch args[0] {
	case "token":
		if len(args) < 2 {
			printUsage()
			return errors.New("missing token subcommand")
		}
		switch args[1] {
		case "set":
			fmt.Fprint(os.Stderr, "API token: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading token: %w", err)
			}
			token := strings.TrimSpace(line)
			if token == "" {
				return errors.New("token must not be empty")
			}
			if err := credential.Set(credential.APITokenKey, token); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Token stored in keyring.")
			return nil
		case "clear":
			if err := credential.Delete(credential.APITokenKey); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Token removed from keyring.")
			return nil
		}
	case "help", "-h", "--help":
		printUsage()
		return nil
	}

	printUsage()
	return fmt.Errorf("unknown command %q", strings.Join(args, " "))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage:
  mailconsole               start the terminal UI
  mailconsole token set     store the API bearer token (read from stdin)
  mailconsole token clear   remove the stored API bearer token

Configuration is read from ~/.config/mailconsole/config.yaml and
MAILCONSOLE_* environment variables.`)
}
