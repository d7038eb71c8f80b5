package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/corrosion-lens/internal/common"
	"github.com/Veraticus/corrosion-lens/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// errReported marks failures already shown to the user.
var errReported = errors.New("reported")

// app carries per-invocation state shared by the commands.
type app struct {
	v       *viper.Viper
	logFile io.Closer
	cfgFile string
	envFile string
}

func newRootCmd(v *viper.Viper) (*cobra.Command, *app) {
	a := &app{v: v}

	root := &cobra.Command{
		Use:   "lens",
		Short: "🔍 Corrosion level classifier",
		Long: `corrosion-lens: submit a photo of a corroded metal panel to a classification
service and see its corrosion level, what that level means, and the Grad-CAM
heatmap behind the prediction.

Run without a subcommand to open the interactive classifier.`,
		PersistentPreRunE: a.initConfig,
		RunE:              a.runInteractive,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/lens/config.yaml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("endpoint", config.DefaultEndpoint, "classification endpoint URL")
	flags.Duration("timeout", 0, "request timeout (0 waits indefinitely)")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (console, json)")
	flags.String("log-file", "", "write logs to this file")

	_ = v.BindPFlag(config.KeyEndpoint, flags.Lookup("endpoint"))
	_ = v.BindPFlag(config.KeyTimeout, flags.Lookup("timeout"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = v.BindPFlag(config.KeyLogFile, flags.Lookup("log-file"))

	root.Flags().String("theme", config.DefaultTheme, "color theme (default, catppuccin-mocha)")
	root.Flags().String("dir", ".", "directory the file picker opens in")
	_ = v.BindPFlag(config.KeyTheme, root.Flags().Lookup("theme"))
	_ = v.BindPFlag(config.KeyStartDir, root.Flags().Lookup("dir"))

	root.AddCommand(a.classifyCmd())
	root.AddCommand(guideCmd())
	root.AddCommand(versionCmd())

	return root, a
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	root, a := newRootCmd(viper.GetViper())
	err := root.ExecuteContext(ctx)
	cancel()
	a.close()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		a.v.AddConfigPath(fmt.Sprintf("%s/.config/lens", home))
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	config.SetDefaults(a.v)
	config.BindEnv(a.v)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// The interactive UI owns the terminal.
	interactive := !cmd.HasParent()
	if err := a.setupLogging(config.Load(a.v).Logging, interactive); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func (a *app) setupLogging(cfg config.LoggingConfig, interactive bool) error {
	level, err := common.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		w = f
	case interactive:
		w = io.Discard
	}

	return common.SetupLogger(w, level, cfg.Format)
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lens version %s\n", version)
		},
	}
}
