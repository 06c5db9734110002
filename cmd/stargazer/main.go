package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stargazer/internal/app"
)

var (
	// Global flags
	configPath  string
	dataDir     string
	storeEngine string
	strict      bool
	logFile     string
	debug       bool
	asciiOnly   bool
	skipIntro   bool
)

var rootCmd = &cobra.Command{
	Use:   "stargazer",
	Short: "Stargazer - a terminal companion for the night sky",
	Long: `Stargazer is a terminal companion for amateur astronomers.

Browse stars, planets and constellations, log what you observed, rate it,
take quizzes and unlock achievements along the way.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&dataDir, "data-dir", "", "Data directory (default: ~/.local/share/stargazer)")
	pf.StringVar(&storeEngine, "store", "", "Storage engine: sqlite, json or memory")
	pf.BoolVar(&strict, "strict", false, "Fail operations on storage errors instead of logging them")
	pf.StringVar(&logFile, "log-file", "", "Write JSON logs to this file")
	pf.BoolVar(&debug, "debug", false, "Debug logging and layout info")
	pf.BoolVar(&asciiOnly, "ascii", false, "Draw with ASCII only")
	pf.BoolVar(&skipIntro, "skip-intro", false, "Start on the home screen without the welcome slides")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	cfg := app.DefaultConfig()
	if configPath != "" {
		if err := app.LoadConfigFile(configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return cfg, err
	}
	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if changed("store") {
		cfg.Storage.Engine = storeEngine
	}
	if changed("strict") {
		cfg.Storage.Strict = strict
	}
	if changed("log-file") {
		cfg.LogPath = logFile
	}
	if changed("ascii") {
		cfg.UI.ASCIIOnly = asciiOnly
	}
	if changed("skip-intro") {
		cfg.UI.SkipIntro = skipIntro
	}
	if debug {
		cfg.LogLevel = "debug"
		cfg.DebugLayout = true
	}
	return cfg, cfg.Validate()
}

func openApp(cmd *cobra.Command, opts ...app.Option) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, opts...)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()
	return a.Run(ctx)
}
