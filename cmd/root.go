package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/busygit/busygit/internal/config"
	"github.com/busygit/busygit/internal/discovery"
	"github.com/busygit/busygit/internal/engine"
	"github.com/busygit/busygit/internal/logging"
	"github.com/busygit/busygit/internal/probe"
	"github.com/busygit/busygit/tui"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "busygit",
	Short: "Monitor the status of many git repositories",
	Long: `busygit is a terminal dashboard that discovers git repositories
under your configured paths, probes their local and remote status
concurrently, and keeps the view current while you work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Configured() {
			fmt.Fprintf(os.Stderr, "Nothing configured.\n")
			fmt.Fprintf(os.Stderr, "Run 'busygit init' to set up, or add paths to %s\n", cfgFile)
			return nil
		}

		logPath := cfg.LogFile
		if logPath == "" {
			logPath = config.DefaultLogPath()
		}
		log := logging.New(logPath, cfg.LogLevel)

		prober := probe.NewGitProber(
			probe.WithUntrackedAsDirty(cfg.CountUntracked),
			probe.WithTimeouts(cfg.ProbeTimeout, cfg.FetchTimeout),
		)
		eng := engine.New(cfg, discovery.NewWalker(cfg), prober, log)

		return tui.Run(cfg, eng, log)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/busygit/config.yaml)")
	rootCmd.PersistentFlags().StringSliceP("watch", "w", nil, "directories to scan for repos (overrides config file)")
	rootCmd.PersistentFlags().StringSlice("repo", nil, "explicit repository paths (overrides config file)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath()
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if watch, _ := rootCmd.Flags().GetStringSlice("watch"); len(watch) > 0 {
		cfg.WatchPaths = watch
	}
	if repos, _ := rootCmd.Flags().GetStringSlice("repo"); len(repos) > 0 {
		cfg.Repos = repos
	}
}
