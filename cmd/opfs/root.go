package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/opfs/pkg/opfs"
)

var (
	rootPath string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "opfs",
	Short: "Browse and modify an opfs storage root",
	Long: `opfs exposes a local directory through the origin-private-file-system
handle API: directory and file handles, positional writable streams and
synchronous access handles. All subcommands go through that API rather
than touching the filesystem directly.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootPath, "root", "", "storage root directory (default: user cache dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newLsCommand())
	rootCmd.AddCommand(newCatCommand())
	rootCmd.AddCommand(newWriteCommand())
	rootCmd.AddCommand(newMkdirCommand())
	rootCmd.AddCommand(newRmCommand())
	rootCmd.AddCommand(newResolveCommand())
}

// newStorage builds the storage context from the persistent flags.
func newStorage() (*opfs.Storage, error) {
	level, err := opfs.LogLevelFromString(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	opts := []opfs.Option{opfs.WithLogger(opfs.NewLogger(os.Stderr, level))}
	if rootPath != "" {
		opts = append(opts, opfs.WithBasePath(rootPath))
	}
	return opfs.New(opts...)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of opfs`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("opfs version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
