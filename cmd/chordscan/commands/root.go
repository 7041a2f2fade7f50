package commands

import (
	"os"

	"github.com/RyanBlaney/sonido-chords/chords/config"
	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/spf13/cobra"
)

const appName = "chordscan"

// Version is set at build time with -ldflags "-X .../commands.Version=..."
var Version = "dev"

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	cfgFile string
	verbose bool
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Chord, key and tempo detection for audio recordings",
		Long: `chordscan analyzes a WAV recording and prints its chord timeline,
global key and tempo.

Examples:
  # Print the chord changes of a song
  chordscan analyze song.wav

  # Run the refinement passes and export a MIDI sketch
  chordscan analyze song.wav --mode accurate --format midi --out song.mid`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "analysis config file (YAML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(newAnalyzeCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the command tree with os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig returns the configuration from --config, or the defaults
func (o *globalOptions) loadConfig() (*config.AnalysisConfig, error) {
	if o.cfgFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadFile(o.cfgFile)
}

// setupLogging installs a stderr logger at the level from --verbose or the
// config. Components capture the global logger when they are built, so this
// must run before the analyzer is created.
func (o *globalOptions) setupLogging(cfg *config.AnalysisConfig) error {
	level := logging.DebugLevel
	if !o.verbose {
		parsed, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		level = parsed
	}

	logger := logging.NewDefaultLoggerWithWriters(os.Stderr, os.Stderr)
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)
	return nil
}
