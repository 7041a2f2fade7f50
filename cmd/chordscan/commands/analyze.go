package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-chords/chords"
	"github.com/RyanBlaney/sonido-chords/chords/config"
	"github.com/RyanBlaney/sonido-chords/chords/export"
	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/transcode"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	*globalOptions

	mode        string
	bpm         float64
	format      string
	outputFile  string
	maxDuration time.Duration
	resample    string
	removeDC    bool
}

func newAnalyzeCommand(global *globalOptions) *cobra.Command {
	opts := &analyzeOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Detect chords, key and tempo of a WAV file",
		Long: `Decode a PCM WAV file, mix it down to mono at 22050 Hz and run the chord
analysis pipeline.

Modes:
  fast, balanced  chord tracking and timeline cleanup only
  accurate        also refines chord quality, modal mixture, inversions
                  and ornament roles

Examples:
  chordscan analyze song.wav --bpm 96
  chordscan analyze song.wav --mode accurate --format json --out song.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(config.ModeBalanced), "analysis mode: fast, balanced or accurate")
	cmd.Flags().Float64Var(&opts.bpm, "bpm", 0, "tempo hint in BPM (0 estimates the tempo)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(export.FormatText), "output format: text, json or midi")
	cmd.Flags().StringVarP(&opts.outputFile, "out", "o", "", "output file (default: stdout, or <input>.mid for midi)")
	cmd.Flags().DurationVar(&opts.maxDuration, "max-duration", 0, "analyze only the beginning of the file")
	cmd.Flags().StringVar(&opts.resample, "resample", transcode.ResampleFast, "resampling quality: fast or high")
	cmd.Flags().BoolVar(&opts.removeDC, "remove-dc", false, "high-pass the input to strip a DC offset")

	return cmd
}

func (o *analyzeOptions) run(stdout io.Writer, input string) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if err := o.setupLogging(cfg); err != nil {
		return err
	}

	mode, err := config.ParseMode(o.mode)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}

	decoder := transcode.NewDecoder(&transcode.DecoderConfig{
		TargetSampleRate: transcode.DefaultDecoderConfig().TargetSampleRate,
		MaxDuration:      o.maxDuration,
		ResampleQuality:  o.resample,
		RemoveDC:         o.removeDC,
	})
	if err := decoder.ValidateConfig(); err != nil {
		return err
	}

	audio, err := decoder.DecodeFile(input)
	if err != nil {
		return err
	}

	res, err := chords.NewAnalyzer(cfg).Analyze(chords.Waveform{
		Samples:    audio.PCM,
		SampleRate: audio.SampleRate,
		TempoHint:  o.bpm,
		Duration:   audio.Seconds(),
	}, mode)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	outPath := o.outputFile
	if outPath == "" && format.Binary() {
		outPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format.Extension()
	}
	if outPath == "" {
		return export.Write(stdout, res, format)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export.Write(f, res, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logging.Info("Result written", logging.Fields{
		"path":   outPath,
		"format": format,
		"events": len(res.Timeline),
	})
	return nil
}
