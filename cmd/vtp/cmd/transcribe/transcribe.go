package transcribe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"voice-transcriber/cmd/vtp/cmd/global"
	"voice-transcriber/internal/app"
	"voice-transcriber/internal/app/converter"
	"voice-transcriber/internal/app/converter/export"
	"voice-transcriber/internal/app/util/files"
	"voice-transcriber/internal/config"
)

var (
	maxWords   int
	noSummary  bool
	outputDir  string
	reportPath string
	progress   bool
)

func init() {
	Cmd.Flags().IntVarP(&maxWords, "max-words", "m", 0, "summary length in words, 50..500 (default from config)")
	Cmd.Flags().BoolVar(&noSummary, "no-summary", false, "only transcribe; GEMINI_API_KEY must still be set")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for transcription_<name>.txt and summary_<name>.txt")
	Cmd.Flags().StringVarP(&reportPath, "report", "r", "", "write an xlsx report of the results to this path")
	Cmd.Flags().BoolVar(&progress, "progress", false, "force the progress bar even when stderr is not a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribe and summarize one local audio file",
	Long: `Transcribe and summarize one local audio file

- Supported formats: mp3, wav, m4a, flac, mp4, mpeg, mpga, webm
- Keys are read from GROQ_API_KEY and GEMINI_API_KEY; both are required,
  even with --no-summary
- Prints the transcript, the summary and text statistics`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := global.LoadConfig()
		if err != nil {
			return err
		}
		logger, err := global.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		conv, err := app.InitializeConverter(cfg, logger, converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(progress),
			Writer:  os.Stderr,
		})
		if err != nil {
			return err
		}
		defer conv.Close()

		keys := config.GetAPIKeys()
		result, convErr := conv.ConvertFile(cmd.Context(), args[0], converter.Options{
			TranscriptionKey: keys.Groq,
			SummarizationKey: keys.Gemini,
			MaxWords:         maxWords,
			SkipSummary:      noSummary,
		})
		if result == nil {
			return convErr
		}

		out := cmd.OutOrStdout()
		printResult(out, result)
		if err := writeOutputs(out, result); err != nil {
			return err
		}
		return convErr
	},
}

func printResult(w io.Writer, r *converter.Result) {
	snap := r.Snapshot
	if r.Advisory != "" {
		fmt.Fprintf(w, "note: %s\n\n", r.Advisory)
	}
	fmt.Fprintf(w, "Transcription (%s):\n%s\n\n", r.TranscriptionTime.Round(10*time.Millisecond), snap.Transcription)
	if snap.Summary != "" {
		fmt.Fprintf(w, "Summary (%s):\n%s\n\n", r.SummaryTime.Round(10*time.Millisecond), snap.Summary)
	}

	s := snap.Stats
	fmt.Fprintf(w, "Words:        %d -> %d\n", s.TranscriptionWords, s.SummaryWords)
	fmt.Fprintf(w, "Characters:   %d -> %d\n", s.TranscriptionChars, s.SummaryChars)
	fmt.Fprintf(w, "Reading time: %d min -> %d min (saves %d min)\n",
		s.TranscriptionReadingMinutes, s.SummaryReadingMinutes, s.TimeSavedMinutes)
	fmt.Fprintf(w, "Compression:  %.1f%%\n", s.CompressionRatio)
}

func writeOutputs(w io.Writer, r *converter.Result) error {
	snap := r.Snapshot
	name := files.BaseName(snap.Source, "audio")

	if outputDir != "" {
		if err := files.EnsureDirectory(outputDir); err != nil {
			return err
		}
		texts := map[string]string{"transcription": snap.Transcription, "summary": snap.Summary}
		for _, kind := range []string{"transcription", "summary"} {
			if texts[kind] == "" {
				continue
			}
			path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.txt", kind, name))
			if err := os.WriteFile(path, []byte(texts[kind]), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(w, "wrote %s\n", path)
		}
	}

	if reportPath != "" {
		f, err := os.Create(reportPath)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		defer f.Close()
		err = export.ToExcel(f, export.Report{
			Source:        snap.Source,
			Transcription: snap.Transcription,
			Summary:       snap.Summary,
			MaxWords:      snap.MaxWords,
			Stats:         snap.Stats,
			GeneratedAt:   time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(w, "wrote %s\n", reportPath)
	}
	return nil
}
