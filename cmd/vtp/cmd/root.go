package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"voice-transcriber/cmd/vtp/cmd/global"
	"voice-transcriber/cmd/vtp/cmd/serve"
	"voice-transcriber/cmd/vtp/cmd/transcribe"
	"voice-transcriber/cmd/vtp/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vtp",
	Short: "Transcribe audio recordings with Whisper and summarize them",
	Long: `vtp turns an audio recording into a transcript and a short summary.

- serve starts the HTTP API and browser page
- transcribe runs the whole pipeline on one local file
- Keys are read from GROQ_API_KEY and GEMINI_API_KEY (.env supported)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&global.ConfigPath, "config", "c", "",
		"config file (default is $VTP_CONFIG or ~/.voice-transcriber/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "V", false, "verbose output")
}
