package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vtemian/claude-notes/internal/correlate"
)

var (
	cfgFile   string
	outputFmt string
	noPager   bool
	chrono    bool
	lookahead int
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "claude-notes",
	Short: "claude-notes — readable Claude Code transcripts",
	Long: `claude-notes transforms Claude Code transcript JSONL files into readable
renderings: a colorized terminal view with a pager, a standalone HTML
document, or an asciicast recording for animated export.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.claude-notes.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "format", "f", "terminal", "output format: terminal, html, cast")
	rootCmd.PersistentFlags().BoolVar(&noPager, "no-pager", false, "disable the pager and print all content at once")
	rootCmd.PersistentFlags().BoolVar(&chrono, "chronological", false, "show oldest turns first instead of newest first")
	rootCmd.PersistentFlags().IntVar(&lookahead, "lookahead", correlate.DefaultWindow, "tool-result correlation window in records")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("no-pager", rootCmd.PersistentFlags().Lookup("no-pager"))
	_ = viper.BindPFlag("chronological", rootCmd.PersistentFlags().Lookup("chronological"))
	_ = viper.BindPFlag("lookahead", rootCmd.PersistentFlags().Lookup("lookahead"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".claude-notes")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CLAUDE_NOTES")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// correlateOptions builds the correlation options from config.
func correlateOptions() correlate.Options {
	return correlate.Options{Window: viper.GetInt("lookahead")}
}

// reverseDisplay reports whether groups render newest-first (the default).
func reverseDisplay() bool {
	return !viper.GetBool("chronological")
}
