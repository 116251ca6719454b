package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vtemian/claude-notes/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Serve a project's conversations in the browser",
	Long: `Serve hosts a local web view of a project's conversations. The page
reloads automatically when a transcript changes.

Examples:
  claude-notes serve
  claude-notes serve ~/src/myproject --port 9000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8377", "port to listen on")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	folder, err := resolveProject(args)
	if err != nil {
		return err
	}

	port := viper.GetString("port")
	fmt.Fprintf(os.Stderr, "serving %s on http://localhost:%s\n", folder, port)
	return server.New(folder, correlateOptions(), port).Start()
}
