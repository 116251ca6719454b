package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vtemian/claude-notes/internal/pager"
	"github.com/vtemian/claude-notes/internal/project"
	"github.com/vtemian/claude-notes/internal/render"
	"github.com/vtemian/claude-notes/internal/transcript"
)

var (
	showOutput string
	showRaw    bool
)

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show all conversations for a Claude project",
	Long: `Show renders every transcript of a Claude project, newest conversation
first. PATH is the project directory; it defaults to the current directory.

Examples:
  claude-notes show
  claude-notes show ~/src/myproject --format html --output notes.html
  claude-notes show --format cast --output demo.cast`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "", "output file (html and cast formats)")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print raw JSON records instead of a rendering")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	folder, err := resolveProject(args)
	if err != nil {
		return err
	}

	convs, err := project.LoadAll(folder, correlateOptions())
	if err != nil {
		return err
	}
	if len(convs) == 0 {
		fmt.Fprintln(os.Stderr, "no transcript files found — no content to display")
		return nil
	}

	if showRaw {
		return printRaw(convs)
	}

	switch strings.ToLower(viper.GetString("format")) {
	case "html":
		renderer := render.NewHTMLRenderer()
		renderer.Reverse = reverseDisplay()
		doc, err := renderer.RenderDocument(convs)
		if err != nil {
			return err
		}
		return writeOutput(doc)

	case "cast":
		// A cast file holds one recording; the newest conversation is used.
		renderer := render.NewCastRenderer()
		renderer.Reverse = false
		cast, err := renderer.Render(convs[0])
		if err != nil {
			return err
		}
		return writeOutput(cast)

	case "terminal":
		return showTerminal(convs)

	default:
		return fmt.Errorf("unsupported format: %s", viper.GetString("format"))
	}
}

func showTerminal(convs []*transcript.Conversation) error {
	renderer := render.NewTerminalRenderer()
	renderer.Reverse = reverseDisplay()

	var b strings.Builder
	for i, conv := range convs {
		if i > 0 {
			b.WriteString("\n")
		}
		out, err := renderer.Render(conv)
		if err != nil {
			return err
		}
		b.WriteString(out)
	}
	content := b.String()

	if !viper.GetBool("no-pager") && pager.Interactive() {
		return pager.New().Run(content)
	}
	fmt.Print(content)
	return nil
}

// resolveProject maps the optional path argument to a project folder.
func resolveProject(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	folder, ok := project.Find(abs)
	if !ok {
		return "", fmt.Errorf("no Claude project found for path %s (hint: run 'claude-notes list-projects')", abs)
	}
	return folder, nil
}

func printRaw(convs []*transcript.Conversation) error {
	for _, conv := range convs {
		fmt.Printf("\nConversation: %s\n", conv.Info.ConversationID)
		raw, err := json.MarshalIndent(conv.Records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
	}
	return nil
}

func writeOutput(content string) error {
	if showOutput == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(showOutput, []byte(content), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "output written to %s\n", showOutput)
	return nil
}
