package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vtemian/claude-notes/internal/project"
)

var (
	styleTableHeader = lipgloss.NewStyle().Bold(true)
	styleFolder      = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
)

var listProjectsCmd = &cobra.Command{
	Use:   "list-projects",
	Short: "List all Claude projects",
	RunE:  runListProjects,
}

func init() {
	rootCmd.AddCommand(listProjectsCmd)
}

func runListProjects(cmd *cobra.Command, args []string) error {
	projects, err := project.List()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Fprintln(os.Stderr, "no Claude projects found in ~/.claude/projects/")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, styleTableHeader.Render("PROJECT")+"\t"+styleTableHeader.Render("TRANSCRIPTS")+"\t"+styleTableHeader.Render("FOLDER"))
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%d\t%s\n", p.Path, p.Transcripts, styleFolder.Render(filepath.Base(p.Folder)))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ntotal projects: %d\n", len(projects))
	return nil
}
