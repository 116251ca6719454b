package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/vtemian/claude-notes/internal/project"
	"github.com/vtemian/claude-notes/internal/render"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Live terminal view of a project's newest conversation",
	Long: `Watch renders the newest conversation of a project and re-renders it
whenever a transcript in the project changes.

Examples:
  claude-notes watch
  claude-notes watch ~/src/myproject`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	folder, err := resolveProject(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		cancel()
	}()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(folder); err != nil {
		return fmt.Errorf("watch %s: %w", folder, err)
	}

	if err := renderNewest(folder); err != nil {
		return err
	}

	// Debounce: one logical append produces several filesystem events.
	var timer *time.Timer
	redraw := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".jsonl") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case redraw <- struct{}{}:
				default:
				}
			})

		case <-redraw:
			if err := renderNewest(folder); err != nil {
				log.Printf("render error: %v", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// renderNewest clears the screen and renders the most recent conversation,
// oldest turn first so new turns appear at the bottom like a tail.
func renderNewest(folder string) error {
	convs, err := project.LoadAll(folder, correlateOptions())
	if err != nil {
		return err
	}

	fmt.Print("\x1b[2J\x1b[H")
	if len(convs) == 0 {
		fmt.Println("no transcript files found — waiting for activity")
		return nil
	}

	renderer := render.NewTerminalRenderer()
	renderer.ShowHeader = true
	out, err := renderer.Render(convs[0])
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
