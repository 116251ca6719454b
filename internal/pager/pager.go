// Package pager implements a less-like progressive display for rendered
// conversations. It blocks on a single keypress between pages and always
// restores the terminal to its original mode, including on interrupt.
package pager

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

var styleStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

const clearScreen = "\x1b[2J\x1b[H"

// Pager pages content on a terminal.
type Pager struct {
	out    io.Writer
	in     *os.File
	height int
}

// New creates a pager for stdin/stdout, sizing pages from the terminal.
func New() *Pager {
	height := 24
	if _, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && h > 1 {
		height = h
	}
	return &Pager{out: os.Stdout, in: os.Stdin, height: height}
}

// Interactive reports whether stdout is a terminal; without one the caller
// should print content directly instead of paging.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Run pages through content until the user quits. Falls back to writing
// everything at once when raw input is unavailable.
func (p *Pager) Run(content string) error {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		return nil
	}

	perPage := p.height - 1
	if perPage < 1 {
		perPage = 1
	}

	current := 0
	for {
		p.drawPage(lines, current, perPage)

		atEnd := current+perPage >= len(lines)
		p.drawStatus(lines, current, perPage, atEnd)

		key, err := p.readKey()
		if err != nil {
			// Raw mode unavailable; dump the rest and stop paging.
			fmt.Fprint(p.out, clearScreen)
			fmt.Fprintln(p.out, strings.Join(lines, "\n"))
			return nil
		}

		switch key {
		case "quit":
			fmt.Fprint(p.out, clearScreen)
			return nil
		case "next_page":
			if !atEnd {
				current = min(len(lines)-1, current+perPage)
			}
		case "next_line":
			current = min(len(lines)-1, current+1)
		case "prev_page":
			current = max(0, current-perPage)
		case "prev_line":
			current = max(0, current-1)
		case "top":
			current = 0
		case "bottom":
			current = max(0, len(lines)-perPage)
		case "help":
			p.drawHelp()
			if _, err := p.readKey(); err != nil {
				return nil
			}
		}
	}
}

func (p *Pager) drawPage(lines []string, start, perPage int) {
	fmt.Fprint(p.out, clearScreen)
	end := min(len(lines), start+perPage)
	for _, line := range lines[start:end] {
		fmt.Fprintln(p.out, line)
	}
}

func (p *Pager) drawStatus(lines []string, start, perPage int, atEnd bool) {
	if atEnd {
		fmt.Fprint(p.out, styleStatus.Render(": (END) -- press 'q' to quit, 'b' for previous page --"))
		return
	}

	end := min(len(lines), start+perPage)
	pct := min(100, end*100/len(lines))
	fmt.Fprint(p.out, styleStatus.Render(
		fmt.Sprintf(": lines %d-%d of %d (%d%%) (q to quit, h for help)", start+1, end, len(lines), pct)))
}

func (p *Pager) drawHelp() {
	fmt.Fprint(p.out, clearScreen)
	help := []string{
		"Pager controls (like 'less'):",
		"  ENTER/SPACE  next page",
		"  j            next line",
		"  k            previous line",
		"  b            previous page",
		"  g            go to top",
		"  G            go to bottom",
		"  h            this help",
		"  q            quit",
		"",
		"Press any key to continue...",
	}
	fmt.Fprintln(p.out, strings.Join(help, "\n"))
}

// readKey reads one keypress in raw mode, restoring the terminal before
// returning. An interrupt (ctrl-c) maps to quit so the deferred restore
// still runs and the terminal stays usable.
func (p *Pager) readKey() (string, error) {
	fd := int(p.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return "", fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	buf := make([]byte, 1)
	if _, err := p.in.Read(buf); err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}

	switch buf[0] {
	case '\n', '\r', ' ':
		return "next_page", nil
	case 'q', 'Q', 3, 4: // q, ctrl-c, ctrl-d
		return "quit", nil
	case 'j':
		return "next_line", nil
	case 'k':
		return "prev_line", nil
	case 'b', 'B':
		return "prev_page", nil
	case 'g':
		return "top", nil
	case 'G':
		return "bottom", nil
	case 'h', '?':
		return "help", nil
	default:
		return "next_page", nil
	}
}
