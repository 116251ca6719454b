package main

import "github.com/vtemian/claude-notes/internal/cmd"

func main() {
	cmd.Execute()
}
