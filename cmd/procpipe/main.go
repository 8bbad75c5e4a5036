// Command procpipe runs programs behind pipe-connected stdio.
package main

import "github.com/kbukum/pipekit/internal/cli"

func main() {
	cli.Execute()
}
