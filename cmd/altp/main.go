package main

import (
	"os"

	"github.com/unkn0wn-root/altp/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], streams{
		in:  os.Stdin,
		out: os.Stdout,
		err: os.Stderr,
	}, config.DefaultEnv()))
}
