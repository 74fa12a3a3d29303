// Command goharbinger is the UCI entrypoint binding engine/uci together,
// the thin front-end the core engine package is not responsible for.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"

	"github.com/corewindmill/goharbinger/engine"
	"github.com/corewindmill/goharbinger/uci"
)

var (
	buildVersion = "(devel)"

	configPath = flag.String("config", "", "optional TOML configuration file")
	version    = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	banner := color.New(color.FgCyan, color.Bold)
	banner.Printf("goharbinger %s", buildVersion)
	fmt.Printf(", built with %s, running on %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	if *version {
		return
	}

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			color.New(color.FgYellow).Printf("could not load %s, using defaults: %v\n", *configPath, err)
		} else {
			cfg = loaded
			color.New(color.FgYellow).Printf("loaded configuration from %s\n", *configPath)
		}
	}

	session := uci.NewWithConfig(os.Stdout, cfg)
	session.Run(os.Stdin)
}
