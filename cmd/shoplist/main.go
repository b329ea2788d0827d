package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/idilsaglam/shoplist/internal/cli"
	"github.com/idilsaglam/shoplist/internal/config"
	"github.com/idilsaglam/shoplist/internal/obs"
	"github.com/idilsaglam/shoplist/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand); they override the environment.
	envFile := flag.String("config", "", ".env file to load (default ./.env if present)")
	dataFile := flag.String("file", "", "shopping list file")
	theme := flag.String("theme", "", "classic, neon or mono")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Usage = cli.PrintHelp
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *theme != "" {
		cfg.Theme = strings.ToLower(*theme)
	}
	if *debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(2)
	}

	ui.SetTheme(cfg.Theme)
	ui.SetColorForcing(cfg.Color == config.ColorAlways, cfg.Color == config.ColorNever)

	code := cli.Run(args, cli.Options{
		Config: cfg,
		Logger: obs.NewLogger(os.Stderr, cfg.Debug),
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
