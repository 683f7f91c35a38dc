// -----------------------------------------------------------------------
// Last Modified: Wednesday, 5th August 2026 8:31:02 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

const usage = `Lucrum - stock analysis agent

Usage:
  lucrum [command] [flags]

Commands:
  serve      Run the HTTP API server (default)
  analyze    Run a full analysis from the command line
  quick      Print price and fundamentals for one ticker
  monitor    Watch a ticker list and alert on price moves
  config     Print the resolved configuration
  setup      Initialize directories, config and API keys
  version    Print version information

Run 'lucrum <command> -h' for command-specific flags.
`

func main() {
	args := os.Args[1:]

	command := "serve"
	if len(args) > 0 {
		switch args[0] {
		case "serve", "analyze", "quick", "monitor", "config", "setup", "version":
			command = args[0]
			args = args[1:]
		case "help", "-h", "--help":
			fmt.Print(usage)
			return
		default:
			// No command given, treat everything as serve flags
		}
	}

	var err error
	switch command {
	case "serve":
		err = runServe(args)
	case "analyze":
		err = runAnalyze(args)
	case "quick":
		err = runQuick(args)
	case "monitor":
		err = runMonitor(args)
	case "config":
		err = runConfig(args)
	case "setup":
		err = runSetup(args)
	case "version":
		common.LoadVersionFromFile()
		fmt.Printf("Lucrum version %s\n", common.GetFullVersion())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap runs the startup sequence shared by every command:
// load config (defaults -> files -> env), apply flag overrides,
// initialize the logger, print the banner.
func bootstrap(configFiles configPaths, port int, host string, logLevel string) (*common.Config, arbor.ILogger, error) {
	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("lucrum.toml"); err == nil {
			configFiles = append(configFiles, "lucrum.toml")
		} else if _, err := os.Stat("deployments/local/lucrum.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/lucrum.toml")
		}
	}

	config, err := common.LoadFromFiles(nil, configFiles...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	common.ApplyFlagOverrides(config, port, host, logLevel)

	logger := common.InitLogger(config)
	common.PrintBanner(common.LoadVersionFromFile())

	logger.Info().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Str("log_file", common.GetLogFilePath(logger)).
		Msg("Configuration loaded")

	return config, logger, nil
}
