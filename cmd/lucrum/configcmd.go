package main

import (
	"flag"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// runConfig prints the fully resolved configuration as TOML with API keys
// masked.
func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	var configFiles configPaths
	fs.Var(&configFiles, "config", "Configuration file path")
	fs.Var(&configFiles, "c", "Configuration file path (shorthand)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	config, _, err := bootstrap(configFiles, 0, "", "")
	if err != nil {
		return err
	}

	masked := *config
	masked.Gemini.APIKey = maskKey(config.Gemini.APIKey)
	masked.Claude.APIKey = maskKey(config.Claude.APIKey)

	out, err := toml.Marshal(&masked)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
