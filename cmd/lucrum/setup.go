package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/lucrum/internal/services/browser"
	badgerstore "github.com/ternarybob/lucrum/internal/storage/badger"
)

// runSetup prepares a working installation: creates the data directories,
// writes a starter config file, verifies Chrome can launch, and stores LLM
// API keys in the key/value store so they never need to live in config files
// or the environment.
func runSetup(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	var configFiles configPaths
	fs.Var(&configFiles, "config", "Configuration file path")
	fs.Var(&configFiles, "c", "Configuration file path (shorthand)")
	skipBrowser := fs.Bool("skip-browser", false, "Skip the browser launch check")
	if err := fs.Parse(args); err != nil {
		return err
	}

	config, logger, err := bootstrap(configFiles, 0, "", "")
	if err != nil {
		return err
	}

	if err := config.EnsureDirectories(); err != nil {
		return err
	}
	fmt.Println("Directories created.")

	if len(configFiles) == 0 {
		if _, err := os.Stat("lucrum.toml"); os.IsNotExist(err) {
			data, err := toml.Marshal(config)
			if err != nil {
				return fmt.Errorf("failed to render default config: %w", err)
			}
			if err := os.WriteFile("lucrum.toml", data, 0o644); err != nil {
				return fmt.Errorf("failed to write lucrum.toml: %w", err)
			}
			fmt.Println("Wrote default lucrum.toml.")
		}
	}

	if !*skipBrowser {
		fmt.Println("Checking browser availability...")
		pool := browser.NewPool(config.Browser, logger)
		if err := pool.Init(); err != nil {
			fmt.Printf("Browser check FAILED: %v\n", err)
			fmt.Println("Install Chrome or Chromium before running analyses.")
		} else {
			fmt.Println("Browser check passed.")
			if err := pool.Shutdown(); err != nil {
				logger.Warn().Err(err).Msg("Browser shutdown after probe failed")
			}
		}
	}

	storage, err := badgerstore.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer storage.Close()

	kv := storage.KeyValueStorage()
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	prompts := []struct {
		key         string
		description string
		label       string
	}{
		{"gemini_api_key", "Google Gemini API key", "Gemini API key"},
		{"anthropic_api_key", "Anthropic Claude API key", "Claude API key"},
	}

	for _, p := range prompts {
		fmt.Printf("%s (leave blank to skip): ", p.label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		value := strings.TrimSpace(line)
		if value == "" {
			continue
		}
		if err := kv.Set(ctx, p.key, value, p.description); err != nil {
			return fmt.Errorf("failed to store %s: %w", p.key, err)
		}
		fmt.Printf("Stored %s\n", p.key)
	}

	fmt.Println("Setup complete.")
	return nil
}
