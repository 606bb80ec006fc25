package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/display"
	"github.com/mvps-vip/showcase/internal/prompt"
)

const redacted = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
}

type configShowJSON struct {
	config.Config
	Path string `json:"path"`
}

// redactSecrets masks credentials before the config is printed.
func redactSecrets(cfg config.Config) config.Config {
	for _, s := range []*string{&cfg.Source.APIToken, &cfg.Admin.PasswordHash, &cfg.Admin.JWTSecret, &cfg.Cache.RedisPassword} {
		if *s != "" {
			*s = redacted
		}
	}
	if cfg.Store.MongoURI != "" {
		cfg.Store.MongoURI = redactURI(cfg.Store.MongoURI)
	}
	return cfg
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := redactSecrets(config.Get())
		cfgPath := config.ConfigFile()

		if jsonOutput {
			return outJSON(configShowJSON{Config: cfg, Path: cfgPath})
		}
		if quiet {
			outln(cfgPath)
			return nil
		}

		out("Config: %s\n\n", cfgPath)
		return toml.NewEncoder(outWriter).Encode(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show directory paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		showCache, _ := cmd.Flags().GetBool("cache")
		showData, _ := cmd.Flags().GetBool("data")

		switch {
		case showCache && jsonOutput:
			return outJSON(map[string]string{"cache_dir": config.CacheDir()})
		case showData && jsonOutput:
			return outJSON(map[string]string{"data_dir": config.DataDir()})
		case jsonOutput:
			return outJSON(map[string]string{
				"config_dir":  config.ConfigDir(),
				"config_file": config.ConfigFile(),
				"cache_dir":   config.CacheDir(),
				"data_dir":    config.DataDir(),
			})
		case showCache:
			outln(config.CacheDir())
		case showData:
			outln(config.DataDir())
		case quiet:
			outln(config.ConfigDir())
		default:
			out("Config dir:    %s\n", config.ConfigDir())
			out("Config file:   %s\n", config.ConfigFile())
			out("Cache dir:     %s\n", config.CacheDir())
			out("Data dir:      %s\n", config.DataDir())
		}
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm && !jsonOutput {
			ok, err := prompt.Default.Confirm(prompt.ConfirmConfig{
				Title:       "Reset configuration to defaults?",
				Description: "Admin credentials in the config file are removed too.",
			})
			if err != nil {
				return err
			}
			if !ok {
				outln("Reset cancelled")
				return nil
			}
		}

		cfgPath := config.ConfigFile()
		if err := os.Remove(cfgPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("resetting config: %w", err)
		}
		if _, err := config.Reload(); err != nil {
			return err
		}

		if jsonOutput {
			return outJSON(display.ActionResultJSON{
				Success: true,
				Message: "Configuration reset to defaults",
				Path:    cfgPath,
			})
		}
		outln("✓ Configuration reset to defaults")
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath := config.ConfigFile()
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			if err := config.Save(config.DefaultConfig(), cfgPath); err != nil {
				return err
			}
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}
		c := exec.CommandContext(cmd.Context(), editor, cfgPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	configPathCmd.Flags().BoolP("cache", "c", false, "Show cache directory")
	configPathCmd.Flags().BoolP("data", "d", false, "Show data directory")
	configResetCmd.Flags().BoolP("confirm", "y", false, "Skip confirmation")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configEditCmd)
}
