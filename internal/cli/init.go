package cli

import (
	"crypto/rand"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvps-vip/showcase/internal/adminauth"
	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/prompt"
)

var tierDescriptions = map[string]string{
	config.TierAPI:      "REST catalog service (source.api_url)",
	config.TierDocument: "MongoDB document store (store.mongo_uri)",
	config.TierMock:     "Embedded sample catalog, always available",
}

var tierOrder = []string{config.TierAPI, config.TierDocument, config.TierMock}

type initStatusJSON struct {
	ConfigFile      string   `json:"config_file"`
	FirstRun        bool     `json:"first_run"`
	Tiers           []string `json:"tiers"`
	AdminConfigured bool     `json:"admin_configured"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Run first-time setup wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		quick, _ := cmd.Flags().GetBool("quick")

		if jsonOutput {
			cfg := config.Get()
			return outJSON(initStatusJSON{
				ConfigFile:      config.ConfigFile(),
				FirstRun:        isFirstRun(),
				Tiers:           cfg.Resolver.Order,
				AdminConfigured: cfg.Admin.PasswordHash != "" && cfg.Admin.JWTSecret != "",
			})
		}
		if quick {
			return quickSetup()
		}
		return interactiveWizard()
	},
}

func init() {
	initCmd.Flags().Bool("quick", false, "Write a config that serves the embedded sample catalog")
}

func isFirstRun() bool {
	_, err := os.Stat(config.ConfigFile())
	return os.IsNotExist(err)
}

func quickSetup() error {
	if !isFirstRun() {
		out("Config already exists at %s\n", config.ConfigFile())
		outln("Run 'showcase init' to change it.")
		return nil
	}
	cfg := config.DefaultConfig()
	cfg.Resolver.Order = []string{config.TierMock}
	if err := saveConfig(cfg); err != nil {
		return err
	}
	if quiet {
		return nil
	}
	out("✓ Wrote %s\n", config.ConfigFile())
	outln("Run 'showcase serve' to serve the sample catalog.")
	return nil
}

func interactiveWizard() error {
	if quiet {
		outln("Run 'showcase init' without --quiet to use the setup wizard")
		return nil
	}

	cfg, err := config.Load("")
	if err != nil {
		cfg = config.DefaultConfig()
	}

	outln()
	outln("  🎬 Welcome to showcase!")
	outln()
	outln("  Serve a movie catalog from a REST service, MongoDB or sample data.")
	outln()

	apiURL, err := prompt.Default.Input(prompt.InputConfig{
		Title:       "Catalog REST endpoint",
		Description: "Leave empty to skip the REST tier",
		Placeholder: "https://api.example.com/catalog",
		Value:       cfg.Source.APIURL,
		Validate:    prompt.ValidateOptionalURL,
	})
	if err != nil {
		return err
	}
	cfg.Source.APIURL = strings.TrimSpace(apiURL)

	mongoURI, err := prompt.Default.Input(prompt.InputConfig{
		Title:       "MongoDB connection string",
		Description: "Leave empty to keep admin edits in memory",
		Placeholder: "mongodb://localhost:27017",
		Value:       cfg.Store.MongoURI,
		Validate:    prompt.ValidateOptionalMongoURI,
	})
	if err != nil {
		return err
	}
	cfg.Store.MongoURI = strings.TrimSpace(mongoURI)

	tiers, err := prompt.Default.MultiSelect(prompt.MultiSelectConfig{
		Title:       "Choose the tiers to resolve from, in order",
		Description: "Space to select, Enter to confirm. The cache is always the last resort.",
		Options:     tierOptions(cfg),
		Validate: func(v []string) error {
			if len(v) == 0 {
				return fmt.Errorf("select at least one tier")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	if len(tiers) == 0 {
		outln("\nNo tiers selected. Nothing was saved.")
		return nil
	}
	cfg.Resolver.Order = orderTiers(tiers)

	adminNow := cfg.Admin.PasswordHash == ""
	setupAdmin, err := prompt.Default.Confirm(prompt.ConfirmConfig{
		Title:   "Set up admin login?",
		Default: adminNow,
	})
	if err != nil {
		return err
	}
	if setupAdmin {
		if err := promptAdmin(&cfg); err != nil {
			return err
		}
	}

	if err := saveConfig(cfg); err != nil {
		return err
	}

	outln()
	out("  ✓ Saved %s\n", config.ConfigFile())
	out("  ✓ Tiers: %s → cache\n", strings.Join(cfg.Resolver.Order, " → "))
	if cfg.Admin.PasswordHash != "" {
		out("  ✓ Admin: %s\n", cfg.Admin.Email)
	}
	outln()
	outln("  Run 'showcase serve' to start the API.")
	return nil
}

func tierOptions(cfg config.Config) []prompt.SelectOption {
	opts := make([]prompt.SelectOption, 0, len(tierOrder))
	for _, tier := range tierOrder {
		opts = append(opts, prompt.SelectOption{
			Label:    tier + ": " + tierDescriptions[tier],
			Value:    tier,
			Selected: slices.Contains(cfg.Resolver.Order, tier),
		})
	}
	return opts
}

// orderTiers puts the selection in canonical priority order regardless of
// the order it was picked in.
func orderTiers(selected []string) []string {
	var out []string
	for _, tier := range tierOrder {
		if slices.Contains(selected, tier) {
			out = append(out, tier)
		}
	}
	return out
}

func promptAdmin(cfg *config.Config) error {
	email, err := prompt.Default.Input(prompt.InputConfig{
		Title:    "Admin email",
		Value:    cfg.Admin.Email,
		Validate: prompt.ValidateEmail,
	})
	if err != nil {
		return err
	}
	password, err := prompt.Default.Input(prompt.InputConfig{
		Title:    "Admin password",
		Password: true,
		Validate: prompt.ValidateMinLength(8),
	})
	if err != nil {
		return err
	}
	hash, err := adminauth.HashPassword(password)
	if err != nil {
		return err
	}
	cfg.Admin.Email = strings.TrimSpace(email)
	cfg.Admin.PasswordHash = hash
	if cfg.Admin.JWTSecret == "" {
		cfg.Admin.JWTSecret = rand.Text()
	}
	return nil
}

func saveConfig(cfg config.Config) error {
	if err := config.Save(cfg, ""); err != nil {
		return err
	}
	config.SetGlobal(cfg)
	return nil
}
