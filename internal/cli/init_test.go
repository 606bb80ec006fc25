package cli

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mvps-vip/showcase/internal/config"
	"github.com/mvps-vip/showcase/internal/prompt"
)

func TestInteractiveWizard_SavesConfig(t *testing.T) {
	isolate(t, config.DefaultConfig())
	setFlags(t, flagState{})
	buf := captureOutput(t)

	mock := &prompt.Mock{
		InputFunc: func(cfg prompt.InputConfig) (string, error) {
			switch cfg.Title {
			case "Catalog REST endpoint":
				return " https://api.example.com/catalog ", nil
			case "MongoDB connection string":
				return "mongodb://localhost:27017", nil
			case "Admin email":
				return "admin@example.com", nil
			case "Admin password":
				return "correct horse", nil
			}
			t.Errorf("unexpected prompt %q", cfg.Title)
			return "", nil
		},
		MultiSelectFunc: func(cfg prompt.MultiSelectConfig) ([]string, error) {
			if len(cfg.Options) != 3 {
				t.Errorf("expected 3 tier options, got %d", len(cfg.Options))
			}
			return []string{config.TierMock, config.TierAPI}, nil
		},
		ConfirmFunc: func(cfg prompt.ConfirmConfig) (bool, error) {
			if !cfg.Default {
				t.Error("admin setup should default to yes when no hash is configured")
			}
			return true, nil
		},
	}
	useMockPrompter(t, mock)

	if err := interactiveWizard(); err != nil {
		t.Fatalf("interactiveWizard() error: %v", err)
	}

	if len(mock.InputCalls) != 4 || !mock.InputCalls[3].Password {
		t.Errorf("expected 4 inputs ending with a masked password, got %+v", mock.InputCalls)
	}

	saved, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if saved.Source.APIURL != "https://api.example.com/catalog" {
		t.Errorf("api_url = %q", saved.Source.APIURL)
	}
	if saved.Store.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("mongo_uri = %q", saved.Store.MongoURI)
	}
	if want := []string{config.TierAPI, config.TierMock}; !reflect.DeepEqual(saved.Resolver.Order, want) {
		t.Errorf("order = %v, want %v", saved.Resolver.Order, want)
	}
	if saved.Admin.Email != "admin@example.com" || saved.Admin.JWTSecret == "" {
		t.Errorf("admin = %+v", saved.Admin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(saved.Admin.PasswordHash), []byte("correct horse")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
	if strings.Contains(buf.String(), "correct horse") {
		t.Error("password must not be echoed")
	}
	if !strings.Contains(buf.String(), "api → mock → cache") {
		t.Errorf("summary missing tier chain:\n%s", buf.String())
	}
}

func TestInteractiveWizard_SkipAdmin(t *testing.T) {
	isolate(t, config.DefaultConfig())
	setFlags(t, flagState{})
	captureOutput(t)

	mock := &prompt.Mock{
		MultiSelectFunc: func(prompt.MultiSelectConfig) ([]string, error) {
			return []string{config.TierDocument}, nil
		},
	}
	useMockPrompter(t, mock)

	if err := interactiveWizard(); err != nil {
		t.Fatalf("interactiveWizard() error: %v", err)
	}
	if len(mock.InputCalls) != 2 {
		t.Errorf("expected only endpoint prompts, got %d", len(mock.InputCalls))
	}
	saved, _ := config.Load("")
	if saved.Admin.PasswordHash != "" {
		t.Error("admin should not be configured")
	}
}

func TestInteractiveWizard_PromptError(t *testing.T) {
	isolate(t, config.DefaultConfig())
	setFlags(t, flagState{})
	captureOutput(t)
	errAbort := errors.New("user aborted")
	useMockPrompter(t, &prompt.Mock{
		InputFunc: func(prompt.InputConfig) (string, error) { return "", errAbort },
	})

	if err := interactiveWizard(); !errors.Is(err, errAbort) {
		t.Errorf("expected abort error, got %v", err)
	}
	if !isFirstRun() {
		t.Error("nothing should be saved after an aborted wizard")
	}
}

func TestQuickSetup(t *testing.T) {
	isolate(t, config.DefaultConfig())
	setFlags(t, flagState{})
	buf := captureOutput(t)

	if err := quickSetup(); err != nil {
		t.Fatalf("quickSetup() error: %v", err)
	}
	saved, _ := config.Load("")
	if !reflect.DeepEqual(saved.Resolver.Order, []string{config.TierMock}) {
		t.Errorf("order = %v", saved.Resolver.Order)
	}
	if !strings.Contains(buf.String(), "showcase serve") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	if err := quickSetup(); err != nil {
		t.Fatalf("second quickSetup() error: %v", err)
	}
	if !strings.Contains(buf.String(), "already exists") {
		t.Errorf("second run output = %q", buf.String())
	}
}

func TestInitCmd_JSONStatus(t *testing.T) {
	isolate(t, config.DefaultConfig())
	setFlags(t, flagState{json: true})
	buf := captureOutput(t)

	if err := runCmd(t, initCmd); err != nil {
		t.Fatalf("init error: %v", err)
	}
	var st initStatusJSON
	if err := json.Unmarshal(buf.Bytes(), &st); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !st.FirstRun || st.AdminConfigured || len(st.Tiers) != 2 {
		t.Errorf("status = %+v", st)
	}
}

func TestOrderTiers(t *testing.T) {
	got := orderTiers([]string{"mock", "document", "api"})
	if want := []string{"api", "document", "mock"}; !reflect.DeepEqual(got, want) {
		t.Errorf("orderTiers() = %v, want %v", got, want)
	}
}
