package models

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestMovieValidate(t *testing.T) {
	base := Movie{ID: "1", Title: "Inception", Summary: "Dreams."}
	tests := []struct {
		name    string
		mutate  func(m *Movie)
		wantErr bool
	}{
		{"valid", func(m *Movie) {}, false},
		{"missing title", func(m *Movie) { m.Title = "  " }, true},
		{"missing summary", func(m *Movie) { m.Summary = "" }, true},
		{"placeholder booking url", func(m *Movie) { m.BookingURL = "#" }, false},
		{"absolute booking url", func(m *Movie) { m.BookingURL = "https://tickets.example.com/1" }, false},
		{"relative booking url", func(m *Movie) { m.BookingURL = "/book" }, true},
		{"ftp poster override", func(m *Movie) { m.PosterOverrideURL = "ftp://x/y.jpg" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			tt.mutate(&m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestMoviePoster(t *testing.T) {
	m := Movie{PosterPath: "https://a/p.jpg"}
	if got := m.Poster(); got != "https://a/p.jpg" {
		t.Errorf("Poster() = %q", got)
	}
	m.PosterOverrideURL = "https://b/o.jpg"
	if got := m.Poster(); got != "https://b/o.jpg" {
		t.Errorf("Poster() with override = %q", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	s.AppMode = "kiosk"
	if err := s.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown mode, got %v", err)
	}

	s = DefaultSettings()
	s.FabIcon = "phone"
	if err := s.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown fab icon, got %v", err)
	}

	s = DefaultSettings()
	s.IntroVideoURL = "not a url"
	if err := s.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for bad intro url, got %v", err)
	}
}

func TestSettingsPatchApply(t *testing.T) {
	s := DefaultSettings()
	s.Subtitle = "keep me"

	mode := ModeLinks
	enabled := true
	patch := SettingsPatch{
		Announcement: strPtr("Opening night!"),
		AppMode:      &mode,
		IsFabEnabled: &enabled,
	}
	got := patch.Apply(s)

	if got.Announcement != "Opening night!" {
		t.Errorf("Announcement = %q", got.Announcement)
	}
	if got.AppMode != ModeLinks {
		t.Errorf("AppMode = %q", got.AppMode)
	}
	if !got.IsFabEnabled {
		t.Error("IsFabEnabled not applied")
	}
	if got.Subtitle != "keep me" {
		t.Errorf("Subtitle changed to %q", got.Subtitle)
	}
	if s.Announcement != "" {
		t.Error("Apply mutated its input")
	}
}

func TestSettingsPatchIsEmpty(t *testing.T) {
	if !(SettingsPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (SettingsPatch{Subtitle: strPtr("")}).IsEmpty() {
		t.Error("patch clearing subtitle should not be empty")
	}
}

func TestCatalogSortMovies(t *testing.T) {
	c := Catalog{Movies: []Movie{
		{ID: "b", Order: 1},
		{ID: "c", Order: 0},
		{ID: "a", Order: 1},
	}}
	c.SortMovies()
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if c.Movies[i].ID != id {
			t.Fatalf("position %d: got %q, want %q", i, c.Movies[i].ID, id)
		}
	}
}

func TestCatalogFeatured(t *testing.T) {
	c := Catalog{Movies: []Movie{{ID: "1"}, {ID: "2"}}}
	if _, ok := c.Featured(); ok {
		t.Error("no featured id should yield no movie")
	}
	c.Settings.FeaturedMovieID = "2"
	m, ok := c.Featured()
	if !ok || m.ID != "2" {
		t.Errorf("Featured() = %+v, %v", m, ok)
	}
	c.Settings.FeaturedMovieID = "99"
	if _, ok := c.Featured(); ok {
		t.Error("dangling featured id should yield no movie")
	}
}

func TestResolveLanding(t *testing.T) {
	tests := []struct {
		name      string
		settings  Settings
		introSeen bool
		want      Landing
	}{
		{
			name:     "content mode",
			settings: Settings{AppMode: ModeContent},
			want:     Landing{Kind: LandingContent},
		},
		{
			name:     "intro first",
			settings: Settings{AppMode: ModeLinks, IntroVideoURL: "https://v/intro.mp4"},
			want:     Landing{Kind: LandingIntro, URL: "https://v/intro.mp4"},
		},
		{
			name:      "intro already seen",
			settings:  Settings{AppMode: ModeContent, IntroVideoURL: "https://v/intro.mp4"},
			introSeen: true,
			want:      Landing{Kind: LandingContent},
		},
		{
			name:     "maintenance beats redirect",
			settings: Settings{AppMode: ModeLinks, MaintenanceImageURL: "https://i/m.png", RedirectURL: "https://x.com"},
			want:     Landing{Kind: LandingMaintenance, URL: "https://i/m.png"},
		},
		{
			name:     "redirect",
			settings: Settings{AppMode: ModeLinks, RedirectURL: "https://x.com/promo"},
			want:     Landing{Kind: LandingRedirect, URL: "https://x.com/promo"},
		},
		{
			name:     "bad redirect is unavailable",
			settings: Settings{AppMode: ModeLinks, RedirectURL: "not-a-url"},
			want:     Landing{Kind: LandingUnavailable},
		},
		{
			name:     "links mode without targets",
			settings: Settings{AppMode: ModeLinks},
			want:     Landing{Kind: LandingUnavailable},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLanding(tt.settings, tt.introSeen); got != tt.want {
				t.Errorf("ResolveLanding() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMockCatalog(t *testing.T) {
	c := MockCatalog()
	if len(c.Movies) != 4 {
		t.Fatalf("expected 4 mock movies, got %d", len(c.Movies))
	}
	if c.Movies[0].Title != "Inception" {
		t.Errorf("first movie = %q, want Inception", c.Movies[0].Title)
	}
	for _, m := range c.Movies {
		if err := m.Validate(); err != nil {
			t.Errorf("mock movie %s invalid: %v", m.ID, err)
		}
	}
	if err := c.Settings.Validate(); err != nil {
		t.Errorf("mock settings invalid: %v", err)
	}
	f, ok := c.Featured()
	if !ok || f.Title != "Dune: Part Two" {
		t.Errorf("featured = %+v, %v", f, ok)
	}
}

func TestParseCatalogYAML_DefaultsSettings(t *testing.T) {
	c, err := ParseCatalogYAML([]byte("version: 7\nmovies:\n  - id: x\n    title: T\n    summary: S\n"))
	if err != nil {
		t.Fatalf("ParseCatalogYAML error: %v", err)
	}
	if c.Version != 7 {
		t.Errorf("Version = %d", c.Version)
	}
	if c.Settings.AppMode != ModeContent {
		t.Errorf("expected default settings, got %+v", c.Settings)
	}
}

func TestParseCatalogYAML_Invalid(t *testing.T) {
	if _, err := ParseCatalogYAML([]byte("movies: [oops")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
