package models

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// ErrInvalid is wrapped by every validation failure in this package.
var ErrInvalid = errors.New("invalid")

// ErrNotFound is returned by repositories for an unknown movie or settings
// record.
var ErrNotFound = errors.New("not found")

type AppMode string

const (
	ModeContent AppMode = "content"
	ModeLinks   AppMode = "links"
)

type FabIcon string

const (
	FabChat FabIcon = "chat"
	FabHelp FabIcon = "help"
	FabInfo FabIcon = "info"
)

type Movie struct {
	ID                string `json:"id" bson:"_id" yaml:"id"`
	Title             string `json:"title" bson:"title" yaml:"title"`
	Summary           string `json:"summary" bson:"summary" yaml:"summary"`
	PosterPath        string `json:"poster_path" bson:"poster_path" yaml:"poster_path"`
	PosterOverrideURL string `json:"poster_override_url,omitempty" bson:"poster_override_url,omitempty" yaml:"poster_override_url,omitempty"`
	VideoOverrideURL  string `json:"video_override_url,omitempty" bson:"video_override_url,omitempty" yaml:"video_override_url,omitempty"`
	BookingURL        string `json:"booking_url,omitempty" bson:"booking_url,omitempty" yaml:"booking_url,omitempty"`
	BookingButtonText string `json:"booking_button_text,omitempty" bson:"booking_button_text,omitempty" yaml:"booking_button_text,omitempty"`
	IsAnimated        bool   `json:"is_animated" bson:"is_animated" yaml:"is_animated"`
	Order             int    `json:"order" bson:"order" yaml:"order"`
}

// Poster returns the override URL when set, otherwise the poster path.
func (m Movie) Poster() string {
	if m.PosterOverrideURL != "" {
		return m.PosterOverrideURL
	}
	return m.PosterPath
}

// Validate checks required fields and URL shapes. Booking URLs may be "#",
// which the site uses as a placeholder link.
func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("movie title is required: %w", ErrInvalid)
	}
	if strings.TrimSpace(m.Summary) == "" {
		return fmt.Errorf("movie summary is required: %w", ErrInvalid)
	}
	for field, raw := range map[string]string{
		"poster_override_url": m.PosterOverrideURL,
		"video_override_url":  m.VideoOverrideURL,
	} {
		if err := checkURL(field, raw); err != nil {
			return err
		}
	}
	if m.BookingURL != "#" {
		if err := checkURL("booking_url", m.BookingURL); err != nil {
			return err
		}
	}
	return nil
}

type Settings struct {
	Announcement        string  `json:"announcement" bson:"announcement" yaml:"announcement"`
	IntroVideoURL       string  `json:"intro_video_url,omitempty" bson:"intro_video_url,omitempty" yaml:"intro_video_url,omitempty"`
	FeaturedMovieID     string  `json:"featured_movie_id,omitempty" bson:"featured_movie_id,omitempty" yaml:"featured_movie_id,omitempty"`
	IsFabEnabled        bool    `json:"is_fab_enabled" bson:"is_fab_enabled" yaml:"is_fab_enabled"`
	FabIcon             FabIcon `json:"fab_icon" bson:"fab_icon" yaml:"fab_icon"`
	MainTitle           string  `json:"main_title" bson:"main_title" yaml:"main_title"`
	Subtitle            string  `json:"subtitle" bson:"subtitle" yaml:"subtitle"`
	HeaderImageURL      string  `json:"header_image_url,omitempty" bson:"header_image_url,omitempty" yaml:"header_image_url,omitempty"`
	AppMode             AppMode `json:"app_mode" bson:"app_mode" yaml:"app_mode"`
	RedirectURL         string  `json:"redirect_url,omitempty" bson:"redirect_url,omitempty" yaml:"redirect_url,omitempty"`
	MaintenanceImageURL string  `json:"maintenance_image_url,omitempty" bson:"maintenance_image_url,omitempty" yaml:"maintenance_image_url,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		FabIcon:   FabChat,
		MainTitle: "Movie World",
		AppMode:   ModeContent,
	}
}

func (s Settings) Validate() error {
	switch s.AppMode {
	case ModeContent, ModeLinks:
	default:
		return fmt.Errorf("unknown app mode %q: %w", s.AppMode, ErrInvalid)
	}
	switch s.FabIcon {
	case FabChat, FabHelp, FabInfo:
	default:
		return fmt.Errorf("unknown fab icon %q: %w", s.FabIcon, ErrInvalid)
	}
	for field, raw := range map[string]string{
		"intro_video_url":       s.IntroVideoURL,
		"header_image_url":      s.HeaderImageURL,
		"maintenance_image_url": s.MaintenanceImageURL,
	} {
		if err := checkURL(field, raw); err != nil {
			return err
		}
	}
	return nil
}

// SettingsPatch is a partial settings update; nil fields are left alone.
type SettingsPatch struct {
	Announcement        *string  `json:"announcement,omitempty"`
	IntroVideoURL       *string  `json:"intro_video_url,omitempty"`
	FeaturedMovieID     *string  `json:"featured_movie_id,omitempty"`
	IsFabEnabled        *bool    `json:"is_fab_enabled,omitempty"`
	FabIcon             *FabIcon `json:"fab_icon,omitempty"`
	MainTitle           *string  `json:"main_title,omitempty"`
	Subtitle            *string  `json:"subtitle,omitempty"`
	HeaderImageURL      *string  `json:"header_image_url,omitempty"`
	AppMode             *AppMode `json:"app_mode,omitempty"`
	RedirectURL         *string  `json:"redirect_url,omitempty"`
	MaintenanceImageURL *string  `json:"maintenance_image_url,omitempty"`
}

// Apply returns s with every non-nil field of p copied over.
func (p SettingsPatch) Apply(s Settings) Settings {
	setString(&s.Announcement, p.Announcement)
	setString(&s.IntroVideoURL, p.IntroVideoURL)
	setString(&s.FeaturedMovieID, p.FeaturedMovieID)
	setString(&s.MainTitle, p.MainTitle)
	setString(&s.Subtitle, p.Subtitle)
	setString(&s.HeaderImageURL, p.HeaderImageURL)
	setString(&s.RedirectURL, p.RedirectURL)
	setString(&s.MaintenanceImageURL, p.MaintenanceImageURL)
	if p.IsFabEnabled != nil {
		s.IsFabEnabled = *p.IsFabEnabled
	}
	if p.FabIcon != nil {
		s.FabIcon = *p.FabIcon
	}
	if p.AppMode != nil {
		s.AppMode = *p.AppMode
	}
	return s
}

// IsEmpty reports whether the patch changes nothing.
func (p SettingsPatch) IsEmpty() bool {
	return p == SettingsPatch{}
}

// CatalogVersion is the catalog document schema version this build writes.
const CatalogVersion = 1

type Catalog struct {
	Version   int       `json:"version" yaml:"version"`
	Movies    []Movie   `json:"movies" yaml:"movies"`
	Settings  Settings  `json:"settings" yaml:"settings"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

// SortMovies orders movies by Order, then by ID for equal orders.
func (c *Catalog) SortMovies() {
	sort.SliceStable(c.Movies, func(i, j int) bool {
		if c.Movies[i].Order != c.Movies[j].Order {
			return c.Movies[i].Order < c.Movies[j].Order
		}
		return c.Movies[i].ID < c.Movies[j].ID
	})
}

func (c Catalog) Movie(id string) (Movie, bool) {
	for _, m := range c.Movies {
		if m.ID == id {
			return m, true
		}
	}
	return Movie{}, false
}

// Featured returns the movie named by Settings.FeaturedMovieID, if it still
// exists in the catalog.
func (c Catalog) Featured() (Movie, bool) {
	if c.Settings.FeaturedMovieID == "" {
		return Movie{}, false
	}
	return c.Movie(c.Settings.FeaturedMovieID)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func checkURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL: %w", field, ErrInvalid)
	}
	return nil
}
