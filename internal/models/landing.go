package models

import "net/url"

type LandingKind string

const (
	LandingIntro       LandingKind = "intro"
	LandingContent     LandingKind = "content"
	LandingMaintenance LandingKind = "maintenance"
	LandingRedirect    LandingKind = "redirect"
	LandingUnavailable LandingKind = "unavailable"
)

// Landing describes what the front page shows for a given settings document.
type Landing struct {
	Kind LandingKind `json:"kind"`
	URL  string      `json:"url,omitempty"`
}

// ResolveLanding picks the front page view. The intro video always plays
// first unless introSeen is set. In links mode a maintenance image wins over
// a redirect, and an unparseable redirect falls through to "unavailable".
func ResolveLanding(s Settings, introSeen bool) Landing {
	if s.IntroVideoURL != "" && !introSeen {
		return Landing{Kind: LandingIntro, URL: s.IntroVideoURL}
	}
	if s.AppMode != ModeLinks {
		return Landing{Kind: LandingContent}
	}
	if s.MaintenanceImageURL != "" {
		return Landing{Kind: LandingMaintenance, URL: s.MaintenanceImageURL}
	}
	if s.RedirectURL != "" {
		if u, err := url.Parse(s.RedirectURL); err == nil && u.Scheme != "" && u.Host != "" {
			return Landing{Kind: LandingRedirect, URL: s.RedirectURL}
		}
	}
	return Landing{Kind: LandingUnavailable}
}
