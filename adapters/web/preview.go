package web

import (
	"github.com/khoahotran/devlinks/internal/application/identity"
	"github.com/khoahotran/devlinks/internal/domain/link"
	"github.com/khoahotran/devlinks/internal/domain/profile"
)

type Mode string

const (
	ModeLoading     Mode = "loading"
	ModeLoginPrompt Mode = "login_prompt"
	ModeCard        Mode = "card"
)

// Snapshot is what the loader produced for one identity.
type Snapshot struct {
	Profile *profile.Profile
	Links   []*link.Link
}

type LinkRow struct {
	Label string
	URL   string
	Style PlatformStyle
}

// Card is the public rendition of a profile.
type Card struct {
	AvatarURL string
	FullName  string
	Email     string
	Links     []LinkRow
}

type Preview struct {
	Theme Theme
	Mode  Mode
	Card  *Card
	// ShareURL is set by the handler for the signed-in owner.
	ShareURL string
	// RefreshSeconds drives the auto-refresh of the loading page.
	RefreshSeconds int
}

// BuildPreview picks the view for an identity state. snap is only read in
// the authenticated case and may be nil otherwise.
func BuildPreview(theme Theme, state identity.State, snap *Snapshot) Preview {
	switch {
	case state.Status == identity.StatusLoading:
		return Preview{Theme: theme, Mode: ModeLoading, RefreshSeconds: 2}
	case !state.Authenticated():
		return Preview{Theme: theme, Mode: ModeLoginPrompt}
	}

	if snap == nil {
		snap = &Snapshot{Profile: profile.Empty(state.Identity.Key)}
	}
	return Preview{Theme: theme, Mode: ModeCard, Card: BuildCard(snap)}
}

func BuildCard(snap *Snapshot) *Card {
	if snap == nil {
		snap = &Snapshot{}
	}
	p := snap.Profile
	if p == nil {
		p = &profile.Profile{}
	}
	card := &Card{
		AvatarURL: p.AvatarURL(),
		FullName:  p.FullName(),
		Email:     p.Email,
		Links:     make([]LinkRow, 0, len(snap.Links)),
	}
	for _, l := range snap.Links {
		style := StyleFor(l.Kind())
		card.Links = append(card.Links, LinkRow{Label: linkLabel(l, style), URL: l.URL, Style: style})
	}
	return card
}

// linkLabel prefers the platform name stored on the link.
func linkLabel(l *link.Link, style PlatformStyle) string {
	if l.Platform != "" {
		return l.Platform
	}
	return style.Label
}
