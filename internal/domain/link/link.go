package link

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Collection is the document collection holding link records.
const Collection = "links"

// OwnerField is the document field links are filtered on.
const OwnerField = "userId"

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrInvalidURL   = errors.New("url must be an absolute http or https address")
)

type Platform int

const (
	PlatformOther Platform = iota
	PlatformGitHub
	PlatformLinkedIn
	PlatformYouTube
	PlatformFacebook
)

var platformNames = map[Platform]string{
	PlatformGitHub:   "GitHub",
	PlatformLinkedIn: "LinkedIn",
	PlatformYouTube:  "YouTube",
	PlatformFacebook: "Facebook",
	PlatformOther:    "Other",
}

// Platforms lists every variant in display order.
func Platforms() []Platform {
	return []Platform{PlatformGitHub, PlatformLinkedIn, PlatformYouTube, PlatformFacebook, PlatformOther}
}

func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return platformNames[PlatformOther]
}

// ParsePlatform maps a stored label to its variant. Matching ignores case;
// anything unrecognised is PlatformOther.
func ParsePlatform(label string) Platform {
	for p, name := range platformNames {
		if strings.EqualFold(strings.TrimSpace(label), name) {
			return p
		}
	}
	return PlatformOther
}

type Link struct {
	ID       string    `json:"-"`
	OwnerID  uuid.UUID `json:"-"`
	Platform string    `json:"platform"`
	URL      string    `json:"url"`
}

// Kind is the closed platform variant of the stored label.
func (l *Link) Kind() Platform {
	return ParsePlatform(l.Platform)
}

func (l *Link) Validate() error {
	u, err := url.Parse(l.URL)
	if err != nil || u.Host == "" {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	return nil
}

type Repository interface {
	// ListByOwner returns links in the store's retrieval order.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Link, error)
	Save(ctx context.Context, link *Link) error
	FindByID(ctx context.Context, id string) (*Link, error)
	Delete(ctx context.Context, id string) error
}
