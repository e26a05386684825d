package web

import (
	"github.com/khoahotran/devlinks/internal/domain/link"
	"github.com/khoahotran/devlinks/internal/domain/profile"
)

const (
	NoticeSaved  = "Profile updated successfully!"
	NoticeFailed = "Failed to update profile."
)

type NoticeKind string

const (
	NoticeNone    NoticeKind = ""
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

type PlatformOption struct {
	Value string
	Style PlatformStyle
}

type EditorLink struct {
	ID    string
	Label string
	URL   string
	Style PlatformStyle
}

// EditorPage is the model of the editor form. Field values come from the
// edit buffer so rejected input is shown again.
type EditorPage struct {
	Theme      Theme
	Email      string
	Fields     profile.Fields
	AvatarURL  string
	Errors     profile.FieldErrors
	Notice     string
	NoticeKind NoticeKind
	Links      []EditorLink
	LinkError  string
	Platforms  []PlatformOption
	Views      int64
	ShareURL   string
	Preview    *Card
}

func NewEditorPage(theme Theme, accountEmail string, buf *profile.EditBuffer, links []*link.Link) *EditorPage {
	page := &EditorPage{
		Theme:     theme,
		Email:     accountEmail,
		Fields:    buf.Fields,
		Links:     make([]EditorLink, 0, len(links)),
		Platforms: platformOptions(),
	}
	if buf.AvatarURL != nil {
		page.AvatarURL = *buf.AvatarURL
	}
	for _, l := range links {
		style := StyleFor(l.Kind())
		page.Links = append(page.Links, EditorLink{ID: l.ID, Label: linkLabel(l, style), URL: l.URL, Style: style})
	}
	page.Preview = BuildCard(&Snapshot{Profile: buf.Profile(buf.AvatarURL), Links: links})
	return page
}

func (p *EditorPage) Succeeded() {
	p.Notice, p.NoticeKind = NoticeSaved, NoticeSuccess
}

func (p *EditorPage) Failed() {
	p.Notice, p.NoticeKind = NoticeFailed, NoticeError
}

func platformOptions() []PlatformOption {
	opts := make([]PlatformOption, 0, len(link.Platforms()))
	for _, pl := range link.Platforms() {
		opts = append(opts, PlatformOption{Value: pl.String(), Style: StyleFor(pl)})
	}
	return opts
}

// AuthPage is the model of the login and signup forms.
type AuthPage struct {
	Theme  Theme
	Email  string
	Error  string
	Errors map[string]string
	Next   string
}
