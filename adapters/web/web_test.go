package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devlinks/internal/application/identity"
	"github.com/khoahotran/devlinks/internal/domain/link"
	"github.com/khoahotran/devlinks/internal/domain/profile"
)

func signedIn() identity.State {
	return identity.State{Status: identity.StatusAuthenticated, Identity: &identity.Identity{Key: uuid.New()}}
}

func render(t *testing.T, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, MustTemplates().ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func TestBuildPreview_Modes(t *testing.T) {
	theme := DefaultTheme()

	p := BuildPreview(theme, identity.State{Status: identity.StatusLoading}, nil)
	assert.Equal(t, ModeLoading, p.Mode)
	assert.Nil(t, p.Card)

	p = BuildPreview(theme, identity.State{Status: identity.StatusAnonymous}, nil)
	assert.Equal(t, ModeLoginPrompt, p.Mode)

	p = BuildPreview(theme, identity.State{Status: identity.StatusFailed}, nil)
	assert.Equal(t, ModeLoginPrompt, p.Mode)

	p = BuildPreview(theme, signedIn(), nil)
	assert.Equal(t, ModeCard, p.Mode)
	require.NotNil(t, p.Card)
	assert.Empty(t, p.Card.Links)
}

func TestBuildCard_NameAndEmailVisibility(t *testing.T) {
	tests := []struct {
		name      string
		p         profile.Profile
		wantName  string
		wantEmail string
	}{
		{"both names", profile.Profile{FirstName: "Ben", LastName: "Wright", Email: "ben@example.com"}, "Ben Wright", "ben@example.com"},
		{"only first name", profile.Profile{FirstName: "Ben"}, "", ""},
		{"only last name", profile.Profile{LastName: "Wright", Email: "b@w.io"}, "", "b@w.io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(&Snapshot{Profile: &tt.p})
			assert.Equal(t, tt.wantName, card.FullName)
			assert.Equal(t, tt.wantEmail, card.Email)

			html := render(t, TemplateShare, Preview{Theme: DefaultTheme(), Mode: ModeCard, Card: card})
			assert.Equal(t, tt.wantName != "", strings.Contains(html, `data-testid="full-name"`))
			assert.Equal(t, tt.wantEmail != "", strings.Contains(html, `data-testid="email"`))
			assert.Contains(t, html, `data-testid="avatar-placeholder"`)
		})
	}
}

func TestPreviewTemplate_LinkRows(t *testing.T) {
	owner := uuid.New()
	avatar := "https://res.cloudinary.com/demo/image/upload/profile_images/x.png"
	snap := &Snapshot{
		Profile: &profile.Profile{OwnerID: owner, FirstName: "Ben", LastName: "Wright", ImageURL: &avatar},
		Links: []*link.Link{
			{ID: "1", OwnerID: owner, Platform: "GitHub", URL: "https://github.com/ben"},
			{ID: "2", OwnerID: owner, Platform: "LinkedIn", URL: "https://linkedin.com/in/ben"},
			{ID: "3", OwnerID: owner, Platform: "Mastodon", URL: "https://mastodon.social/@ben"},
		},
	}

	p := BuildPreview(DefaultTheme(), signedIn(), snap)
	p.ShareURL = "http://localhost:8080/p/" + owner.String()
	html := render(t, TemplatePreview, p)

	assert.Equal(t, 3, strings.Count(html, `data-testid="link-row"`))
	assert.Equal(t, 3, strings.Count(html, `target="_blank" rel="noopener noreferrer"`))
	assert.Contains(t, html, `href="https://github.com/ben"`)
	assert.Contains(t, html, `href="https://mastodon.social/@ben"`)
	assert.Contains(t, html, "background: #1A1A1A")
	assert.Contains(t, html, "background: #2D68FF")
	assert.Contains(t, html, "background: #333333")
	assert.Contains(t, html, avatar)
	assert.Contains(t, html, `data-testid="share-link"`)
	assert.NotContains(t, html, `data-testid="login-prompt"`)

	assert.Equal(t, StyleFor(link.PlatformOther), p.Card.Links[2].Style)
	assert.Equal(t, "Mastodon", p.Card.Links[2].Label)
}

func TestPreviewTemplate_LoginPromptAndLoading(t *testing.T) {
	html := render(t, TemplatePreview, BuildPreview(DefaultTheme(), identity.State{Status: identity.StatusAnonymous}, nil))
	assert.Contains(t, html, "Please log in to continue.")
	assert.Contains(t, html, `href="/login"`)
	assert.Contains(t, html, `data-testid="spinner"`)
	assert.NotContains(t, html, `data-testid="profile-card"`)

	html = render(t, TemplatePreview, BuildPreview(DefaultTheme(), identity.State{Status: identity.StatusLoading}, nil))
	assert.Contains(t, html, `http-equiv="refresh"`)
	assert.Contains(t, html, `data-testid="spinner"`)
	assert.NotContains(t, html, "Please log in to continue.")
}

func TestPreviewTemplate_UnsafeURLIsNeutralised(t *testing.T) {
	snap := &Snapshot{
		Profile: &profile.Profile{},
		Links:   []*link.Link{{ID: "1", Platform: "Other", URL: "javascript:alert(1)"}},
	}
	html := render(t, TemplatePreview, BuildPreview(DefaultTheme(), signedIn(), snap))
	assert.NotContains(t, html, "javascript:alert")
}

func TestStyleFor_EveryVariant(t *testing.T) {
	for _, p := range link.Platforms() {
		s := StyleFor(p)
		assert.Equal(t, p.String(), s.Label)
		assert.NotEmpty(t, s.Background)
	}
	assert.Equal(t, StyleFor(link.PlatformOther), StyleFor(link.Platform(99)))
}

func TestEditorTemplate_KeepsRejectedInput(t *testing.T) {
	buf := profile.NewEditBuffer(profile.Empty(uuid.New()))
	buf.Edit(profile.Fields{FirstName: "", LastName: "Wright", Email: "not-an-email"}, nil)

	page := NewEditorPage(DefaultTheme(), "ben@example.com", buf, nil)
	page.Errors = buf.Validate()
	html := render(t, TemplateEditor, page)

	assert.Contains(t, html, `value="Wright"`)
	assert.Contains(t, html, `value="not-an-email"`)
	assert.Contains(t, html, `data-testid="error-firstName">Can&#39;t be empty`)
	assert.Contains(t, html, "Invalid email address")
	assert.NotContains(t, html, `data-testid="error-lastName"`)
	assert.NotContains(t, html, `data-testid="notice"`)

	page.Errors = nil
	page.Failed()
	html = render(t, TemplateEditor, page)
	assert.Contains(t, html, NoticeFailed)

	page.Succeeded()
	html = render(t, TemplateEditor, page)
	assert.Contains(t, html, NoticeSaved)
}

func TestEditorAndPreview_ShareLinkLabels(t *testing.T) {
	owner := uuid.New()
	links := []*link.Link{
		{ID: "1", OwnerID: owner, Platform: "Mastodon", URL: "https://mastodon.social/@ben"},
		{ID: "2", OwnerID: owner, Platform: "", URL: "https://example.com"},
		{ID: "3", OwnerID: owner, Platform: "GitHub", URL: "https://github.com/ben"},
	}
	buf := profile.NewEditBuffer(profile.Empty(owner))

	page := NewEditorPage(DefaultTheme(), "ben@example.com", buf, links)
	card := BuildCard(&Snapshot{Profile: &profile.Profile{}, Links: links})

	require.Len(t, page.Links, 3)
	require.Len(t, card.Links, 3)
	for i := range links {
		assert.Equal(t, card.Links[i].Label, page.Links[i].Label)
	}
	assert.Equal(t, "Mastodon", page.Links[0].Label)
	assert.Equal(t, StyleFor(link.PlatformOther).Label, page.Links[1].Label)
}
