package web

import "github.com/khoahotran/devlinks/internal/domain/link"

// PlatformStyle is how one platform's link row is drawn.
type PlatformStyle struct {
	Label      string
	Background string
	Foreground string
	Icon       string
}

var platformStyles = map[link.Platform]PlatformStyle{
	link.PlatformGitHub:   {Label: "GitHub", Background: "#1A1A1A", Foreground: "#FFFFFF", Icon: "/assets/github.svg"},
	link.PlatformLinkedIn: {Label: "LinkedIn", Background: "#2D68FF", Foreground: "#FFFFFF", Icon: "/assets/linkedin.svg"},
	link.PlatformYouTube:  {Label: "YouTube", Background: "#EE3939", Foreground: "#FFFFFF", Icon: "/assets/youtube.svg"},
	link.PlatformFacebook: {Label: "Facebook", Background: "#2442AC", Foreground: "#FFFFFF", Icon: "/assets/facebook.svg"},
	link.PlatformOther:    {Label: "Other", Background: "#333333", Foreground: "#FFFFFF", Icon: "/assets/link.svg"},
}

// StyleFor never fails; variants without an entry get the Other style.
func StyleFor(p link.Platform) PlatformStyle {
	if s, ok := platformStyles[p]; ok {
		return s
	}
	return platformStyles[link.PlatformOther]
}
