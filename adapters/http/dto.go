package http

import (
	"github.com/khoahotran/devlinks/internal/domain/link"
	"github.com/khoahotran/devlinks/internal/domain/profile"
)

// Profile DTOs
type ProfileDTO struct {
	OwnerID   string    `json:"owner_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	ImageURL  *string   `json:"image_url"`
	Links     []LinkDTO `json:"links,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" form:"firstName"`
	LastName  string `json:"last_name" form:"lastName"`
	Email     string `json:"email" form:"email"`
}

func (req *UpdateProfileRequest) ToFields() profile.Fields {
	return profile.Fields{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}
}

func ToProfileDTO(p *profile.Profile, links []*link.Link) ProfileDTO {
	dto := ProfileDTO{
		OwnerID:   p.OwnerID.String(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		ImageURL:  p.ImageURL,
	}
	if links != nil {
		dto.Links = ToLinkDTOs(links)
	}
	return dto
}

// Link DTOs
type LinkDTO struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type CreateLinkRequest struct {
	Platform string `json:"platform" form:"platform" binding:"required"`
	URL      string `json:"url" form:"url" binding:"required"`
}

func ToLinkDTO(l *link.Link) LinkDTO {
	return LinkDTO{ID: l.ID, Platform: l.Platform, URL: l.URL}
}

func ToLinkDTOs(links []*link.Link) []LinkDTO {
	dtos := make([]LinkDTO, len(links))
	for i, l := range links {
		dtos[i] = ToLinkDTO(l)
	}
	return dtos
}

// Auth DTOs
type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type signupRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}
