package profile

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxImageDimension = 1024
	// MaxImageBytes bounds what is read from an upload before validation.
	MaxImageBytes = 5 << 20
)

var allowedImageTypes = []string{"image/png", "image/jpeg"}

// PendingImage is an avatar selected in the editor but not uploaded yet.
type PendingImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReadPendingImage reads at most MaxImageBytes from r. Oversized input is
// returned truncated and will fail Check.
func ReadPendingImage(filename string, r io.Reader) (*PendingImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	mt := mimetype.Detect(data)
	return &PendingImage{Filename: filename, ContentType: mt.String(), Data: data}, nil
}

// Check reports whether the image is a PNG or JPEG within the size limits.
func (img *PendingImage) Check() bool {
	if len(img.Data) == 0 || len(img.Data) > MaxImageBytes {
		return false
	}
	if !mimetype.EqualsAny(img.ContentType, allowedImageTypes...) {
		return false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return false
	}
	return cfg.Width <= MaxImageDimension && cfg.Height <= MaxImageDimension
}

// EditBuffer mirrors the stored profile while one editor request is handled.
type EditBuffer struct {
	OwnerID   uuid.UUID
	Fields    Fields
	AvatarURL *string
	Pending   *PendingImage
}

// NewEditBuffer starts a buffer from what is currently stored.
func NewEditBuffer(p *Profile) *EditBuffer {
	return &EditBuffer{
		OwnerID: p.OwnerID,
		Fields: Fields{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
		},
		AvatarURL: p.ImageURL,
	}
}

// Edit replaces the buffered fields and pending image with a submission.
func (b *EditBuffer) Edit(f Fields, pending *PendingImage) {
	b.Fields = f
	b.Pending = pending
}

// Validate checks the buffered fields and the pending image, if any.
func (b *EditBuffer) Validate() FieldErrors {
	errs := Validate(b.Fields)
	if b.Pending != nil && !b.Pending.Check() {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs[FieldImage] = MsgInvalidImage
	}
	return errs
}

// Commit mirrors a successfully written profile back into the buffer.
func (b *EditBuffer) Commit(saved *Profile) {
	b.Fields = Fields{FirstName: saved.FirstName, LastName: saved.LastName, Email: saved.Email}
	b.AvatarURL = saved.ImageURL
	b.Pending = nil
}

// Profile is the record the buffer would write, using avatarURL as the
// image location.
func (b *EditBuffer) Profile(avatarURL *string) *Profile {
	return &Profile{
		OwnerID:   b.OwnerID,
		FirstName: b.Fields.FirstName,
		LastName:  b.Fields.LastName,
		Email:     b.Fields.Email,
		ImageURL:  avatarURL,
	}
}
