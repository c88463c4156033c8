package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
)

// BusinessDTO is the transport shape of a business profile.
type BusinessDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	LogoURL   *string   `json:"logoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateBusinessDTO holds the data needed to persist a new business profile.
type CreateBusinessDTO struct {
	UserID  uuid.UUID
	Name    string
	Address *string
	Phone   *string
}

// UpdateBusinessRequest is the payload accepted by the profile update endpoint.
type UpdateBusinessRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// PresignLogoRequest asks for an upload URL for the business logo.
type PresignLogoRequest struct {
	ContentType string `json:"contentType" validate:"required,oneof=image/png image/jpeg image/webp"`
}

// PresignLogoResponse returns the upload target.
type PresignLogoResponse struct {
	UploadURL string `json:"uploadUrl"`
	Object    string `json:"object"`
}

func FromModel(b *models.Business, logoURL *string) *BusinessDTO {
	if b == nil {
		return nil
	}
	return &BusinessDTO{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		LogoURL:   logoURL,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (c CreateBusinessDTO) ToModel() *models.Business {
	return &models.Business{
		UserID:  c.UserID,
		Name:    c.Name,
		Address: c.Address,
		Phone:   c.Phone,
	}
}
