package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/config"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/db/models"
	pkgerrors "github.com/nmoralesdev/receiptdesk-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes business profile operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*BusinessDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateBusinessRequest) (*BusinessDTO, error)
	PresignLogo(ctx context.Context, userID uuid.UUID, req PresignLogoRequest) (*PresignLogoResponse, error)
}

type businessRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Business, error)
	Update(ctx context.Context, business *models.Business) (*models.Business, error)
	UpdateLogoObject(ctx context.Context, userID uuid.UUID, object string) error
}

// ObjectSigner mints signed upload and download URLs for profile assets.
type ObjectSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

type service struct {
	repo   businessRepository
	signer ObjectSigner
	gcsCfg config.GCSConfig
}

// NewService builds a profile service. The signer may be nil when object
// storage is not configured; presign requests then fail with a dependency error.
func NewService(repo businessRepository, signer ObjectSigner, gcsCfg config.GCSConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("business repository is required")
	}
	return &service{
		repo:   repo,
		signer: signer,
		gcsCfg: gcsCfg,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*BusinessDTO, error) {
	business, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(business, s.logoURL(business)), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateBusinessRequest) (*BusinessDTO, error) {
	business, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name cannot be empty")
		}
		business.Name = name
	}
	if req.Address != nil {
		business.Address = req.Address
	}
	if req.Phone != nil {
		business.Phone = req.Phone
	}

	updated, err := s.repo.Update(ctx, business)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update business profile")
	}
	return FromModel(updated, s.logoURL(updated)), nil
}

// PresignLogo hands the client an upload URL and records the object key so
// the next profile read serves the new logo.
func (s *service) PresignLogo(ctx context.Context, userID uuid.UUID, req PresignLogoRequest) (*PresignLogoResponse, error) {
	if s.signer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "object storage not configured")
	}
	if _, err := s.load(ctx, userID); err != nil {
		return nil, err
	}

	object := fmt.Sprintf("logos/%s/%s%s", userID, uuid.NewString(), extensionFor(req.ContentType))
	uploadURL, err := s.signer.SignedURL(s.gcsCfg.BucketName, object, req.ContentType, s.gcsCfg.UploadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "presign logo upload")
	}

	if err := s.repo.UpdateLogoObject(ctx, userID, object); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store logo object")
	}

	return &PresignLogoResponse{
		UploadURL: uploadURL,
		Object:    object,
	}, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.Business, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	business, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load business profile")
	}
	return business, nil
}

func (s *service) logoURL(business *models.Business) *string {
	if s.signer == nil || business == nil || business.LogoObject == nil || *business.LogoObject == "" {
		return nil
	}
	url, err := s.signer.SignedReadURL(s.gcsCfg.BucketName, *business.LogoObject, s.gcsCfg.DownloadURLExpiry)
	if err != nil {
		return nil
	}
	return &url
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ""
}
