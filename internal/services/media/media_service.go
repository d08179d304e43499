package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Service wraps the hosted media store. Images are resized and normalised by
// the host; the backend only passes bytes through and keeps the URL.
type Service struct {
	cld *cloudinary.Cloudinary
}

func New(cloudName, apiKey, apiSecret string) (*Service, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("media: init: %w", err)
	}
	return &Service{cld: cld}, nil
}

// Upload stores one image under hudumalink/<folder> and returns its durable
// URL. The host applies the size cap and format/quality normalisation.
func (s *Service) Upload(ctx context.Context, r io.Reader, folder string) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         "hudumalink/" + folder,
		Transformation: "c_limit,w_1920,h_1920/q_auto:good/f_auto",
	})
	if err != nil {
		return "", fmt.Errorf("media: upload: %w", err)
	}
	return res.SecureURL, nil
}

// Destroy removes a previously uploaded asset by its public id.
func (s *Service) Destroy(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("media: destroy: %w", err)
	}
	return nil
}
