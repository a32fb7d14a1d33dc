// Package uploads stores file blobs in Cloudinary.
package uploads

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/abhi19833/milesto/internal/milesto/service"
	"github.com/abhi19833/milesto/pkg/idx"
)

const folder = "milesto/documents"

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("uploads: failed to create cloudinary client: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(
	ctx context.Context,
	fileName string,
	contents io.Reader,
) (service.UploadResult, error) {
	resp, err := u.cld.Upload.Upload(ctx, contents, uploader.UploadParams{
		Folder:       folder,
		PublicID:     idx.New().String(),
		ResourceType: "auto",
	})
	if err != nil {
		return service.UploadResult{}, fmt.Errorf("uploads: cloudinary upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return service.UploadResult{}, fmt.Errorf("uploads: cloudinary upload failed: %s", resp.Error.Message)
	}

	mimeType := mime.TypeByExtension(path.Ext(fileName))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return service.UploadResult{
		URL:      resp.SecureURL,
		Size:     int64(resp.Bytes),
		MimeType: mimeType,
	}, nil
}

func (u *CloudinaryUploader) Delete(ctx context.Context, fileURL string) error {
	publicID, ok := publicIDFromURL(fileURL)
	if !ok {
		return fmt.Errorf("uploads: cannot derive public id from %q", fileURL)
	}

	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("uploads: cloudinary destroy failed: %w", err)
	}
	return nil
}

// publicIDFromURL recovers the public id from a delivery URL, which looks
// like https://res.cloudinary.com/<cloud>/<type>/upload/v123/<public_id>.<ext>
func publicIDFromURL(fileURL string) (string, bool) {
	_, after, found := strings.Cut(fileURL, "/upload/")
	if !found || after == "" {
		return "", false
	}

	parts := strings.Split(after, "/")
	// Drop the version segment if present.
	if len(parts) > 1 && strings.HasPrefix(parts[0], "v") {
		parts = parts[1:]
	}
	id := strings.Join(parts, "/")
	if ext := path.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	if id == "" {
		return "", false
	}
	return id, true
}
