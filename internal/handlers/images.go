package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
	"github.com/sbilibin2017/auction-live/internal/logger"
)

//go:generate mockgen -source=images.go -destination=mock_images.go -package=handlers

// maxImageSize bounds an uploaded image.
const maxImageSize = 10 << 20

// ImageUploader stores images.
type ImageUploader interface {
	UploadImage(ctx context.Context, token, filename, contentType string, size int64, r io.Reader) (string, error)
}

// ImageDownloader opens stored images.
type ImageDownloader interface {
	DownloadImage(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// UploadImageResponse represents a stored image reference
// swagger:model UploadImageResponse
type UploadImageResponse struct {
	// Image reference usable in an item's images
	// default: 0b8e7a9c-4f0e-4b7a-9d1e-2c3f4a5b6c7d.png
	Image string `json:"image"`
}

// NewUploadImageHandler returns an HTTP handler storing an item image.
// @Summary Upload image
// @Description Stores a multipart "image" file and returns its reference
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 201 {object} handlers.UploadImageResponse "Image reference"
// @Failure 400 {object} handlers.ErrorResponse "Missing file or not an image"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /images [post]
// @Security BearerAuth
func NewUploadImageHandler(svc ImageUploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)

		file, header, err := r.FormFile("image")
		if err != nil {
			logger.Log.Warnw("failed to read uploaded image", "err", err)
			writeError(w, r, auctionerrors.Required("image"))
			return
		}
		defer file.Close()

		key, err := svc.UploadImage(r.Context(), bearerToken(r),
			header.Filename, header.Header.Get("Content-Type"), header.Size, file)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, UploadImageResponse{Image: key})
	}
}

// NewDownloadImageHandler returns an HTTP handler streaming a stored image.
// @Summary Download image
// @Tags images
// @Produce octet-stream
// @Param key path string true "Image reference"
// @Success 200 {file} file "Image"
// @Failure 404 {object} handlers.ErrorResponse "Image does not exist"
// @Router /images/{key} [get]
func NewDownloadImageHandler(svc ImageDownloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, contentType, err := svc.DownloadImage(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, rc); err != nil {
			logger.Log.Errorw("failed to stream image", "err", err)
		}
	}
}
