package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
	"github.com/sbilibin2017/auction-live/internal/services"
)

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadImageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("stored", func(t *testing.T) {
		mockSvc := NewMockImageUploader(ctrl)
		mockSvc.EXPECT().
			UploadImage(gomock.Any(), "JWT_TOKEN", "mask.png", "image/png", int64(3), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, _ string, _ int64, r io.Reader) (string, error) {
				data, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, "png", string(data))
				return "k.png", nil
			})

		body, contentType := multipartImage(t, "image", "mask.png", "image/png", []byte("png"))
		req := httptest.NewRequest(http.MethodPost, "/images", body)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		NewUploadImageHandler(mockSvc)(rr, authorized(req, "JWT_TOKEN"))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, map[string]any{"image": "k.png"}, decodeBody(t, rr))
	})

	t.Run("missing file", func(t *testing.T) {
		body, contentType := multipartImage(t, "other", "mask.png", "image/png", []byte("png"))
		req := httptest.NewRequest(http.MethodPost, "/images", body)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		NewUploadImageHandler(NewMockImageUploader(ctrl))(rr, authorized(req, "JWT_TOKEN"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "image is not optional", decodeBody(t, rr)["error"])
	})

	t.Run("not an image", func(t *testing.T) {
		mockSvc := NewMockImageUploader(ctrl)
		mockSvc.EXPECT().
			UploadImage(gomock.Any(), "JWT_TOKEN", "notes.txt", "text/plain", int64(4), gomock.Any()).
			Return("", auctionerrors.NotImage("text/plain"))

		body, contentType := multipartImage(t, "image", "notes.txt", "text/plain", []byte("text"))
		req := httptest.NewRequest(http.MethodPost, "/images", body)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		NewUploadImageHandler(mockSvc)(rr, authorized(req, "JWT_TOKEN"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, `"text/plain" is not an image`, decodeBody(t, rr)["error"])
	})
}

func TestDownloadImageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockImageDownloader(ctrl)
	mockSvc.EXPECT().DownloadImage(gomock.Any(), "k.png").
		Return(io.NopCloser(bytes.NewReader([]byte("png"))), "image/png", nil)
	mockSvc.EXPECT().DownloadImage(gomock.Any(), "gone.png").
		Return(nil, "", auctionerrors.ImageNotFound("gone.png"))
	mockSvc.EXPECT().DownloadImage(gomock.Any(), "any.png").
		Return(nil, "", services.ErrImagesDisabled)

	rr := httptest.NewRecorder()
	NewDownloadImageHandler(mockSvc)(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/images/k.png", nil), "key", "k.png"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "png", rr.Body.String())

	rr = httptest.NewRecorder()
	NewDownloadImageHandler(mockSvc)(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/images/gone.png", nil), "key", "gone.png"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, `image "gone.png" doesn't exist`, decodeBody(t, rr)["error"])

	rr = httptest.NewRecorder()
	NewDownloadImageHandler(mockSvc)(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/images/any.png", nil), "key", "any.png"))
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}
