package photos

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/mager/melodiary/session"
	"github.com/mager/melodiary/storage"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

const (
	maxPhotoBytes = 10 << 20
	formField     = "photo"
)

type Uploader interface {
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

// UploadHandler stores a diary photo and returns its URL.
type UploadHandler struct {
	log      *zap.SugaredLogger
	uploader Uploader
}

func (*UploadHandler) Pattern() string {
	return "/photos"
}

func (*UploadHandler) Methods() []string {
	return []string{http.MethodPost}
}

// NewUploadHandler builds a new UploadHandler.
func NewUploadHandler(log *zap.SugaredLogger, store *storage.PhotoStore) *UploadHandler {
	return &UploadHandler{log: log, uploader: store}
}

type UploadResponse struct {
	URL string `json:"url"`
}

// Upload a photo
// @Summary Upload a photo
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Photo (max 10MB)"
// @Success 201 {object} UploadResponse
// @Router /photos [post]
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := session.UserID(r.Context())
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, "ログインが必要です", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes+1<<20)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		util.WriteError(w, http.StatusBadRequest, "写真を読み込めませんでした", err.Error())
		return
	}
	file, header, err := r.FormFile(formField)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, "写真を読み込めませんでした", err.Error())
		return
	}
	defer file.Close()

	if header.Size > maxPhotoBytes {
		util.WriteError(w, http.StatusRequestEntityTooLarge, "写真は10MB以下にしてください", "")
		return
	}

	url, err := h.uploader.Upload(r.Context(), userID, header.Filename, header.Header.Get("Content-Type"), file)
	if errors.Is(err, storage.ErrUnsupportedType) {
		util.WriteError(w, http.StatusBadRequest, "対応していない画像形式です", header.Header.Get("Content-Type"))
		return
	}
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to upload photo", err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, UploadResponse{URL: url})
}
