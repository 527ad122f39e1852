package util

import (
	"errors"
	"net/http"

	"github.com/mager/melodiary/database"
	"github.com/mager/melodiary/firestore"
	"github.com/mager/melodiary/storage"
	"go.uber.org/zap"
)

// StatusFor maps a storage error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, firestore.ErrNotFound), errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, firestore.ErrUnavailable),
		errors.Is(err, database.ErrUnavailable),
		errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteStoreError writes err with the status StatusFor picks. Unexpected
// failures are logged.
func WriteStoreError(w http.ResponseWriter, log *zap.SugaredLogger, msg string, err error) {
	status := StatusFor(err)
	switch status {
	case http.StatusNotFound:
		WriteError(w, status, "見つかりませんでした", "")
	case http.StatusServiceUnavailable:
		WriteError(w, status, "サービスが設定されていません", err.Error())
	default:
		log.Errorw(msg, "error", err)
		WriteError(w, status, "サーバーエラーが発生しました", err.Error())
	}
}
