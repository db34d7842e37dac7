package storage

import (
	"context"
	"io"
	"strconv"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores finished tournament reports.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	GetPublicURL(key string) string
}

// ReportKey is the object key of a tournament's final report.
func ReportKey(tournamentID int) string {
	return "reports/tournament-" + strconv.Itoa(tournamentID) + ".json"
}
