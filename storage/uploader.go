// Package storage выгружает снимки турниров в объектное хранилище.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

const (
	ContentTypeJSON   = "application/json"
	ContentTypeXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeBinary = "application/octet-stream"
)

// UploadResult описывает записанный объект.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader - объектное хранилище снимков клуба. Ключи разделены слешем
// и отсчитываются от корня бакета.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// ContentTypeFor определяет Content-Type объекта снимка по ключу.
func ContentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".json":
		return ContentTypeJSON
	case ".xlsx":
		return ContentTypeXLSX
	default:
		return ContentTypeBinary
	}
}
