package gateway

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/domain"
)

// maxUploadBytes caps uploaded media at 5 MiB.
const maxUploadBytes = 5 << 20

// allowedUploadTypes lists the media types accepted for upload.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// UploadStore writes uploaded media to disk and serves it back under a
// public URL so the SMS provider can fetch it.
type UploadStore struct {
	dir           string
	publicBaseURL string
}

// NewUploadStore creates an upload store for the configured directory.
func NewUploadStore(cfg config.UploadsConfig) *UploadStore {
	return &UploadStore{dir: cfg.Dir, publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/")}
}

// Dir returns the directory uploads are stored in.
func (u *UploadStore) Dir() string { return u.dir }

// Save validates and persists one uploaded file. The stored name is a
// random UUID with the original extension; the returned path is the
// URL path the file is served under.
func (u *UploadStore) Save(header *multipart.FileHeader) (string, error) {
	if err := checkUpload(header); err != nil {
		return "", err
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	// LimitReader backstops the size check: the declared header size
	// is client-controlled.
	n, err := io.Copy(dst, io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if n > maxUploadBytes {
		os.Remove(filepath.Join(u.dir, name))
		return "", &domain.ValidationError{Field: "file", Message: "file exceeds the 5 MiB upload limit"}
	}

	return "/uploads/" + name, nil
}

// PublicURL builds the externally reachable URL for a stored path. When
// no public base URL is configured the request host is used.
func (u *UploadStore) PublicURL(requestScheme, requestHost, storedPath string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + storedPath
	}
	return fmt.Sprintf("%s://%s%s", requestScheme, requestHost, storedPath)
}

func checkUpload(header *multipart.FileHeader) error {
	if header.Size > maxUploadBytes {
		return &domain.ValidationError{Field: "file", Message: "file exceeds the 5 MiB upload limit"}
	}
	ctype := header.Header.Get("Content-Type")
	if i := strings.Index(ctype, ";"); i >= 0 {
		ctype = ctype[:i]
	}
	ctype = strings.TrimSpace(strings.ToLower(ctype))
	if !allowedUploadTypes[ctype] {
		return &domain.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("unsupported file type %q: only JPEG, PNG, and PDF are accepted", ctype),
		}
	}
	return nil
}

// readUpload validates and reads an uploaded file fully into memory, for
// email attachments that are relayed rather than stored.
func readUpload(header *multipart.FileHeader) ([]byte, error) {
	if err := checkUpload(header); err != nil {
		return nil, err
	}
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, &domain.ValidationError{Field: "file", Message: "file exceeds the 5 MiB upload limit"}
	}
	return data, nil
}
