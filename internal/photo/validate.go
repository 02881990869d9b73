package photo

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ReadMultipart reads and validates a multipart image.
func ReadMultipart(fh *multipart.FileHeader, maxBytes int64) (*File, error) {
	if fh.Size > maxBytes {
		return nil, fmt.Errorf("image is %d bytes, limit %d: %w", fh.Size, maxBytes, ErrInvalidImage)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded image: %w", err)
	}

	file := &File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	if err := ValidateImage(file, maxBytes); err != nil {
		return nil, err
	}
	return file, nil
}

// ValidateImage checks size, declared type and that the bytes really are that type.
func ValidateImage(file *File, maxBytes int64) error {
	if file == nil || len(file.Data) == 0 {
		return fmt.Errorf("empty image: %w", ErrInvalidImage)
	}
	if file.Size() > maxBytes {
		return fmt.Errorf("image exceeds %d bytes: %w", maxBytes, ErrInvalidImage)
	}

	declared := normalizeType(file.ContentType)
	if !allowedTypes[declared] {
		return fmt.Errorf("declared type %q not allowed: %w", file.ContentType, ErrInvalidImage)
	}

	detected := normalizeType(mimetype.Detect(file.Data).String())
	if detected != declared {
		return fmt.Errorf("declared %q but content is %q: %w", declared, detected, ErrInvalidImage)
	}

	file.ContentType = declared
	return nil
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if t == "image/jpg" {
		return "image/jpeg"
	}
	return t
}
