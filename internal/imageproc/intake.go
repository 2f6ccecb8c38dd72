// internal/imageproc/intake.go
package imageproc

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// AllowedImageMimeTypes is the upload allow-list with the extensions each
// type may carry. Deterministic, no OS mime database involved.
var AllowedImageMimeTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
}

// Intake validates candidate files and stages accepted ones on local disk.
type Intake struct {
	maxSizeBytes int64
	stagingDir   string
}

func NewIntake(maxSizeBytes int64, stagingDir string) *Intake {
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}
	return &Intake{maxSizeBytes: maxSizeBytes, stagingDir: stagingDir}
}

// StagedUpload is an accepted file parked on local disk. PreviewRef is a
// locally-resolvable path produced without any network I/O.
type StagedUpload struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	PreviewRef  string
}

// Open returns a reader over the staged bytes.
func (u *StagedUpload) Open() (io.ReadCloser, error) {
	return os.Open(u.PreviewRef)
}

// Discard removes the staged file. Called when the user re-selects a file or
// after the bytes have been handed to the object store.
func (u *StagedUpload) Discard() {
	if u.PreviewRef != "" {
		os.Remove(u.PreviewRef)
	}
}

// Validate checks the declared media type against the allow-list and the size
// against the ceiling. It performs no I/O and mutates nothing; the returned
// error carries the user-facing reason. A zero-byte file passes when its type
// does.
func (i *Intake) Validate(filename, contentType string, sizeBytes int64) error {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: cannot parse content type %q", ErrUnsupportedType, contentType)
	}
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}

	allowedExts, ok := AllowedImageMimeTypes[mimeType]
	if !ok {
		return fmt.Errorf("%w: %s, only JPEG, PNG and WEBP are allowed", ErrUnsupportedType, mimeType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !extAllowed(ext, allowedExts) {
		return fmt.Errorf("%w: extension %q does not match %s", ErrUnsupportedType, ext, mimeType)
	}

	if sizeBytes > i.maxSizeBytes {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrTooLarge, sizeBytes, i.maxSizeBytes)
	}

	return nil
}

// Stage validates the candidate and, if accepted, copies it to a local
// staging file. `prev` is the previously staged upload, if any; it is
// discarded on acceptance so only one file is ever staged at a time.
func (i *Intake) Stage(filename, contentType string, sizeBytes int64, r io.Reader, prev *StagedUpload) (*StagedUpload, error) {
	if err := i.Validate(filename, contentType, sizeBytes); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(i.stagingDir, "staged-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}

	written, err := io.Copy(tmp, io.LimitReader(r, i.maxSizeBytes+1))
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to stage file: %w", err)
	}
	if written > i.maxSizeBytes {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("%w: stream exceeds the %d byte limit", ErrTooLarge, i.maxSizeBytes)
	}

	if prev != nil {
		prev.Discard()
	}

	return &StagedUpload{
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   written,
		PreviewRef:  tmp.Name(),
	}, nil
}

func extAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
