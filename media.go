package pagepress

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// NoImage is the placeholder filename stored on articles without an uploaded
// image. MediaStore never touches a file by this name.
const NoImage = "noimage.png"

const (
	maxImageWidth = 1600
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// MediaStore owns the on-disk upload directory. Stored filenames are
// `<uuid>_<original-name>` so uploads never collide and the original name
// stays readable in the admin.
type MediaStore struct {
	dir string
}

// NewMediaStore returns a MediaStore rooted at dir. The directory is created
// lazily on first save.
func NewMediaStore(dir string) *MediaStore {
	return &MediaStore{dir: dir}
}

// Dir returns the upload directory path.
func (m *MediaStore) Dir() string {
	return m.dir
}

// Save writes an uploaded file under a fresh unique filename and returns that
// filename. JPEG and PNG uploads wider than maxImageWidth are downscaled
// before writing; other content is stored byte-for-byte.
func (m *MediaStore) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("upload too large (max %d bytes)", maxUploadSize)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	data = normalizeImage(data)

	filename := uuid.NewString() + "_" + filepath.Base(file.Filename)

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return filename, nil
}

// Remove deletes a previously stored file. It is a no-op for the NoImage
// sentinel and silently succeeds when the file is already gone.
func (m *MediaStore) Remove(filename string) error {
	if filename == "" || filename == NoImage {
		return nil
	}
	err := os.Remove(filepath.Join(m.dir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// normalizeImage downscales oversized JPEG/PNG data to maxImageWidth,
// re-encoding in the source format. Content that does not decode as either
// format is returned unchanged.
func normalizeImage(data []byte) []byte {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil || (format != "jpeg" && format != "png") {
		return data
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxImageWidth {
		return data
	}

	newH := h * maxImageWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return data
	}
	return buf.Bytes()
}
