package pagepress

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// uploadFile builds a *multipart.FileHeader the way an HTTP form submission
// would deliver it.
func uploadFile(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm failed: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

func TestMediaStoreSave(t *testing.T) {
	dir := t.TempDir()
	m := NewMediaStore(filepath.Join(dir, "articles"))

	filename, err := m.Save(uploadFile(t, "note.txt", []byte("not an image")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasSuffix(filename, "_note.txt") {
		t.Errorf("filename = %q, want <token>_note.txt", filename)
	}
	if filename == "note.txt" {
		t.Error("filename should carry a unique prefix")
	}

	data, err := os.ReadFile(filepath.Join(m.Dir(), filename))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "not an image" {
		t.Errorf("stored content = %q, want original bytes", data)
	}
}

func TestMediaStoreSaveUniqueNames(t *testing.T) {
	m := NewMediaStore(t.TempDir())

	first, err := m.Save(uploadFile(t, "pic.png", []byte("a")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second, err := m.Save(uploadFile(t, "pic.png", []byte("b")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if first == second {
		t.Errorf("two uploads of %q got the same stored name %q", "pic.png", first)
	}
}

func TestMediaStoreRemove(t *testing.T) {
	m := NewMediaStore(t.TempDir())

	filename, err := m.Save(uploadFile(t, "gone.txt", []byte("x")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := m.Remove(filename); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(m.Dir(), filename)); !os.IsNotExist(err) {
		t.Error("file should be gone after Remove")
	}

	// Removing again is a silent success.
	if err := m.Remove(filename); err != nil {
		t.Errorf("second Remove should be a no-op, got %v", err)
	}
}

func TestMediaStoreRemoveSentinel(t *testing.T) {
	dir := t.TempDir()
	m := NewMediaStore(dir)

	// Plant a file named like the sentinel; Remove must not touch it.
	path := filepath.Join(dir, NoImage)
	if err := os.WriteFile(path, []byte("placeholder"), 0o644); err != nil {
		t.Fatalf("write placeholder: %v", err)
	}

	if err := m.Remove(NoImage); err != nil {
		t.Fatalf("Remove(NoImage) failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("sentinel file must never be deleted")
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeImageDownscales(t *testing.T) {
	out := normalizeImage(encodePNG(t, 2000, 500))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode normalized image: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png preserved", format)
	}
	if cfg.Width != maxImageWidth {
		t.Errorf("width = %d, want %d", cfg.Width, maxImageWidth)
	}
	if cfg.Height != 400 {
		t.Errorf("height = %d, want 400 (aspect preserved)", cfg.Height)
	}
}

func TestNormalizeImagePassthrough(t *testing.T) {
	small := encodePNG(t, 100, 100)
	if out := normalizeImage(small); !bytes.Equal(out, small) {
		t.Error("small image should pass through unchanged")
	}

	raw := []byte("just bytes")
	if out := normalizeImage(raw); !bytes.Equal(out, raw) {
		t.Error("non-image content should pass through unchanged")
	}
}
