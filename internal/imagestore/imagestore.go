package imagestore

import (
    "bytes"
    "fmt"
    "image"
    "image/jpeg"
    "log"
    "os"
    "path/filepath"

    _ "image/gif" // register gif
    _ "image/png" // register png

    "github.com/google/uuid"
    "golang.org/x/image/draw"
)

// MaxUploadBytes caps accepted uploads at 2 MiB.
const MaxUploadBytes = 2 << 20

const (
    targetWidth  = 512
    targetHeight = 512
    jpegQuality  = 80
)

// Store is the profile image collaborator. Failure here is advisory to
// callers, never fatal to the surrounding update.
type Store interface {
    Store(data []byte, kind string, subjectID int, hint string) (string, error)
}

// DiskStore writes compressed JPEGs under a base directory.
type DiskStore struct {
    Dir string
}

func NewDiskStore(dir string) *DiskStore {
    return &DiskStore{Dir: dir}
}

// Store validates, resizes and re-encodes the upload, returning the
// stored filename. Only formats the image package can sniff (jpeg, png,
// gif) are accepted.
func (s *DiskStore) Store(data []byte, kind string, subjectID int, hint string) (string, error) {
    if len(data) == 0 {
        return "", fmt.Errorf("empty image upload")
    }
    if len(data) > MaxUploadBytes {
        return "", fmt.Errorf("image exceeds %d byte limit", MaxUploadBytes)
    }

    src, format, err := image.Decode(bytes.NewReader(data))
    if err != nil {
        return "", fmt.Errorf("unrecognized image format: %w", err)
    }

    filename := fmt.Sprintf("%s_%d_%s.jpg", kind, subjectID, uuid.NewString())
    savePath := filepath.Join(s.Dir, filename)

    if err := os.MkdirAll(s.Dir, 0o755); err != nil {
        return "", fmt.Errorf("failed to prepare image dir: %w", err)
    }

    // Resize to fit within targetWidth x targetHeight
    dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
    draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

    out, err := os.Create(savePath)
    if err != nil {
        return "", fmt.Errorf("failed to create output file: %w", err)
    }
    defer func() {
        if cerr := out.Close(); cerr != nil {
            log.Printf("⚠️ failed to close image file %s: %v", savePath, cerr)
        }
    }()

    opts := &jpeg.Options{Quality: jpegQuality}
    if err := jpeg.Encode(out, dst, opts); err != nil {
        return "", fmt.Errorf("failed to encode image: %w", err)
    }

    log.Printf("✅ Stored %s image (%s, src format %s, hint %q)", kind, filename, format, hint)
    return filename, nil
}
