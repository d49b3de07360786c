package media

import (
	"bytes"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
)

const (
	maxUploadWidth = 1600
	jpegQuality    = 85
)

// NormalizeUpload decodes an uploaded image, shrinks anything wider than
// maxUploadWidth and re-encodes it as JPEG. Payloads that do not decode are
// returned verbatim: the report renderer already treats unreadable media as
// missing, so a bad upload degrades to an empty image slot instead of an
// intake failure.
func NormalizeUpload(r io.Reader) ([]byte, string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return raw, http.DetectContentType(raw), nil
	}

	if img.Bounds().Dx() > maxUploadWidth {
		img = imaging.Resize(img, maxUploadWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/jpeg", nil
}
