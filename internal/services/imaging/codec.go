package imaging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// fallbackExtension is assumed when the payload carries no data-URI header.
const fallbackExtension = "png"

// ErrEmptyPayload is returned when the payload contains no image data.
var ErrEmptyPayload = errors.New("image payload is empty")

// Decode converts a base64 snapshot payload into raw bytes and an inferred
// file extension. The payload is either a data URI of the form
// "data:image/<ext>;base64,<data>" or a bare base64 string. No image-content
// validation happens here; corrupt images are left to the classifier.
func Decode(imageB64 string) ([]byte, string, error) {
	encoded := imageB64
	ext := fallbackExtension

	if strings.HasPrefix(imageB64, "data:image") {
		header, payload, found := strings.Cut(imageB64, ",")
		if !found {
			return nil, "", fmt.Errorf("malformed data URI: missing payload separator")
		}
		encoded = payload

		// MIME subtype between "image/" and ";", e.g. data:image/jpeg;base64
		mime, _, _ := strings.Cut(header, ";")
		if _, subtype, ok := strings.Cut(mime, "/"); ok && subtype != "" {
			ext = subtype
		}
	}

	if strings.TrimSpace(encoded) == "" {
		return nil, "", ErrEmptyPayload
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("malformed base64 payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, "", ErrEmptyPayload
	}

	return raw, ext, nil
}
