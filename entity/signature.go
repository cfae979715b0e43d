package entity

import "strings"

// SignaturePayload is a self-contained encoded signature image, embedded
// directly in the agreement document. There is no external blob reference.
type SignaturePayload string

const signaturePrefix = "data:image/png;base64,"

// IsEmpty reports whether the payload carries no image data.
func (p SignaturePayload) IsEmpty() bool {
	return len(p) == 0
}

// Valid reports whether the payload looks like an embeddable signature image.
func (p SignaturePayload) Valid() bool {
	return strings.HasPrefix(string(p), signaturePrefix) && len(p) > len(signaturePrefix)
}
