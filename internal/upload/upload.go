// Package upload validates the envelope of a batch spreadsheet before it is
// transferred. Only size and MIME type are checked here; the rows inside the
// workbook are the prediction service's concern.
package upload

import (
	"bytes"
	"fmt"

	"github.com/netojaycee/forecast-prices-app/pkg/constants"
)

// FieldName is the violation key for the upload form's single field.
const FieldName = "file"

// File describes a candidate upload.
type File struct {
	Name        string
	Size        int64
	ContentType string
}

// Violations maps a field name to the message displayed next to that field.
type Violations map[string]string

// OK reports whether the file may be uploaded.
func (v Violations) OK() bool {
	return len(v) == 0
}

var acceptedTypes = map[string]struct{}{
	constants.MIMETypeXLSX: {},
	constants.MIMETypeXLS:  {},
}

// File signatures: xlsx workbooks are zip archives, legacy xls workbooks are
// OLE compound documents.
var (
	zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Validator checks upload envelopes against a size cap. The cap may be
// configured below the service limit but the MIME rules are fixed.
type Validator struct {
	maxBytes int64
	sizeMsg  string
}

// NewValidator creates a Validator with the given size cap in bytes. A
// non-positive cap falls back to the 5 MiB service limit.
func NewValidator(maxBytes int64) *Validator {
	if maxBytes <= 0 {
		maxBytes = constants.MaxUploadSizeBytes
	}
	return &Validator{
		maxBytes: maxBytes,
		sizeMsg:  fmt.Sprintf("File size must be less than %s", formatSize(maxBytes)),
	}
}

// Validate checks the upload envelope. Both constraints must hold before any
// request is sent; the size check runs first so an oversized file is rejected
// regardless of its type.
func (v *Validator) Validate(f File) Violations {
	violations := Violations{}
	if f.Size > v.maxBytes {
		violations[FieldName] = v.sizeMsg
		return violations
	}
	if _, ok := acceptedTypes[f.ContentType]; !ok {
		violations[FieldName] = "File must be an Excel file (.xlsx or .xls)"
	}
	return violations
}

// MaxBytes returns the configured size cap.
func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

var defaultValidator = NewValidator(constants.MaxUploadSizeBytes)

// Validate checks the upload envelope against the 5 MiB service limit.
func Validate(f File) Violations {
	return defaultValidator.Validate(f)
}

// formatSize renders a byte count the way the upload messages show it, e.g.
// 5 MiB as "5MB".
func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20 && bytes%(1<<20) == 0:
		return fmt.Sprintf("%dMB", bytes>>20)
	case bytes >= 1<<10 && bytes%(1<<10) == 0:
		return fmt.Sprintf("%dKB", bytes>>10)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// DetectContentType sniffs the spreadsheet MIME type from the first bytes of
// the file for callers that only hold raw content. Anything that is not a
// recognized workbook signature yields an empty string, which Validate then
// rejects.
func DetectContentType(head []byte) string {
	switch {
	case bytes.HasPrefix(head, zipSignature):
		return constants.MIMETypeXLSX
	case bytes.HasPrefix(head, oleSignature):
		return constants.MIMETypeXLS
	default:
		return ""
	}
}
