package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF probes candidates against an encrypted PDF held in memory. The file is
// read once at construction; each probe parses from its own reader over the
// shared bytes, so concurrent probes never contend.
type PDF struct {
	path string
	data []byte
}

// NewPDF loads the document at path and verifies it is an encrypted PDF.
// Unencrypted documents are rejected with ErrNotEncrypted, and documents
// that fail to parse even as encrypted PDFs with ErrUnsupported.
func NewPDF(path string) (*PDF, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read target: %w", err)
	}

	p := &PDF{path: path, data: data}

	// Opening without a password classifies the document: success means it
	// is not encrypted, a wrong-password error confirms encryption.
	_, err = api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotEncrypted, path)
	}

	if !errors.Is(err, pdfcpu.ErrWrongPassword) {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupported, path, err)
	}

	return p, nil
}

// Try reports whether candidate decrypts the document as either the user or
// the owner password.
func (p *PDF) Try(ctx context.Context, candidate string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	conf := model.NewDefaultConfiguration()
	conf.UserPW = candidate
	conf.OwnerPW = candidate

	_, err := api.ReadContext(bytes.NewReader(p.data), conf)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, pdfcpu.ErrWrongPassword) {
		return false, nil
	}

	return false, fmt.Errorf("probe %s: %w", p.path, err)
}
