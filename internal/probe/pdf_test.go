package probe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeMinimalPDF builds the smallest well-formed unencrypted document: a
// catalog, a page tree, and one page, with exact xref offsets.
func writeMinimalPDF(t *testing.T) string {
	t.Helper()

	var body bytes.Buffer

	body.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, 3)

	addObj := func(s string) {
		offsets = append(offsets, body.Len())
		body.WriteString(s)
	}

	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	addObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")

	xrefOffset := body.Len()

	body.WriteString("xref\n0 4\n")
	body.WriteString("0000000000 65535 f \n")

	for _, off := range offsets {
		fmt.Fprintf(&body, "%010d 00000 n \n", off)
	}

	body.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\n")
	fmt.Fprintf(&body, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	path := filepath.Join(t.TempDir(), "plain.pdf")
	require.NoError(t, os.WriteFile(path, body.Bytes(), 0o600))

	return path
}

func TestNewPDF_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewPDF(filepath.Join(t.TempDir(), "absent.pdf"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewPDF_GarbageIsUnsupported(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o600))

	_, err := NewPDF(path)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestNewPDF_UnencryptedIsRejected(t *testing.T) {
	t.Parallel()

	_, err := NewPDF(writeMinimalPDF(t))
	require.ErrorIs(t, err, ErrNotEncrypted)
}

func TestPDF_TryHonorsContext(t *testing.T) {
	t.Parallel()

	p := &PDF{path: "x.pdf", data: []byte("irrelevant")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	found, err := p.Try(ctx, "candidate")
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, found)
}

func TestPDF_TryUnreadableDataIsError(t *testing.T) {
	t.Parallel()

	p := &PDF{path: "x.pdf", data: []byte("not a pdf at all")}

	found, err := p.Try(context.Background(), "candidate")
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "probe x.pdf")
}
