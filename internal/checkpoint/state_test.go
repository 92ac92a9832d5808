package checkpoint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validState() *State {
	return &State{
		Version:     StateVersion,
		Fingerprint: "a1b2c3d4e5f60718",
		CreatedAt:   time.Now().Add(-time.Hour),
		UpdatedAt:   time.Now(),
		TargetPath:  "/docs/statement.pdf",
		Specs:       []string{"smart/v1", "numeric/4"},
		Completed:   []uint64{120, 5000},
		Tried:       5120,
	}
}

func TestStateValidate_OK(t *testing.T) {
	t.Parallel()

	s := validState()

	require.NoError(t, s.Validate("a1b2c3d4e5f60718", 2))
}

func TestStateValidate_VersionMismatch(t *testing.T) {
	t.Parallel()

	s := validState()
	s.Version = StateVersion + 1

	err := s.Validate("a1b2c3d4e5f60718", 2)
	require.ErrorIs(t, err, ErrVersionMismatch)
}

func TestStateValidate_FingerprintMismatch(t *testing.T) {
	t.Parallel()

	s := validState()

	err := s.Validate("ffffffffffffffff", 2)
	require.ErrorIs(t, err, ErrFingerprintMismatch)
}

func TestStateValidate_GeneratorCountMismatch(t *testing.T) {
	t.Parallel()

	s := validState()

	err := s.Validate("a1b2c3d4e5f60718", 3)
	require.ErrorIs(t, err, ErrCorruptState)
}
