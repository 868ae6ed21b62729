//go:build unix

package mover_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"dlsort/internal/errors"
	"dlsort/internal/mover"
	"dlsort/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func fixture(t *testing.T, name string) (types.CandidateFile, types.PlacementDecision) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(src, []byte("content"), 0644))
	destDir := filepath.Join(dir, "Sorted", "documents")
	require.NoError(t, os.MkdirAll(destDir, 0755))
	return types.NewCandidate(src), types.PlacementDecision{
		Category:        "documents",
		DestinationPath: filepath.Join(destDir, "20261017_090503_"+name),
	}
}

func TestMoveSuccess(t *testing.T) {
	c, d := fixture(t, "report.pdf")

	out := mover.New().Move(c, d)
	assert.Equal(t, types.StatusMoved, out.Status)
	assert.Equal(t, c.Path, out.From)
	assert.Equal(t, d.DestinationPath, out.To)
	assert.Equal(t, "report.pdf", out.Name)
	assert.Equal(t, "documents", out.Category)

	_, err := os.Stat(c.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	data, err := os.ReadFile(d.DestinationPath)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestMoveVanished(t *testing.T) {
	c, d := fixture(t, "gone.pdf")
	require.NoError(t, os.Remove(c.Path))

	out := mover.New().Move(c, d)
	assert.Equal(t, types.StatusSkipped, out.Status)
	assert.Equal(t, types.ReasonVanished, out.Reason)
}

func TestMoveVanishedDuringRename(t *testing.T) {
	c, d := fixture(t, "race.pdf")
	m := mover.NewWithRename(func(oldpath, _ string) error {
		require.NoError(t, os.Remove(oldpath))
		return &os.LinkError{Op: "rename", Old: oldpath, New: d.DestinationPath, Err: os.ErrNotExist}
	})

	out := m.Move(c, d)
	assert.Equal(t, types.StatusSkipped, out.Status)
	assert.Equal(t, types.ReasonVanished, out.Reason)
}

func TestMoveCollision(t *testing.T) {
	c, d := fixture(t, "data.csv")
	require.NoError(t, os.WriteFile(d.DestinationPath, []byte("first"), 0644))

	out := mover.New().Move(c, d)
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Contains(t, out.Reason, "collision")
	assert.Equal(t, errors.FileCollision, errors.KindOf(out.Err))

	// neither file was touched
	data, err := os.ReadFile(d.DestinationPath)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
	_, err = os.Stat(c.Path)
	assert.NoError(t, err)
}

func TestMoveInUse(t *testing.T) {
	for _, errno := range []error{unix.EBUSY, unix.ETXTBSY, unix.EACCES, unix.EPERM} {
		t.Run(errno.Error(), func(t *testing.T) {
			c, d := fixture(t, "setup.exe")
			m := mover.NewWithRename(func(oldpath, newpath string) error {
				return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errno}
			})

			out := m.Move(c, d)
			assert.Equal(t, types.StatusFailed, out.Status)
			assert.Equal(t, types.ReasonInUse, out.Reason)
			assert.True(t, errors.IsFileInUse(out.Err))
		})
	}
}

func TestMoveReadOnlySourceDir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	c, d := fixture(t, "locked.zip")
	srcDir := filepath.Dir(c.Path)
	require.NoError(t, os.Chmod(srcDir, 0555))
	defer os.Chmod(srcDir, 0755)

	out := mover.New().Move(c, d)
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, types.ReasonInUse, out.Reason)
}

func TestMoveCrossDevice(t *testing.T) {
	c, d := fixture(t, "big.iso")
	m := mover.NewWithRename(func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: unix.EXDEV}
	})

	out := m.Move(c, d)
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Contains(t, out.Reason, "cross-device")
}

func TestMoveOtherFailure(t *testing.T) {
	c, d := fixture(t, "a.txt")
	m := mover.NewWithRename(func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: unix.ENOSPC}
	})

	out := m.Move(c, d)
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Contains(t, out.Reason, "no space left on device")
	assert.Equal(t, errors.MoveFailed, errors.KindOf(out.Err))
}
