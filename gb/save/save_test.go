package save

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "does-not-exist.sav"))
	require.NoError(t, err)
	assert.Nil(t, f.QuickSave(0), "expected a fresh save file to have no quick-saves")
}

func TestUpdateCartridgeRAMFlushLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sav")
	f := New(path)
	f.UpdateCartridgeRAM([]byte{1, 2, 3, 4})

	require.NoError(t, f.Flush())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, loaded.CartRAM)
}

func TestStoreQuickSaveOutOfRangeSlotIsIgnored(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "game.sav"))
	f.StoreQuickSave(-1, Snapshot{})
	f.StoreQuickSave(NumQuickSaveSlots, Snapshot{})
	for i := 0; i < NumQuickSaveSlots; i++ {
		assert.Nil(t, f.QuickSave(i), "out-of-range stores must be no-ops, slot %d", i)
	}
}

func TestQuickSaveSlotRoundTrip(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "game.sav"))
	snap := Snapshot{Cart: []byte{9, 9}}
	f.StoreQuickSave(3, snap)

	got := f.QuickSave(3)
	require.NotNil(t, got, "expected slot 3 to hold a snapshot")
	assert.Equal(t, []byte{9, 9}, got.Cart)
}

func TestFlushIsNoOpWhenNotDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untouched.sav")
	f := New(path)
	require.NoError(t, f.Flush())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected no file to be written when nothing was dirty")
}
