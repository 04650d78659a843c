package serialport

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHoldersFindsOwnProcess(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("open file inspection is only reliable on linux")
	}

	path := filepath.Join(t.TempDir(), "ttyFAKE0")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	holders, err := Holders(context.Background(), path)
	require.NoError(t, err)

	var pids []int32
	for _, h := range holders {
		pids = append(pids, h.PID)
	}
	require.Contains(t, pids, int32(os.Getpid()))
}

func TestHoldersNoneForUnopenedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyFAKE1")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	holders, err := Holders(context.Background(), path)
	require.NoError(t, err)
	require.Empty(t, holders)
}
