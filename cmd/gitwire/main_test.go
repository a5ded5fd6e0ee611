package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.pkt")
	require.NoError(t, os.WriteFile(path, []byte("000ahello\n0000"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"inspect", "--protocol", "v1", path})
	require.NoError(t, rootCmd.Execute())

	require.Contains(t, out.String(), `   1  "hello\n"`)
	require.Contains(t, out.String(), "   1  -- flush: 1 lines, 6 bytes, text")
}

func TestInspectCommand_BadProtocol(t *testing.T) {
	rootCmd.SetArgs([]string{"inspect", "--protocol", "v9", "-"})
	require.ErrorContains(t, rootCmd.Execute(), "unknown protocol version")
}

func TestOpenInput(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := openInput([]string{filepath.Join(t.TempDir(), "nope")})
		require.Error(t, err)
	})

	t.Run("stdin", func(t *testing.T) {
		in, release, err := openInput([]string{"-"})
		require.NoError(t, err)
		defer release()
		require.Equal(t, os.Stdin, in)
	})

	t.Run("ws with file", func(t *testing.T) {
		websocketURL = "ws://127.0.0.1:1"
		defer func() { websocketURL = "" }()
		_, _, err := openInput([]string{"file"})
		require.ErrorContains(t, err, "mutually exclusive")
	})
}
