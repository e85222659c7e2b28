package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestFindCmd_Hex(t *testing.T) {
	path := writeFile(t, "dump.bin", []byte{0x00, 0xDE, 0xAD, 0xBE, 0xEF})

	out, err := run(t, "find", path, "DE AD BE EF")
	require.NoError(t, err)
	assert.Contains(t, out, "0x00000001 (1)")
}

func TestFindCmd_Wildcard(t *testing.T) {
	path := writeFile(t, "dump.bin", []byte{0x00, 0xDE, 0x11, 0xBE, 0xEF})

	out, err := run(t, "find", "--wildcard", path, "DE ?? BE")
	require.NoError(t, err)
	assert.Contains(t, out, "0x00000001")
}

func TestFindCmd_AllAndBackward(t *testing.T) {
	path := writeFile(t, "text.bin", []byte("one two one two"))

	out, err := run(t, "find", "-e", "ascii", "--all", path, "TWO")
	require.NoError(t, err)
	assert.Contains(t, out, "0x00000004 (4)")
	assert.Contains(t, out, "0x0000000C (12)")
	assert.Contains(t, out, "2 matches in 15 B")

	out, err = run(t, "find", "-e", "ascii", "--backward", path, "two")
	require.NoError(t, err)
	assert.Contains(t, out, "0x0000000C")
	assert.NotContains(t, out, "0x00000004")

	out, err = run(t, "find", "-e", "ascii", "--match-case", path, "TWO")
	require.NoError(t, err)
	assert.Contains(t, out, "no match")
}

func TestFindCmd_Range(t *testing.T) {
	path := writeFile(t, "text.bin", []byte("one two one two"))

	out, err := run(t, "find", "-e", "ascii", "--begin", "5", path, "two")
	require.NoError(t, err)
	assert.Contains(t, out, "0x0000000C")

	_, err = run(t, "find", "-e", "ascii", "--end", "99", path, "two")
	assert.Error(t, err)
}

func TestFindCmd_Errors(t *testing.T) {
	path := writeFile(t, "dump.bin", []byte{1, 2, 3})

	_, err := run(t, "find", path)
	assert.Error(t, err)

	_, err = run(t, "find", "-e", "nope", path, "01")
	assert.Error(t, err)

	_, err = run(t, "find", "ftp://bucket/key", "01")
	assert.ErrorContains(t, err, "unsupported scheme")

	_, err = run(t, "find", "s3://bucket", "01")
	assert.ErrorContains(t, err, "bucket/key")
}

func TestCountCmd(t *testing.T) {
	path := writeFile(t, "nums.bin", []byte{1, 0, 2, 0, 1, 0, 1, 0})

	out, err := run(t, "count", "-e", "int16", "--step", "2", path, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "3 matches")

	out, err = run(t, "count", "-e", "int16", "--limit", "2", path, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "2 matches")
	assert.Contains(t, out, "(limit reached)")
}

func TestReplaceCmd(t *testing.T) {
	path := writeFile(t, "text.bin", []byte("one two one two"))

	out, err := run(t, "replace", "-e", "ascii", path, "two", "TWO")
	require.NoError(t, err)
	assert.Contains(t, out, "2 replaced")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one TWO one TWO", string(data))
}

func TestReplaceCmd_First(t *testing.T) {
	path := writeFile(t, "text.bin", []byte("one two one two"))

	_, err := run(t, "replace", "-e", "ascii", "--first", "--backward", path, "one", "ONE")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one two ONE two", string(data))
}

func TestReplaceCmd_Longer(t *testing.T) {
	path := writeFile(t, "text.bin", []byte("ab..ab.."))

	_, err := run(t, "replace", "-e", "ascii", path, "ab", "xyz")
	assert.ErrorContains(t, err, "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ab..ab..", string(data))

	_, err = run(t, "replace", "-e", "ascii", "--force", path, "ab", "xyz")
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "xyz.xyz.", string(data))
}

func TestCompressedSource(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	payload := enc.EncodeAll([]byte("header NEEDLE trailer"), nil)
	require.NoError(t, enc.Close())

	path := writeFile(t, "dump.bin.zst", payload)

	out, err := run(t, "find", "-e", "ascii", path, "needle")
	require.NoError(t, err)
	assert.Contains(t, out, "0x00000007")

	_, err = run(t, "replace", "-e", "ascii", path, "needle", "NEEDLE")
	assert.ErrorIs(t, err, errRemoteReadOnly)
}

func TestStdinSource(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewReader([]byte{0x01, 0x02, 0xCA, 0xFE, 0x02, 0xCA, 0xFE}))
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "config.toml"), "count", "-", "CA FE"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "2 matches")

	_, err := run(t, "replace", "-", "CA FE", "BE EF")
	assert.ErrorIs(t, err, errRemoteReadOnly)
}

func TestConfigCmd(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sub", "config.toml")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "config", "init"})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, cfgPath)

	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "config", "init"})
	assert.Error(t, cmd.Execute())

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "config", "show"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "[search]")
	assert.Contains(t, out.String(), "limit = 10000")
}
