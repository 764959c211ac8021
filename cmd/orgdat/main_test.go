package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(args)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestUsageErrors(t *testing.T) {
	csv := writeFile(t, "org.csv", "10.0.0.0/8,ACME\n")
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing command", nil, "missing command"},
		{"unknown command", []string{"-w", "x.dat", "mmorg_foo", csv}, `unknown command "mmorg_foo"`},
		{"missing output", []string{"mmorg_net", csv}, "--write-dat"},
		{"bad flag", []string{"--nope", "mmorg_net", csv}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			var ue usageError
			assert.ErrorAs(t, err, &ue)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMmorgNet(t *testing.T) {
	csv := writeFile(t, "org.csv", "1.0.0.0/30,ACME\n")
	dat := filepath.Join(t.TempDir(), "mmorg.dat")

	out, err := execute(t, "-w", dat, "mmorg_net", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 30-node trie with 1 networks (1 distinct labels)")
	assert.FileExists(t, dat)
}

func TestMmorgIPDebugDump(t *testing.T) {
	csv := writeFile(t, "org.csv", "1.0.0.0,1.0.0.3,ACME\n")
	dat := filepath.Join(t.TempDir(), "mmorg.dat")

	out, err := execute(t, "mmorg_ip", "--debug", "--write-dat", dat, csv)
	require.NoError(t, err)
	assert.Contains(t, out, "29 [31 ACME, --]\n")
	assert.Contains(t, out, "wrote 30-node trie")
}

func TestInvalidInputFails(t *testing.T) {
	csv := writeFile(t, "org.csv", "1.0.0.9,1.0.0.3,ACME\n")
	dat := filepath.Join(t.TempDir(), "mmorg.dat")

	_, err := execute(t, "-w", dat, "mmorg_ip", csv)
	require.Error(t, err)
	var ue usageError
	assert.False(t, errors.As(err, &ue), "input errors are not usage errors")
	assert.NoFileExists(t, dat)
}

func TestConfigFileAndEnv(t *testing.T) {
	csv := writeFile(t, "org.csv", "10.0.0.0/8,ACME\n")
	dat := filepath.Join(t.TempDir(), "from-config.dat")
	cfg := writeFile(t, "orgdat.yaml", "write-dat: "+dat+"\nwarn-overlaps: true\n")

	_, err := execute(t, "--config", cfg, "mmorg_net", csv)
	require.NoError(t, err)
	assert.FileExists(t, dat)

	envDat := filepath.Join(t.TempDir(), "from-env.dat")
	t.Setenv("ORGDAT_WRITE_DAT", envDat)
	_, err = execute(t, "mmorg_net", csv)
	require.NoError(t, err)
	assert.FileExists(t, envDat)

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "mmorg_net", csv)
	assert.ErrorContains(t, err, "read config")
}
