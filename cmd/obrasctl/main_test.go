package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedUsers_EscribeSQL(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "usuarios.csv")
	require.NoError(t, os.WriteFile(in, []byte("email,name,role,password,approved\nana@x.com,Ana,ADMIN,secret1,1\n"), 0o600))
	out := filepath.Join(dir, "seed.sql")

	var stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"seed-users", "-i", in, "-o", out, "--cost", "4"})
	require.NoError(t, cmd.Execute())

	sql, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(sql), "'ana@x.com'")
	assert.Contains(t, stderr.String(), "1 usuarios procesados")
}

func TestSeedUsers_StdoutPorDefecto(t *testing.T) {
	in := filepath.Join(t.TempDir(), "usuarios.csv")
	require.NoError(t, os.WriteFile(in, []byte("email,name,role,password,approved\nluis@x.com,Luis,,,\n"), 0o600))

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"seed-users", "--input", in})
	require.NoError(t, cmd.Execute())

	assert.True(t, strings.Contains(stdout.String(), "'VOLUNTARIO'"))
}

func TestMigrate_ArgumentoInvalido(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "sideways"})

	assert.Error(t, cmd.Execute())
}
