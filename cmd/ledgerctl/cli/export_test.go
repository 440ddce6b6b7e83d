package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExportRejectsNonPositiveVendor(t *testing.T) {
	_, err := runCommand(t, "export", "--vendor", "0", "--projection", "po", "--format", "csv")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be positive")
}

func TestExportRejectsUnknownProjection(t *testing.T) {
	_, err := runCommand(t, "export", "--vendor", "7", "--projection", "weekly", "--format", "csv")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown projection")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, err := runCommand(t, "export", "--vendor", "7", "--projection", "po", "--format", "pdf")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown format")
}
