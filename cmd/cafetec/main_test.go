package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLoginFlags(t *testing.T) {
	opts, err := parseLoginFlags([]string{"-email", "ana@uni.edu", "-password", "pw"})
	require.NoError(t, err)
	assert.Equal(t, "ana@uni.edu", opts.Email)
	assert.Equal(t, "pw", opts.Password)

	_, err = parseLoginFlags([]string{"-email", "ana@uni.edu"})
	require.Error(t, err)
}

func TestParseRegisterFlags_RequiresAllFields(t *testing.T) {
	_, err := parseRegisterFlags([]string{"-name", "Ana", "-email", "ana@uni.edu"})
	require.Error(t, err)

	opts, err := parseRegisterFlags([]string{"-name", "Ana", "-email", "ana@uni.edu", "-password", "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", opts.Name)
}

func TestParseReportFlags_Defaults(t *testing.T) {
	opts, err := parseReportFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, opts.Page)
	assert.Empty(t, opts.CSV)
}

func TestParseProductInput(t *testing.T) {
	id, in, err := parseProductInput("admin product-update", []string{
		"-product", "9", "-name", "Torta", "-price", "45.50", "-category", "2",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.Equal(t, "Torta", in.Name)
	assert.Equal(t, "45.5", in.Price.String())
	assert.Equal(t, int64(2), in.CategoryID)

	_, _, err = parseProductInput("admin product-add", []string{"-name", "Torta", "-category", "2"})
	require.Error(t, err, "price is required")

	_, _, err = parseProductInput("admin product-add", []string{"-name", "Torta", "-price", "45"})
	require.Error(t, err, "category is required")
}

func TestUsageCoversEveryCommand(t *testing.T) {
	// printUsage iterates a fixed name list; it must not drift from the
	// command table.
	names := []string{
		"login", "register", "logout", "whoami",
		"menu", "favorite", "cart", "slots",
		"checkout", "orders", "pay", "track", "report", "admin",
	}
	cmds := commands()
	require.Len(t, cmds, len(names))
	for _, n := range names {
		_, ok := cmds[n]
		assert.True(t, ok, "usage lists unknown command %q", n)
	}
}
