package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecocmd "github.com/donaldgifford/ecofinder/cmd/eco/cmd"
)

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "eco")

	require.NoError(t, generate(ecocmd.Root(), dir))

	for _, name := range []string{"eco.md", "eco_search.md", "eco_health.md", "eco_quota.md"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotContains(t, string(data), "Auto generated by spf13/cobra")
	}
}
