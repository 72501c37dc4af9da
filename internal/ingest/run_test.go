package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRunFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run2022.csv")
	content := "Log Dist. [ft],Event Description,Depth [%]\n10000.5,External Metal Loss,35\n10250,Girth Weld,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := LoadRunFile(path, "")
	require.NoError(t, err)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "10000.5", rows[0].Distance)
		assert.Equal(t, "External Metal Loss", rows[0].FeatureType)
	}
}

func TestLoadRunFile_XLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"2022": {
			{"Log Dist. [ft]", "Event Description", "Depth [%]"},
			{"10000.5", "External Metal Loss", "35"},
		},
	})

	rows, err := LoadRunFile(path, "2022")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "10000.5", rows[0].Distance)
}

func TestLoadRunFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := LoadRunFile(path, "")
	assert.Error(t, err)
}
