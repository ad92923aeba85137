package datagrid

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `
version: 1
name: community-pack
tables:
  - definition:
      code: community.table.campaigns
      name: Campaigns
      description: UTM campaign breakdown.
      category: marketing
      columns:
        - field: campaign
          label: Campaign
          searchable: true
        - field: visitors
          label: Visitors
          type: number
          format: number
        - field: started_at
          type: date
      default_sort:
        field: visitors
        direction: desc
    source:
      name: Campaign API
      kind: http
      entry: https://stats.example.com/campaigns
    tags: ["marketing"]
`

func TestDecodeManifest(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(samplePayload))
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)

	table := doc.Tables[0]
	assert.Equal(t, "community.table.campaigns", table.Definition.Code)
	assert.Equal(t, "Campaigns", table.Definition.Name)
	assert.Equal(t, "Campaign API", table.Source.Name)
	assert.Equal(t, SortState{Field: "visitors", Direction: SortDesc}, table.Definition.DefaultSort)
	require.Len(t, table.Definition.Columns, 3)
	assert.Equal(t, TypeString, table.Definition.Columns[0].Type)
	assert.Equal(t, "started_at", table.Definition.Columns[2].Label)
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader("version: 1\ntables: []\nbogus: true\n"))
	require.Error(t, err)
}

func TestDecodeManifestRejectsEmpty(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestDecodeManifestValidation(t *testing.T) {
	cases := map[string]string{
		"version":   "version: 2\ntables: []\n",
		"code":      "tables:\n  - definition:\n      name: X\n      columns: [{field: a}]\n",
		"name":      "tables:\n  - definition:\n      code: x\n      columns: [{field: a}]\n",
		"columns":   "tables:\n  - definition:\n      code: x\n      name: X\n",
		"type":      "tables:\n  - definition:\n      code: x\n      name: X\n      columns: [{field: a, type: money}]\n",
		"duplicate": "tables:\n  - definition: {code: x, name: X, columns: [{field: a}]}\n  - definition: {code: x, name: Y, columns: [{field: a}]}\n",
		"sort":      "tables:\n  - definition: {code: x, name: X, columns: [{field: a}], default_sort: {field: b, direction: asc}}\n",
	}
	for name, payload := range cases {
		_, err := DecodeManifest(strings.NewReader(payload))
		assert.Error(t, err, name)
	}
}

func TestRegistryLoadManifestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePayload), 0o600))

	reg := NewEmptyRegistry()
	doc, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	def, ok := reg.Definition("community.table.campaigns")
	require.True(t, ok)
	assert.Equal(t, "Campaigns", def.Name)

	meta, ok := reg.SourceMetadata("community.table.campaigns")
	require.True(t, ok)
	assert.Equal(t, "http", meta.Kind)
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
