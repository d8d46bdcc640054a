package candidates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	input := "name,text,degree,work_experience\n" +
		"Ada,\"compilers, parsers\",CS,7 years\n" +
		"Bob,,,\n"

	records, err := Load(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "compilers, parsers", records[0]["text"])
	assert.Equal(t, "7 years", records[0]["work_experience"])

	assert.Equal(t, "Bob", records[1]["name"])
	assert.Contains(t, records[1], "degree")
	assert.Nil(t, records[1]["degree"])
}

func TestLoadCSVShortRowAndBOM(t *testing.T) {
	t.Parallel()

	records, err := Load(strings.NewReader("\ufeffname,degree\nAda\n"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ada", records[0]["name"])
	assert.Contains(t, records[0], "degree")
	assert.Nil(t, records[0]["degree"])
}

func TestLoadEmpty(t *testing.T) {
	t.Parallel()

	for _, format := range []string{FormatCSV, FormatJSON, FormatYAML} {
		records, err := Load(strings.NewReader(""), format)
		require.NoError(t, err, format)
		assert.Empty(t, records, format)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	input := `
- name: Ada
  text: compilers
  degree: Computer Science
  work_experience: 7 years
- name: Bob
  text: painting
  degree: ~
  work_experience: 2
`
	records, err := Load(strings.NewReader(input), FormatYAML)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Computer Science", records[0]["degree"])
	assert.Nil(t, records[1]["degree"])
	assert.NotNil(t, records[1]["work_experience"])
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	input := `[{"name":"Ada","text":"compilers","degree":null,"work_experience":"3 years"}]`
	records, err := Load(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0]["degree"])
	assert.Equal(t, "3 years", records[0]["work_experience"])
}

func TestLoadUnsupported(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader(""), "xlsx")
	require.Error(t, err)
}

func TestLoadFileDetectsFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "candidates.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,text,degree,work_experience\nAda,go,CS,1\n"), 0o644))

	records, err := LoadFile(path, "")
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, err = LoadFile(filepath.Join(dir, "candidates.txt"), "")
	require.Error(t, err)
}
