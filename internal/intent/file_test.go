package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDraft(t *testing.T) {
	d, err := ParseDraft("---\nlabel: Pirate speak\n---\nRewrite like a pirate.\n", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "Pirate speak", d.Label)
	assert.Equal(t, "Rewrite like a pirate.", d.Instruction)

	d, err = ParseDraft("Just the instruction", "haiku")
	require.NoError(t, err)
	assert.Equal(t, "haiku", d.Label)
	assert.Equal(t, "Just the instruction", d.Instruction)

	_, err = ParseDraft("---\nlabel: x\n", "f")
	assert.Error(t, err)
	_, err = ParseDraft("---\nlabel: x\n---\n   \n", "f")
	assert.Error(t, err)
	_, err = ParseDraft("---\nlabel: [\n---\nbody", "f")
	assert.Error(t, err)
}

func TestLoadDrafts(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	write("b-haiku.md", "Write a haiku.")
	write("a-pirate.md", "---\r\nlabel: Pirate\r\n---\r\nTalk like a pirate.\r\n")
	write("empty.md", "")
	write("notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0755))

	drafts, errs := LoadDrafts(dir)
	require.Len(t, drafts, 2)
	assert.Len(t, errs, 1)

	assert.Equal(t, "Pirate", drafts[0].Label)
	assert.Equal(t, "Talk like a pirate.", drafts[0].Instruction)
	assert.Equal(t, "b-haiku", drafts[1].Label)
	assert.Equal(t, filepath.Join(dir, "b-haiku.md"), drafts[1].Path)

	_, errs = LoadDrafts(filepath.Join(dir, "missing"))
	assert.Len(t, errs, 1)
}
