package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	assert.Equal(t, home, Expand("~"))
	assert.Equal(t, filepath.Join(home, ".nutrimap", "journal.db"), Expand("~/.nutrimap/journal.db"))
	assert.Equal(t, "/tmp/journal.db", Expand("/tmp/journal.db"))
	assert.Equal(t, "~other/x", Expand("~other/x"))
	assert.Equal(t, "", Expand(""))
}
