package git

import (
	"os/exec"
	"testing"
)

// requireGit skips the test if git-upload-pack is not available; go-git's
// file transport spawns it for local clones.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not found in PATH")
	}
}
