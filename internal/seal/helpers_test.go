package seal

import (
	"os"
	"path/filepath"
	"testing"
)

// Known-answer vectors computed with an independent SHA3-256 implementation.
const (
	sha3Hello = "3338be694f50c5f338814986cdf0686453a888b84f424d792af4b9202398f392"
	sha3World = "420baf620e3fcd9b3715b42b92506e9304d56e02d3a103499a3a292560cb66b2"
	sha3Empty = "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"

	// root over a.txt:<hello>, b/c.txt:<world>
	helloWorldRoot = "0482bd3db534643b34e599270b67c82531a04c0e9cfcf4b1373d8cd0349e3315"
	// same entries, reversed
	helloWorldRootReversed = "bd4468eb541396ae196a178132a4f54eef355d6ecb6d7c52aa7fef5611df64c8"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// helloWorldCorpus lays out a.txt and b/c.txt in a temp dir and makes it the
// working directory so entry paths are relative.
func helloWorldCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello")
	writeFile(t, dir, "b/c.txt", "world")
	chdir(t, dir)
	return dir
}

// chdir changes the working directory to dir and restores it when the test
// ends (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Chdir: %v", err)
		}
	})
}
