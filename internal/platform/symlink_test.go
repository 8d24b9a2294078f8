package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCreateSymlinkFile(t *testing.T) {
	tmp := t.TempDir()

	targetPath := filepath.Join(tmp, "model.safetensors")
	if err := os.WriteFile(targetPath, []byte("weights"), 0644); err != nil {
		t.Fatal(err)
	}

	linkPath := filepath.Join(tmp, "link.safetensors")
	if err := CreateSymlink(targetPath, linkPath); err != nil {
		t.Fatalf("CreateSymlink failed: %v", err)
	}

	data, err := os.ReadFile(linkPath)
	if err != nil {
		t.Fatalf("reading link: %v", err)
	}
	if string(data) != "weights" {
		t.Errorf("link content = %q, want %q", string(data), "weights")
	}
}

func TestCreateSymlinkDirectory(t *testing.T) {
	tmp := t.TempDir()

	targetDir := filepath.Join(tmp, "library", "checkpoints")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(targetDir, "sd.ckpt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	linkPath := filepath.Join(tmp, "models")
	if err := CreateSymlink(targetDir, linkPath); err != nil {
		t.Fatalf("CreateSymlink (directory) failed: %v", err)
	}

	// The directory contents must be visible through the link.
	if _, err := os.Stat(filepath.Join(linkPath, "sd.ckpt")); err != nil {
		t.Errorf("content not reachable through link: %v", err)
	}
}

func TestRemoveSymlinkLeavesTarget(t *testing.T) {
	tmp := t.TempDir()

	targetDir := filepath.Join(tmp, "checkpoints")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(targetDir, "sd.ckpt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	linkPath := filepath.Join(tmp, "models")
	if err := CreateSymlink(targetDir, linkPath); err != nil {
		t.Fatal(err)
	}

	if err := RemoveSymlink(linkPath); err != nil {
		t.Fatalf("RemoveSymlink failed: %v", err)
	}

	if _, err := os.Lstat(linkPath); !os.IsNotExist(err) {
		t.Error("link still exists after RemoveSymlink")
	}
	// Removal must never touch the target.
	if _, err := os.Stat(filepath.Join(targetDir, "sd.ckpt")); err != nil {
		t.Errorf("target content was removed with the link: %v", err)
	}
}

func TestIsSymlink(t *testing.T) {
	tmp := t.TempDir()

	regular := filepath.Join(tmp, "regular.txt")
	if err := os.WriteFile(regular, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(tmp, "link.txt")
	if err := os.Symlink(regular, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := IsSymlink(link)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("IsSymlink(link) = false, want true")
	}

	got, err = IsSymlink(regular)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("IsSymlink(regular) = true, want false")
	}
}

func TestReadSymlinkTarget(t *testing.T) {
	tmp := t.TempDir()

	targetPath := filepath.Join(tmp, "target.txt")
	if err := os.WriteFile(targetPath, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	linkPath := filepath.Join(tmp, "link.txt")
	if err := CreateSymlink(targetPath, linkPath); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSymlinkTarget(linkPath)
	if err != nil {
		t.Fatalf("ReadSymlinkTarget failed: %v", err)
	}
	if got != targetPath {
		t.Errorf("ReadSymlinkTarget = %q, want %q", got, targetPath)
	}
}

func TestIsSymlinkSupported(t *testing.T) {
	result := IsSymlinkSupported()
	// On macOS and Linux, symlinks should always be supported.
	if runtime.GOOS != "windows" && !result {
		t.Error("IsSymlinkSupported returned false on Unix")
	}
}
