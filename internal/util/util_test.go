package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/blackwell-systems/shelfmap/internal/util"
)

func TestSHA256String(t *testing.T) {
	const want = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got := util.SHA256String("hello world"); got != want {
		t.Errorf("SHA256String = %q, want %q", got, want)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "sub", "catalog.csv")

	if err := util.WriteFileAtomic(dst, []byte("first"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := util.WriteFileAtomic(dst, []byte("second"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic overwrite: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile dst: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", string(got), "second")
	}
	if _, err := os.Stat(dst + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not remain after rename")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	if err := util.EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	fi, err := os.Stat(nested)
	if err != nil {
		t.Fatalf("Stat after EnsureDir: %v", err)
	}
	if !fi.IsDir() {
		t.Error("EnsureDir path is not a directory")
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	cases := []struct{ in, want string }{
		{"~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}
	for _, c := range cases {
		got := util.ExpandHome(c.in)
		if got != c.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInitColor_Disables(t *testing.T) {
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })

	tests := []struct {
		name    string
		flag    bool
		noColor string
	}{
		{"flag", true, ""},
		{"env", false, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color.NoColor = false
			t.Setenv("NO_COLOR", tt.noColor)
			util.InitColor(tt.flag)
			if !color.NoColor {
				t.Error("color still enabled")
			}
		})
	}
}
