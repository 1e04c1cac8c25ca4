package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"app/Server.java", "java"},
		{"ui/App.TSX", "typescriptreact"},
		{"script.rb", "ruby"},
		{"README.md", ""},
		{"Makefile", ""},
		{"archive.tar.gz", ""},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.path); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestScanDirFindsSourceFiles(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{
		"main.go":        "package main\n",
		"lib/util.py":    "# util\n",
		"web/app.tsx":    "export {}\n",
		"docs/notes.txt": "not source\n",
	})

	s := New(Options{})
	files, err := s.ScanDir(tmp)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(files) != 3 {
		t.Errorf("ScanDir() found %d files, want 3: %v", len(files), files)
	}
}

func TestScanDirSkipsDenyListedDirs(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{
		"main.go":                 "package main\n",
		"node_modules/dep/x.js":   "x\n",
		"dist/bundle.js":          "x\n",
		"target/debug/mainrs.rs":  "x\n",
		"venv/lib/site.py":        "x\n",
		"__pycache__/mod.py":      "x\n",
		"coverage/report.js":      "x\n",
		"build/out.go":            "x\n",
		"src/deep/node_modules/y.ts": "x\n",
	})

	s := New(Options{})
	files, err := s.ScanDir(tmp)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(files) != 1 || filepath.Base(files[0]) != "main.go" {
		t.Errorf("ScanDir() = %v, want only main.go", files)
	}
}

func TestScanDirSkipsHiddenEntries(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{
		"main.go":          "package main\n",
		".hidden.go":       "package hidden\n",
		".config/tool.go":  "package tool\n",
	})

	s := New(Options{})
	files, err := s.ScanDir(tmp)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(files) != 1 {
		t.Errorf("ScanDir() = %v, want only main.go", files)
	}
}

func TestScanDirMaxFileSize(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{
		"small.go": "package a\n",
		"big.go":   "package a\n// " + string(make([]byte, 4096)) + "\n",
	})

	s := New(Options{MaxFileSize: 1024})
	files, err := s.ScanDir(tmp)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(files) != 1 || filepath.Base(files[0]) != "small.go" {
		t.Errorf("ScanDir() = %v, want only small.go", files)
	}
}

func TestScanDirCustomDenyList(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{
		"main.go":          "package main\n",
		"generated/gen.go": "package gen\n",
	})

	s := New(Options{DenyDirs: []string{"generated"}})
	files, err := s.ScanDir(tmp)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(files) != 1 {
		t.Errorf("ScanDir() = %v, want only main.go", files)
	}
}
