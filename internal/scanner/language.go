package scanner

import (
	"path/filepath"
	"strings"
)

// languageByExt is the extension allow-list for reviewable source files.
var languageByExt = map[string]string{
	".js":    "javascript",
	".ts":    "typescript",
	".jsx":   "javascriptreact",
	".tsx":   "typescriptreact",
	".py":    "python",
	".java":  "java",
	".cpp":   "cpp",
	".c":     "c",
	".cs":    "csharp",
	".go":    "go",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".rs":    "rust",
}

// DetectLanguage returns the language for a path, or "" when the
// extension is not on the allow-list.
func DetectLanguage(path string) string {
	return languageByExt[strings.ToLower(filepath.Ext(path))]
}
