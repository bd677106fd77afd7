// Package largefile decides whether a file is too large to read whole and
// finds the project's large files at session start.
package largefile

import (
	"path/filepath"
	"strings"
)

// Category is the coarse file type derived from the extension.
type Category string

const (
	Binary  Category = "binary"
	Code    Category = "code"
	Data    Category = "data"
	Unknown Category = "unknown"
)

var binaryExts = setOf(
	"png", "jpg", "jpeg", "gif", "bmp", "ico", "webp", "tif", "tiff", "psd",
	"pdf", "zip", "tar", "gz", "tgz", "bz2", "xz", "7z", "rar", "iso", "dmg",
	"exe", "dll", "so", "dylib", "bin", "o", "a", "class", "jar", "war",
	"pyc", "pyo", "whl", "egg", "wasm",
	"woff", "woff2", "ttf", "otf", "eot",
	"mp3", "mp4", "wav", "avi", "mov", "mkv", "flac", "ogg", "webm",
	"sqlite", "sqlite3", "db", "parquet",
)

var codeExts = setOf(
	"py", "pyi", "js", "jsx", "mjs", "cjs", "ts", "tsx", "go", "rs", "java",
	"kt", "kts", "scala", "rb", "php", "c", "h", "cc", "cpp", "cxx", "hpp",
	"hh", "cs", "swift", "m", "mm", "sh", "bash", "zsh", "fish", "lua", "pl",
	"pm", "r", "dart", "ex", "exs", "erl", "hs", "clj", "elm", "vue",
	"svelte", "sql", "proto",
)

var dataExts = setOf(
	"json", "jsonl", "ndjson", "yaml", "yml", "csv", "tsv", "xml", "toml",
	"ini", "cfg", "conf", "env", "properties",
)

func setOf(exts ...string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}

// Classify maps path to a Category by its lowercased extension. Every path,
// including one without an extension, maps to exactly one Category.
func Classify(path string) Category {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch {
	case ext == "":
		return Unknown
	case binaryExts[ext]:
		return Binary
	case codeExts[ext]:
		return Code
	case dataExts[ext]:
		return Data
	}
	return Unknown
}

// RecommendTool names the navigation tool suggested for a category.
func RecommendTool(c Category) string {
	switch c {
	case Code:
		return "Serena"
	case Data:
		return "Grep"
	}
	return "Read offset/limit"
}
