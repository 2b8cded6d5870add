package langmap

import (
	"path"
	"strings"
)

// file extension (lowercase, without the dot) -> language name. the
// names are the ones chroma knows lexers by.
var extensionTable = map[string]string{
	"c": "c",
	"h": "c",
	"cc": "cpp",
	"cpp": "cpp",
	"cxx": "cpp",
	"hpp": "cpp",
	"cs": "csharp",
	"css": "css",
	"scss": "scss",
	"less": "less",
	"go": "go",
	"mod": "go",
	"html": "html",
	"htm": "html",
	"xml": "xml",
	"svg": "xml",
	"java": "java",
	"kt": "kotlin",
	"kts": "kotlin",
	"js": "javascript",
	"mjs": "javascript",
	"cjs": "javascript",
	"jsx": "jsx",
	"ts": "typescript",
	"tsx": "tsx",
	"json": "json",
	"md": "markdown",
	"markdown": "markdown",
	"org": "org",
	"py": "python",
	"rb": "ruby",
	"rs": "rust",
	"php": "php",
	"swift": "swift",
	"scala": "scala",
	"sh": "bash",
	"bash": "bash",
	"zsh": "bash",
	"ps1": "powershell",
	"sql": "sql",
	"yaml": "yaml",
	"yml": "yaml",
	"toml": "toml",
	"ini": "ini",
	"lua": "lua",
	"pl": "perl",
	"r": "r",
	"dart": "dart",
	"ex": "elixir",
	"exs": "elixir",
	"erl": "erlang",
	"hs": "haskell",
	"ml": "ocaml",
	"clj": "clojure",
	"el": "emacs-lisp",
	"scm": "scheme",
	"lisp": "common-lisp",
	"vue": "vue",
	"proto": "protobuf",
	"tf": "terraform",
	"zig": "zig",
	"nim": "nim",
	"tex": "tex",
	"diff": "diff",
	"patch": "diff",
}

// whole file names that say more than their extension.
var filenameTable = map[string]string{
	"makefile": "makefile",
	"gnumakefile": "makefile",
	"dockerfile": "docker",
	"cmakelists.txt": "cmake",
	"go.sum": "text",
	".gitignore": "text",
}

// Detect returns the language name for a file path, or "" when
// unknown.
func Detect(p string) string {
	base := strings.ToLower(path.Base(p))
	if l, ok := filenameTable[base]; ok { return l }
	ext := strings.TrimPrefix(path.Ext(base), ".")
	if ext == "" { return "" }
	return extensionTable[ext]
}
