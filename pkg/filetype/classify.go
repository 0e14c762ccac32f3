package filetype

// Extension tables. The three sets are disjoint; anything else is Unknown.
var (
	// codeLanguages maps code extensions to highlighter language tags.
	codeLanguages = map[string]string{
		".js":         "javascript",
		".jsx":        "jsx",
		".mjs":        "javascript",
		".cjs":        "javascript",
		".ts":         "typescript",
		".tsx":        "tsx",
		".py":         "python",
		".rb":         "ruby",
		".go":         "go",
		".rs":         "rust",
		".java":       "java",
		".kt":         "kotlin",
		".kts":        "kotlin",
		".scala":      "scala",
		".swift":      "swift",
		".c":          "c",
		".h":          "c",
		".cpp":        "cpp",
		".cc":         "cpp",
		".cxx":        "cpp",
		".hpp":        "cpp",
		".cs":         "csharp",
		".php":        "php",
		".pl":         "perl",
		".lua":        "lua",
		".r":          "r",
		".dart":       "dart",
		".ex":         "elixir",
		".exs":        "elixir",
		".erl":        "erlang",
		".hs":         "haskell",
		".clj":        "clojure",
		".sh":         "bash",
		".bash":       "bash",
		".zsh":        "bash",
		".fish":       "fish",
		".ps1":        "powershell",
		".sql":        "sql",
		".html":       "html",
		".htm":        "html",
		".xml":        "xml",
		".css":        "css",
		".scss":       "scss",
		".sass":       "sass",
		".less":       "less",
		".vue":        "vue",
		".svelte":     "svelte",
		".json":       "json",
		".yaml":       "yaml",
		".yml":        "yaml",
		".toml":       "toml",
		".ini":        "ini",
		".md":         "markdown",
		".markdown":   "markdown",
		".txt":        "plaintext",
		".graphql":    "graphql",
		".proto":      "protobuf",
		".tf":         "terraform",
		".dockerfile": "docker",
		".makefile":   "makefile",
		".mk":         "makefile",
		".gradle":     "groovy",
		".groovy":     "groovy",
		".vim":        "vim",
		".gitignore":  "plaintext",
		".env":        "bash",
	}

	imageExtensions = map[string]bool{
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".gif":  true,
		".bmp":  true,
		".svg":  true,
		".webp": true,
		".ico":  true,
		".tif":  true,
		".tiff": true,
	}

	// binaryDescriptions doubles as the binary extension set.
	binaryDescriptions = map[string]string{
		".exe":   "Windows Executable",
		".dll":   "Dynamic Link Library",
		".so":    "Shared Object Library",
		".dylib": "macOS Dynamic Library",
		".bin":   "Binary File",
		".o":     "Object File",
		".a":     "Static Library",
		".class": "Java Class File",
		".jar":   "Java Archive",
		".war":   "Web Application Archive",
		".pyc":   "Compiled Python File",
		".wasm":  "WebAssembly Module",
		".zip":   "ZIP Archive",
		".tar":   "TAR Archive",
		".gz":    "GZIP Archive",
		".tgz":   "GZIP Compressed TAR Archive",
		".bz2":   "BZIP2 Archive",
		".xz":    "XZ Archive",
		".7z":    "7-Zip Archive",
		".rar":   "RAR Archive",
		".pdf":   "PDF Document",
		".doc":   "Microsoft Word Document",
		".docx":  "Microsoft Word Document",
		".xls":   "Microsoft Excel Spreadsheet",
		".xlsx":  "Microsoft Excel Spreadsheet",
		".ppt":   "Microsoft PowerPoint Presentation",
		".pptx":  "Microsoft PowerPoint Presentation",
		".mp3":   "MP3 Audio",
		".wav":   "WAV Audio",
		".ogg":   "OGG Audio",
		".mp4":   "MP4 Video",
		".mov":   "QuickTime Video",
		".avi":   "AVI Video",
		".mkv":   "Matroska Video",
		".ttf":   "TrueType Font",
		".otf":   "OpenType Font",
		".woff":  "Web Open Font Format",
		".woff2": "Web Open Font Format 2",
		".eot":   "Embedded OpenType Font",
		".db":    "Database File",
		".dat":   "Data File",
	}

	imageMimeTypes = map[string]string{
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".gif":  "image/gif",
		".bmp":  "image/bmp",
		".svg":  "image/svg+xml",
		".webp": "image/webp",
		".ico":  "image/x-icon",
		".tif":  "image/tiff",
		".tiff": "image/tiff",
	}

	// specialNames classifies common extension-less build files.
	specialNames = map[string]string{
		"dockerfile":  "docker",
		"makefile":    "makefile",
		"gnumakefile": "makefile",
		"rakefile":    "ruby",
		"gemfile":     "ruby",
		"license":     "plaintext",
		"readme":      "plaintext",
	}
)

const (
	// DefaultMimeType is used for image extensions missing from the mime table.
	DefaultMimeType = "application/octet-stream"
	// DefaultBinaryDescription labels binary files with no specific description.
	DefaultBinaryDescription = "Binary File"
	// PlainText is the language tag used when no grammar applies.
	PlainText = "plaintext"
)

// Classify maps a path to its coarse type and highlighter language tag.
// It is total: unmatched extensions yield Unknown with an empty language.
func Classify(p string) (Type, string) {
	ext := Ext(p)
	if lang, ok := codeLanguages[ext]; ok {
		return Code, lang
	}
	if imageExtensions[ext] {
		return Image, ""
	}
	if _, ok := binaryDescriptions[ext]; ok {
		return Binary, ""
	}
	if ext == "" {
		if lang, ok := specialNames[lowerBase(p)]; ok {
			return Code, lang
		}
	}
	return Unknown, ""
}

// MimeType resolves an image extension to its mime type.
func MimeType(ext string) string {
	if m, ok := imageMimeTypes[normalizeExt(ext)]; ok {
		return m
	}
	return DefaultMimeType
}

// BinaryDescription resolves a binary extension to a human-readable label.
func BinaryDescription(ext string) string {
	if d, ok := binaryDescriptions[normalizeExt(ext)]; ok {
		return d
	}
	return DefaultBinaryDescription
}
