package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"extension anywhere", []string{"*.log"}, "a/b/debug.log", true},
		{"extension root", []string{"*.log"}, "debug.log", true},
		{"no match", []string{"*.log"}, "main.go", false},
		{"directory pattern file", []string{"node_modules/"}, "web/node_modules/react/index.js", true},
		{"directory pattern dir", []string{"node_modules/"}, "node_modules/", true},
		{"directory pattern not file", []string{"build/"}, "build", false},
		{"plain name matches dir contents", []string{"dist"}, "dist/app.js", true},
		{"anchored", []string{"/vendor"}, "vendor/x.go", true},
		{"anchored not nested", []string{"/vendor"}, "pkg/vendor/x.go", false},
		{"middle slash anchors", []string{"docs/*.md"}, "docs/a.md", true},
		{"middle slash nested", []string{"docs/*.md"}, "x/docs/a.md", false},
		{"star stays in segment", []string{"docs/*.md"}, "docs/sub/a.md", false},
		{"double star middle", []string{"src/**/test.js"}, "src/a/b/test.js", true},
		{"double star middle zero dirs", []string{"src/**/test.js"}, "src/test.js", true},
		{"double star leading", []string{"**/fixtures"}, "x/y/fixtures/data.json", true},
		{"double star trailing", []string{"tmp/**"}, "tmp/a/b", true},
		{"question mark", []string{"file?.txt"}, "file1.txt", true},
		{"question mark no slash", []string{"a?b"}, "a/b", false},
		{"regex chars escaped", []string{"a+b.(c)"}, "a+b.(c)", true},
		{"negation", []string{"*.md", "!README.md"}, "README.md", false},
		{"negation other", []string{"*.md", "!README.md"}, "CHANGES.md", true},
		{"comment and blank", []string{"# *.go", "", "   "}, "main.go", false},
		{"escaped hash", []string{`\#notes`}, "#notes", true},
		{"backslash path", []string{"*.tmp"}, `dir\x.tmp`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(nil, tt.patterns...)
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestMatchWithPattern(t *testing.T) {
	m := New(nil, "*.md", "!README.md")
	ok, p := m.MatchWithPattern("README.md")
	assert.False(t, ok)
	require.NotNil(t, p)
	assert.Equal(t, "!README.md", p.Line)
	assert.Equal(t, 2, p.LineNo)
	assert.Equal(t, 2, m.Len())
}

func TestNilMatcher(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Match("anything"))
	assert.Equal(t, 0, m.Len())
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".repodocignore")
	require.NoError(t, os.WriteFile(file, []byte("# generated\n*.pb.go\n\nthird_party/\n"), 0o644))

	m := New(nil)
	require.NoError(t, m.CompileFile(file))
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Match("api/v1/service.pb.go"))
	assert.True(t, m.Match("third_party/lib.c"))

	require.NoError(t, m.CompileFile(filepath.Join(dir, "missing")))
	assert.Equal(t, 2, m.Len())
}
