package fsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
)

func newSourceFS() *Filesystem {
	mockFS := filesystem.NewMockFileSystem()
	mockFS.AddFile("/project/src/Kernel.php", nil, 0o644)
	mockFS.AddFile("/project/src/Sub/Foo.php", nil, 0o644)
	mockFS.AddFile("/project/src/Sub/Deep/Bar.php", nil, 0o644)
	mockFS.AddFile("/project/src/Sub/readme.md", nil, 0o644)
	mockFS.AddFile("/project/src/Tests/FooTest.php", nil, 0o644)
	mockFS.AddFile("/project/src/Go/main.go", nil, 0o644)
	return NewWithFS(mockFS)
}

func TestQualifiedName(t *testing.T) {
	tests := []struct {
		namespace string
		relPath   string
		separator string
		want      string
	}{
		{"App", "Sub/Foo.src", "", `App\Sub\Foo`},
		{"App", "Foo.php", `\`, `App\Foo`},
		{`Vendor\Pkg`, "A/B/C.php", `\`, `Vendor\Pkg\A\B\C`},
		{"github.com/acme/app", "internal/store.go", "/", "github.com/acme/app/internal/store"},
		{"acme", "models/user.py", ".", "acme.models.user"},
		{"", "Foo.php", `\`, `\Foo`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, QualifiedName(tt.namespace, tt.relPath, tt.separator), tt.relPath)
	}
}

func TestGetSourcesFromDirectory(t *testing.T) {
	got, err := newSourceFS().GetSourcesFromDirectory("/project/src", "App", Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		`App\Kernel`,
		`App\Sub\Deep\Bar`,
		`App\Sub\Foo`,
		`App\Tests\FooTest`,
	}, got)
}

func TestGetSourcesFromDirectory_ExclusionAndSeparator(t *testing.T) {
	opts := Options{
		Extension: "go",
		Separator: "/",
		Excluded:  []string{"/project/src/Tests"},
	}

	got, err := newSourceFS().GetSourcesFromDirectory("/project/src", "example.com/app", opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/app/Go/main"}, got)
}

func TestGetClassesFromDirectory_FiltersByRegistry(t *testing.T) {
	registry := NewSymbolSet(`App\Kernel`, `App\Sub\Foo`, `App\Unrelated`)

	got, err := newSourceFS().GetClassesFromDirectory("/project/src", "App", registry, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{`App\Kernel`, `App\Sub\Foo`}, got)
}

func TestGetClassesFromDirectory_RegistryFunc(t *testing.T) {
	var asked []string
	registry := RegistryFunc(func(name string) bool {
		asked = append(asked, name)
		return name == `App\Sub\Deep\Bar`
	})

	got, err := newSourceFS().GetClassesFromDirectory("/project/src", "App", registry,
		Options{Excluded: []string{"/project/src/Tests"}})
	require.NoError(t, err)

	assert.Equal(t, []string{`App\Sub\Deep\Bar`}, got)
	assert.Equal(t, []string{`App\Kernel`, `App\Sub\Deep\Bar`, `App\Sub\Foo`}, asked)
}

func TestGetClassesFromDirectory_NilRegistry(t *testing.T) {
	got, err := newSourceFS().GetClassesFromDirectory("/project/src", "App", nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetSourcesFromDirectory_MissingDirectory(t *testing.T) {
	_, err := newSourceFS().GetSourcesFromDirectory("/project/lib", "App", Options{})
	assert.ErrorIs(t, err, ErrDirectoryNotExists)
}

func TestSymbolSet(t *testing.T) {
	s := NewSymbolSet("b", " a ", "")
	s.Add("   ")

	assert.True(t, s.Exists("a"))
	assert.False(t, s.Exists(" a "))
	assert.Equal(t, []string{"a", "b"}, s.Names())
}
