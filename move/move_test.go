package move

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pymove/importmatch"
	"pymove/internal/filesystem"
	"pymove/internal/layout"
	"pymove/project"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// harness writes files into a fresh temp project root and returns a
// Project plus a read helper, mirroring the literal inputs/outputs
// format of spec.md §8's scenario table.
type harness struct {
	t    *testing.T
	root string
	proj *layout.Project
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	root := t.TempDir()
	for name, src := range files {
		path := filepath.Join(root, filepath.FromSlash(name)+".py")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	l := layout.New(root, nil, filesystem.NewFileSystem(testLogger()), testLogger())
	p := layout.NewProject(l, nil, testLogger())
	return &harness{t: t, root: root, proj: p}
}

// newHarnessWithInit writes an __init__.py-backed module, used for
// the S7 __all__ scenario.
func newHarnessWithInit(t *testing.T, initSrc string, files map[string]string) *harness {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "__init__.py"), []byte(initSrc), 0o644))
	for name, src := range files {
		path := filepath.Join(root, filepath.FromSlash(name)+".py")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	l := layout.New(root, nil, filesystem.NewFileSystem(testLogger()), testLogger())
	p := layout.NewProject(l, nil, testLogger())
	return &harness{t: t, root: root, proj: p}
}

func (h *harness) read(name string) string {
	h.t.Helper()
	data, err := os.ReadFile(filepath.Join(h.root, filepath.FromSlash(name)+".py"))
	require.NoError(h.t, err)
	return string(data)
}

func (h *harness) readInit() string {
	h.t.Helper()
	data, err := os.ReadFile(filepath.Join(h.root, "__init__.py"))
	require.NoError(h.t, err)
	return string(data)
}

func motionAt(origin, dest, sym string, line, col int) project.Motion {
	return project.NewMotion(
		importmatch.ParseModuleName(origin),
		importmatch.ParseModuleName(dest),
		sym, line, col,
	)
}

func TestS1FunctionMoveNoReferencesElsewhere(t *testing.T) {
	h := newHarness(t, map[string]string{
		"mod1": "def test():\n    return 1\n",
		"mod2": "",
	})
	_, err := Execute(h.proj, motionAt("mod1", "mod2", "test", 1, 5), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "", h.read("mod1"))
	assert.Equal(t, "def test():\n    return 1\n", h.read("mod2"))
}

func TestS2InternalDependency(t *testing.T) {
	h := newHarness(t, map[string]string{
		"mod1": "def test():\n    return 1\nx = test()\n",
		"mod2": "",
	})
	_, err := Execute(h.proj, motionAt("mod1", "mod2", "test", 1, 5), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "from mod2 import test\nx = test()\n", h.read("mod1"))
	assert.Equal(t, "def test():\n    return 1\n", h.read("mod2"))
}

func TestS3ThirdModuleFromImport(t *testing.T) {
	h := newHarness(t, map[string]string{
		"mod1": "def test():\n    return 1\nx = test()\n",
		"mod2": "",
		"mod3": "from mod1 import test\nx = test()\n",
	})
	_, err := Execute(h.proj, motionAt("mod1", "mod2", "test", 1, 5), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "from mod2 import test\nx = test()\n", h.read("mod3"))
}

func TestS4ThirdModuleAbsoluteImportRewrite(t *testing.T) {
	h := newHarness(t, map[string]string{
		"mod1": "def test():\n    return 1\n",
		"mod2": "",
		"mod3": "import mod1\ny = mod1.test()\n",
	})
	_, err := Execute(h.proj, motionAt("mod1", "mod2", "test", 1, 5), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "from mod2 import test\ny = test()\n", h.read("mod3"))
}

func TestS5MultiAliasSplit(t *testing.T) {
	h := newHarness(t, map[string]string{
		"mod1": "def test():\n    return 1\ny = 2\n",
		"mod2": "",
		"mod3": "from mod1 import test, y\nx = test()\nz = y\n",
	})
	_, err := Execute(h.proj, motionAt("mod1", "mod2", "test", 1, 5), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "from mod1 import y\nfrom mod2 import test\nx = test()\nz = y\n", h.read("mod3"))
}

func TestS6MergeIntoExistingDestinationImport(t *testing.T) {
	h := newHarness(t, map[string]string{
		"mod1": "def test():\n    return 1\n",
		"mod2": "y = 2\n",
		"mod3": "from mod1 import test\nfrom mod2 import y\nx = test()\nz = y\n",
	})
	_, err := Execute(h.proj, motionAt("mod1", "mod2", "test", 1, 5), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "from mod2 import y, test\nx = test()\nz = y\n", h.read("mod3"))
}

func TestS7AllProtection(t *testing.T) {
	h := newHarnessWithInit(t, "from mod1 import test, fn\n__all__ = [\"fn\", \"test\"]\n", map[string]string{
		"mod1": "def test():\n    return 1\ndef fn():\n    return 2\n",
		"mod2": "",
	})
	_, err := Execute(h.proj, motionAt("mod1", "mod2", "test", 1, 5), testLogger())
	require.NoError(t, err)

	got := h.readInit()
	assert.Contains(t, got, "from mod1 import fn")
	assert.Contains(t, got, "from mod2 import test")
	assert.Contains(t, got, "__all__ = [\"fn\", \"test\"]")
}

func TestS8UnsupportedAssignmentTarget(t *testing.T) {
	h := newHarness(t, map[string]string{
		"mod1": "test = other = 1\n",
		"mod2": "",
	})
	_, err := Execute(h.proj, motionAt("mod1", "mod2", "test", 1, 1), testLogger())
	require.Error(t, err)

	assert.Equal(t, "test = other = 1\n", h.read("mod1"))
	assert.Equal(t, "", h.read("mod2"))
}
