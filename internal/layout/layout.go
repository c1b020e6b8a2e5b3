// Package layout is the external Project/filesystem collaborator
// spec.md §1/§6 places outside the core: ModuleName↔path mapping,
// lazy module load, on-demand package creation, and a single
// terminal persistence pass with an optional post-write formatter
// hook.
//
// Path resolution follows topple's compiler/module.StandardResolver's
// try-as-file-then-try-as-package order, under the project root only
// (configured search paths are kept on Layout but not consulted); package
// auto-creation and post-write reformatting follow pyro's
// project.Project.create_package / reformat, generalized from a
// hardcoded isort+black pair to an arbitrary configured command list.
package layout

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"pymove/cst"
	"pymove/importmatch"
	"pymove/internal/filesystem"
	"pymove/project"
	"pymove/pyparse"

	"pymove"
)

// Layout resolves ModuleNames against a project root. SearchPaths holds
// the configured search paths; Resolve does not look in them.
type Layout struct {
	Root        string
	SearchPaths []string
	FS          filesystem.FileSystem
	Logger      *slog.Logger
}

// New builds a Layout rooted at root.
func New(root string, searchPaths []string, fs filesystem.FileSystem, logger *slog.Logger) *Layout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Layout{Root: root, SearchPaths: searchPaths, FS: fs, Logger: logger}
}

func relPath(name importmatch.ModuleName) string {
	return strings.Join(name, string(filepath.Separator))
}

// ModulePath returns the file path a module would live at if it is a
// plain module (not a package): `<root>/<segments>.py`.
func (l *Layout) ModulePath(name importmatch.ModuleName) string {
	return filepath.Join(l.Root, relPath(name)+".py")
}

// PackageInitPath returns the `__init__.py` path for name treated as
// a package.
func (l *Layout) PackageInitPath(name importmatch.ModuleName) string {
	return filepath.Join(l.Root, relPath(name), "__init__.py")
}

// Resolve finds the on-disk file backing name, trying the plain-
// module form first and the package form second, matching
// StandardResolver.ResolveAbsolute's search order.
func (l *Layout) Resolve(name importmatch.ModuleName) (string, error) {
	modPath := l.ModulePath(name)
	if ok, _ := l.FS.Exists(modPath); ok {
		return modPath, nil
	}
	pkgPath := l.PackageInitPath(name)
	if ok, _ := l.FS.Exists(pkgPath); ok {
		return pkgPath, nil
	}
	return "", pymove.NewIOError(name.String(), fmt.Errorf("module not found: tried %s and %s", modPath, pkgPath))
}

// EnsurePackages recursively creates `__init__.py` for every package
// prefix of name (every segment but the last), mirroring
// create_package's own recursive-prefix walk. The leaf segment itself
// is left for the caller to create as a plain module file.
func (l *Layout) EnsurePackages(name importmatch.ModuleName) error {
	for k := 1; k < len(name); k++ {
		prefix := name[:k]
		initPath := l.PackageInitPath(prefix)
		if ok, _ := l.FS.Exists(initPath); ok {
			continue
		}
		l.Logger.Debug("creating package", "package", prefix.String())
		if err := l.FS.WriteFile(initPath, []byte{}, 0o644); err != nil {
			return pymove.NewIOError(prefix.String(), err)
		}
	}
	return nil
}

// AllModuleNames enumerates every module under the layout's root,
// converting each `.py` file's relative path into a ModuleName. A
// package's `__init__.py` names the package itself, not a nested
// `__init__` module; the root's own `__init__.py` yields the empty
// ModuleName. Grounded on pyro's Project.walk_modules
// (`self.root.rglob("*.py")`).
func (l *Layout) AllModuleNames() ([]importmatch.ModuleName, error) {
	files, err := l.FS.ListPyFiles(l.Root, true)
	if err != nil {
		return nil, pymove.NewIOError(l.Root, err)
	}
	var names []importmatch.ModuleName
	for _, f := range files {
		rel, err := filepath.Rel(l.Root, f)
		if err != nil {
			continue
		}
		rel = strings.TrimSuffix(rel, ".py")
		segments := strings.Split(filepath.ToSlash(rel), "/")
		if segments[len(segments)-1] == "__init__" {
			segments = segments[:len(segments)-1]
		}
		names = append(names, importmatch.ModuleName(segments))
	}
	return names, nil
}

// Project lazily loads and terminally persists a set of modules under
// one Layout.
type Project struct {
	Layout    *Layout
	Formatter []string
	Logger    *slog.Logger

	modules map[string]*project.Module
	touched map[string]bool
}

// NewProject builds an empty Project over layout.
func NewProject(layout *Layout, formatter []string, logger *slog.Logger) *Project {
	if logger == nil {
		logger = slog.Default()
	}
	return &Project{
		Layout:    layout,
		Formatter: formatter,
		Logger:    logger,
		modules:   map[string]*project.Module{},
		touched:   map[string]bool{},
	}
}

// Load returns the Module for name, reading and parsing it from disk
// on first access and caching it thereafter.
func (p *Project) Load(name importmatch.ModuleName) (*project.Module, error) {
	key := name.String()
	if m, ok := p.modules[key]; ok {
		return m, nil
	}
	path, err := p.Layout.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := p.Layout.FS.ReadFile(path)
	if err != nil {
		return nil, pymove.NewIOError(key, err)
	}
	tree, err := pyparse.Parse(data)
	if err != nil {
		return nil, pymove.NewIOError(key, err)
	}
	m := project.NewModule(name, tree)
	p.modules[key] = m
	return m, nil
}

// Touch marks name as modified, scheduling it for the next Persist.
func (p *Project) Touch(name importmatch.ModuleName) {
	p.touched[name.String()] = true
}

// CreateDestination loads the destination module if it already
// exists, or creates an empty one (auto-creating its containing
// packages first) when it doesn't.
func (p *Project) CreateDestination(name importmatch.ModuleName) (*project.Module, error) {
	key := name.String()
	if m, ok := p.modules[key]; ok {
		return m, nil
	}
	if _, err := p.Layout.Resolve(name); err == nil {
		return p.Load(name)
	}
	if err := p.Layout.EnsurePackages(name); err != nil {
		return nil, err
	}
	m := project.NewModule(name, &cst.Module{})
	p.modules[key] = m
	p.Touch(name)
	return m, nil
}

// Persist writes every touched module back to disk, in deterministic
// lexicographic order over the module's path segments (spec.md §5),
// running the configured formatter after each write. It returns the
// dotted names of every module it wrote, in write order; on a write
// failure it returns the modules written before it alongside the
// error, per spec.md §4.5 step 7 / §7's IOError propagation.
func (p *Project) Persist() ([]string, error) {
	var names []string
	for key := range p.touched {
		names = append(names, key)
	}
	sort.Strings(names)

	var written []string
	for _, key := range names {
		m := p.modules[key]
		path := p.Layout.ModulePath(m.Name)
		if ok, _ := p.Layout.FS.Exists(p.Layout.PackageInitPath(m.Name)); ok {
			path = p.Layout.PackageInitPath(m.Name)
		}
		src := []byte(pyparse.Print(m.Tree))
		if err := p.Layout.FS.WriteFile(path, src, 0o644); err != nil {
			return written, pymove.NewIOError(key, err)
		}
		written = append(written, key)
		p.runFormatter(path)
	}
	return written, nil
}

func (p *Project) runFormatter(path string) {
	if len(p.Formatter) == 0 {
		return
	}
	args := append(append([]string{}, p.Formatter[1:]...), path)
	cmd := exec.Command(p.Formatter[0], args...)
	if err := cmd.Run(); err != nil {
		p.Logger.Debug("formatter failed", "path", path, "error", err)
	}
}
