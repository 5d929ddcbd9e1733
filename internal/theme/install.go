package theme

import (
	"embed"
	"fmt"
	"io/fs"

	cp "github.com/otiai10/copy"
)

//go:embed bundled/*.toml
var bundled embed.FS

const bundledRoot = "bundled"

// Bundled lists the file names of the themes shipped with the binary.
func Bundled() ([]string, error) {
	entries, err := fs.ReadDir(bundled, bundledRoot)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// Install copies the bundled themes into dst, creating it when needed.
// Files already present under the same name are overwritten.
func Install(dst string) (int, error) {
	names, err := Bundled()
	if err != nil {
		return 0, fmt.Errorf("themes: list bundled: %w", err)
	}
	opts := cp.Options{
		FS:                bundled,
		PermissionControl: cp.AddPermission(0o200),
	}
	if err := cp.Copy(bundledRoot, dst, opts); err != nil {
		return 0, fmt.Errorf("themes: install into %q: %w", dst, err)
	}
	return len(names), nil
}
