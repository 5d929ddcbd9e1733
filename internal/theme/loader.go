package theme

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/unkn0wn-root/altp/internal/config"
)

// ErrNoThemes is returned when the themes directory holds no theme files.
var ErrNoThemes = errors.New("no themes available")

type Theme struct {
	Name string
	Path string
}

type Catalog struct {
	order []Theme
	index map[string]int
}

func (c Catalog) All() []Theme {
	out := make([]Theme, len(c.order))
	copy(out, c.order)
	return out
}

func (c Catalog) Len() int {
	return len(c.order)
}

func (c Catalog) Names() []string {
	return lo.Map(c.order, func(t Theme, _ int) string { return t.Name })
}

// Find looks a theme up by its exact name. Duplicate names resolve to the
// first entry in catalog order.
func (c Catalog) Find(name string) (Theme, int, bool) {
	if c.index == nil {
		return Theme{}, -1, false
	}
	idx, ok := c.index[name]
	if !ok {
		return Theme{}, -1, false
	}
	return c.order[idx], idx, true
}

func (c *Catalog) add(t Theme) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, exists := c.index[t.Name]; !exists {
		c.index[t.Name] = len(c.order)
	}
	c.order = append(c.order, t)
}

// ResolveDir picks the themes directory: explicit wins, then ./themes in the
// working directory, then the themes directory under the tool's config dir.
func ResolveDir(env config.Env, explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	local := filepath.Join(env.Cwd, "themes")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	return env.ThemesDir()
}

// LoadCatalog parses every file in dir. A single unreadable or malformed
// entry fails the whole load.
func LoadCatalog(dir string) (Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Catalog{}, fmt.Errorf("themes: read directory %q: %w", dir, err)
	}

	themes := make([]Theme, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		t, err := loadTheme(path)
		if err != nil {
			return Catalog{}, fmt.Errorf("themes: load %q: %w", path, err)
		}
		themes = append(themes, t)
	}
	return assembleCatalog(themes), nil
}

func loadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	doc, err := config.Parse(data)
	if err != nil {
		return Theme{}, err
	}
	name, _ := doc.GetString("name")
	if strings.TrimSpace(name) == "" {
		name = NameFromPath(path)
	}
	return Theme{Name: name, Path: path}, nil
}

// NameFromPath strips the directory and the final extension from path.
// Both slash styles are treated as separators.
func NameFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return base
	}
	return name
}

func assembleCatalog(themes []Theme) Catalog {
	sort.SliceStable(themes, func(i, j int) bool {
		left := strings.ToLower(themes[i].Name)
		right := strings.ToLower(themes[j].Name)
		if left == right {
			return filepath.Base(themes[i].Path) < filepath.Base(themes[j].Path)
		}
		return left < right
	})
	var catalog Catalog
	for _, t := range themes {
		catalog.add(t)
	}
	return catalog
}

func PrintAll(w io.Writer, catalog Catalog) error {
	for _, name := range catalog.Names() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// IsMissingDir reports whether err came from a themes directory that does
// not exist.
func IsMissingDir(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
