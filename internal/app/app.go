package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/unkn0wn-root/altp/internal/config"
	"github.com/unkn0wn-root/altp/internal/theme"
)

const (
	colorsKey     = "colors"
	authorKey     = "author"
	stateThemeKey = "theme"

	defaultThemeName = "default"
	unknownAuthor    = "unknown"
	selectPrompt     = "Select a theme"
)

// Picker asks the user to choose one of items and returns its index.
type Picker interface {
	Pick(prompt string, items []string, initial int) (int, error)
}

type Options struct {
	Theme         string
	List          bool
	Current       bool
	Dir           string
	Create        bool
	ThemesDir     string
	InstallThemes bool
}

type App struct {
	Env    config.Env
	Out    io.Writer
	Picker Picker
	Log    *log.Logger
}

// Run executes exactly one mode. Modes are checked in order: install, list,
// current, apply.
func (a *App) Run(opts Options) error {
	if a.Log == nil {
		a.Log = log.New(io.Discard)
	}
	a.Log.Debug("resolved paths",
		"target", a.Env.TargetConfigPath(opts.Dir),
		"state", a.Env.StatePath(opts.Dir),
	)
	switch {
	case opts.InstallThemes:
		return a.installThemes()
	case opts.List:
		return a.list(opts)
	case opts.Current:
		return a.current(opts)
	default:
		return a.apply(opts)
	}
}

func (a *App) installThemes() error {
	dst := a.Env.ThemesDir()
	n, err := theme.Install(dst)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.Out, "Installed %d themes into %s\n", n, dst)
	return err
}

func (a *App) catalog(opts Options) (theme.Catalog, error) {
	dir := theme.ResolveDir(a.Env, opts.ThemesDir)
	catalog, err := theme.LoadCatalog(dir)
	if err != nil {
		if theme.IsMissingDir(err) {
			return theme.Catalog{}, fmt.Errorf("%w (run `altp --install-themes` to install the bundled themes)", err)
		}
		return theme.Catalog{}, err
	}
	a.Log.Debug("loaded themes", "dir", dir, "count", catalog.Len())
	return catalog, nil
}

func (a *App) list(opts Options) error {
	catalog, err := a.catalog(opts)
	if err != nil {
		return err
	}
	return theme.PrintAll(a.Out, catalog)
}

func (a *App) current(opts Options) error {
	path := a.Env.StatePath(opts.Dir)
	doc, _, err := config.LoadOrCreate(path, false)
	if err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			return fmt.Errorf("%w: %s", ErrStateMissing, path)
		}
		return err
	}
	name, ok := doc.GetString(stateThemeKey)
	if !ok {
		name = defaultThemeName
	}
	_, err = fmt.Fprintln(a.Out, name)
	return err
}

func (a *App) apply(opts Options) error {
	catalog, err := a.catalog(opts)
	if err != nil {
		return err
	}
	chosen, err := a.choose(catalog, opts.Theme)
	if err != nil {
		return err
	}
	a.Log.Debug("applying theme", "name", chosen.Name, "path", chosen.Path)

	def, err := config.Load(chosen.Path)
	if err != nil {
		return err
	}
	colors, ok := def.Get(colorsKey)
	if !ok {
		return fmt.Errorf("%w: %s", ErrThemeNoColors, chosen.Path)
	}

	targetPath := a.Env.TargetConfigPath(opts.Dir)
	target, err := a.loadOrCreate(targetPath, opts.Create)
	if err != nil {
		return err
	}
	updated := target.Clone()
	updated.Set(colorsKey, colors)
	if err := config.Write(targetPath, updated); err != nil {
		return err
	}

	statePath := a.Env.StatePath(opts.Dir)
	state, err := a.loadOrCreate(statePath, true)
	if err != nil {
		return err
	}
	author, ok := def.GetString(authorKey)
	if !ok {
		author = unknownAuthor
	}
	state.Set(stateThemeKey, chosen.Name)
	state.Set(authorKey, author)
	return config.Write(statePath, state)
}

func (a *App) choose(catalog theme.Catalog, name string) (theme.Theme, error) {
	if name != "" {
		t, _, ok := catalog.Find(name)
		if !ok {
			return theme.Theme{}, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
		}
		return t, nil
	}
	if catalog.Len() == 0 {
		return theme.Theme{}, theme.ErrNoThemes
	}
	idx, err := a.Picker.Pick(selectPrompt, catalog.Names(), 0)
	if err != nil {
		return theme.Theme{}, err
	}
	all := catalog.All()
	if idx < 0 || idx >= len(all) {
		return theme.Theme{}, fmt.Errorf("selection %d out of range", idx)
	}
	return all[idx], nil
}

func (a *App) loadOrCreate(path string, create bool) (config.Document, error) {
	doc, created, err := config.LoadOrCreate(path, create)
	if err != nil {
		return nil, err
	}
	if created {
		a.Log.Debug("created config", "path", path)
		if _, err := fmt.Fprintf(a.Out, "Config file created at %s\n", path); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
