package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/unkn0wn-root/altp/internal/config"
	"github.com/unkn0wn-root/altp/internal/selector"
)

type fakePicker struct {
	index int
	err   error
	items []string
	calls int
}

func (f *fakePicker) Pick(_ string, items []string, initial int) (int, error) {
	f.calls++
	f.items = items
	if initial != 0 {
		return -1, errors.New("expected cursor to start at the first entry")
	}
	return f.index, f.err
}

type fixture struct {
	app       *App
	out       *bytes.Buffer
	picker    *fakePicker
	themesDir string
	env       config.Env
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	home := t.TempDir()
	themesDir := filepath.Join(t.TempDir(), "themes")
	if err := os.MkdirAll(themesDir, 0o755); err != nil {
		t.Fatalf("mkdir themes: %v", err)
	}
	writeFile(t, filepath.Join(themesDir, "nord.toml"), `
name = "Nord"
author = "Arctic Ice Studio"

[colors.primary]
background = "#2e3440"
foreground = "#d8dee9"
`)
	writeFile(t, filepath.Join(themesDir, "ayu.toml"), `
[colors.primary]
background = "#0a0e14"
`)
	writeFile(t, filepath.Join(themesDir, "broken.toml"), `
name = "Colorless"
author = "nobody"
`)

	env := config.Env{Home: home, GOOS: "linux", Cwd: t.TempDir()}
	out := &bytes.Buffer{}
	picker := &fakePicker{}
	return fixture{
		app: &App{
			Env:    env,
			Out:    out,
			Picker: picker,
		},
		out:       out,
		picker:    picker,
		themesDir: themesDir,
		env:       env,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func assertMissing(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected %s not to exist, stat err: %v", p, err)
		}
	}
}

func TestRunListPrintsSortedNamesWithoutWrites(t *testing.T) {
	f := newFixture(t)

	err := f.app.Run(Options{List: true, ThemesDir: f.themesDir})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got, want := f.out.String(), "ayu\nColorless\nNord\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	assertMissing(t, f.env.TargetConfigPath(""), f.env.StatePath(""))
}

func TestRunListTakesPriorityOverCurrent(t *testing.T) {
	f := newFixture(t)

	if err := f.app.Run(Options{List: true, Current: true, ThemesDir: f.themesDir}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if strings.Contains(f.out.String(), "default") {
		t.Fatalf("expected list mode only, got %q", f.out.String())
	}
}

func TestRunCurrentWithoutStateFile(t *testing.T) {
	f := newFixture(t)

	err := f.app.Run(Options{Current: true})
	if !errors.Is(err, ErrStateMissing) {
		t.Fatalf("expected ErrStateMissing, got %v", err)
	}
	failure := Describe(err)
	if failure.Message != "Config file not found." || failure.Code != 1 || failure.Stream != Stdout {
		t.Fatalf("unexpected failure %+v", failure)
	}
}

func TestRunCurrentDefaultsWhenThemeKeyAbsent(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.env.StatePath(""), "author = \"someone\"\n")

	if err := f.app.Run(Options{Current: true}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := f.out.String(); got != "default\n" {
		t.Fatalf("expected default, got %q", got)
	}
}

func TestRunApplyByName(t *testing.T) {
	f := newFixture(t)
	target := f.env.TargetConfigPath("")
	writeFile(t, target, `
live_config_reload = true

[font]
size = 11

[colors.primary]
background = "#ffffff"
`)
	before, err := config.Load(target)
	if err != nil {
		t.Fatalf("load target: %v", err)
	}

	if err := f.app.Run(Options{Theme: "Nord", ThemesDir: f.themesDir}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if f.picker.calls != 0 {
		t.Fatalf("expected no interactive prompt when a name is given")
	}

	after, err := config.Load(target)
	if err != nil {
		t.Fatalf("reload target: %v", err)
	}
	for key := range before {
		if key == "colors" {
			continue
		}
		if diff := cmp.Diff(before[key], after[key]); diff != "" {
			t.Fatalf("key %q changed (-before +after):\n%s", key, diff)
		}
	}
	wantColors := map[string]any{
		"primary": map[string]any{"background": "#2e3440", "foreground": "#d8dee9"},
	}
	if diff := cmp.Diff(wantColors, after["colors"]); diff != "" {
		t.Fatalf("unexpected colors (-want +got):\n%s", diff)
	}

	state, err := config.Load(f.env.StatePath(""))
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	want := config.Document{"theme": "Nord", "author": "Arctic Ice Studio"}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("unexpected state (-want +got):\n%s", diff)
	}
	if !strings.Contains(f.out.String(), "Config file created at "+f.env.StatePath("")) {
		t.Fatalf("expected state creation notice, got %q", f.out.String())
	}

	f.out.Reset()
	if err := f.app.Run(Options{Current: true}); err != nil {
		t.Fatalf("Run current returned error: %v", err)
	}
	if got := f.out.String(); got != "Nord\n" {
		t.Fatalf("expected Nord, got %q", got)
	}
}

func TestRunApplyInteractiveWithCreate(t *testing.T) {
	f := newFixture(t)
	f.picker.index = 0

	if err := f.app.Run(Options{Create: true, ThemesDir: f.themesDir}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"ayu", "Colorless", "Nord"}, f.picker.items); diff != "" {
		t.Fatalf("unexpected picker items (-want +got):\n%s", diff)
	}
	target := f.env.TargetConfigPath("")
	if !strings.Contains(f.out.String(), "Config file created at "+target) {
		t.Fatalf("expected target creation notice, got %q", f.out.String())
	}
	state, err := config.Load(f.env.StatePath(""))
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	want := config.Document{"theme": "ayu", "author": "unknown"}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("unexpected state (-want +got):\n%s", diff)
	}
}

func TestRunApplyUnknownThemeWritesNothing(t *testing.T) {
	f := newFixture(t)

	err := f.app.Run(Options{Theme: "nord", Create: true, ThemesDir: f.themesDir})
	if !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	failure := Describe(err)
	if failure.Message != "Theme not found" || failure.Stream != Stderr || failure.Code != 1 {
		t.Fatalf("unexpected failure %+v", failure)
	}
	assertMissing(t, f.env.TargetConfigPath(""), f.env.StatePath(""))
}

func TestRunApplyMissingTargetWithoutCreate(t *testing.T) {
	f := newFixture(t)

	err := f.app.Run(Options{Theme: "Nord", ThemesDir: f.themesDir})
	if !errors.Is(err, config.ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
	failure := Describe(err)
	if !strings.Contains(failure.Message, "--create") || failure.Code != 1 {
		t.Fatalf("unexpected failure %+v", failure)
	}
	assertMissing(t, f.env.TargetConfigPath(""), f.env.StatePath(""))
}

func TestRunApplyThemeWithoutColors(t *testing.T) {
	f := newFixture(t)

	err := f.app.Run(Options{Theme: "Colorless", Create: true, ThemesDir: f.themesDir})
	if !errors.Is(err, ErrThemeNoColors) {
		t.Fatalf("expected ErrThemeNoColors, got %v", err)
	}
	if Describe(err).Code == 0 {
		t.Fatalf("expected non-zero exit code")
	}
	assertMissing(t, f.env.TargetConfigPath(""), f.env.StatePath(""))
}

func TestRunApplyWithDirOverride(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(t.TempDir(), "override")

	if err := f.app.Run(Options{Theme: "Nord", Dir: dir, Create: true, ThemesDir: f.themesDir}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, name := range []string{"alacritty.toml", "altp.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s under override dir: %v", name, err)
		}
	}
	assertMissing(t, f.env.TargetConfigPath(""), f.env.StatePath(""))

	f.out.Reset()
	if err := f.app.Run(Options{Current: true, Dir: dir}); err != nil {
		t.Fatalf("Run current returned error: %v", err)
	}
	if got := f.out.String(); got != "Nord\n" {
		t.Fatalf("expected Nord, got %q", got)
	}
}

func TestRunApplyCancelledSelection(t *testing.T) {
	f := newFixture(t)
	f.picker.err = selector.ErrCancelled

	err := f.app.Run(Options{Create: true, ThemesDir: f.themesDir})
	if !errors.Is(err, selector.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if Describe(err).Code != ExitCancelled {
		t.Fatalf("expected exit code %d", ExitCancelled)
	}
	assertMissing(t, f.env.TargetConfigPath(""), f.env.StatePath(""))
}

func TestRunMissingThemesDirSuggestsInstall(t *testing.T) {
	f := newFixture(t)

	err := f.app.Run(Options{List: true})
	if err == nil {
		t.Fatalf("expected error for missing themes directory")
	}
	if !strings.Contains(err.Error(), "--install-themes") {
		t.Fatalf("expected install hint, got %v", err)
	}
}

func TestRunInstallThenList(t *testing.T) {
	f := newFixture(t)

	if err := f.app.Run(Options{InstallThemes: true}); err != nil {
		t.Fatalf("install returned error: %v", err)
	}
	if !strings.HasPrefix(f.out.String(), "Installed ") {
		t.Fatalf("unexpected install output %q", f.out.String())
	}

	f.out.Reset()
	if err := f.app.Run(Options{List: true}); err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if !strings.Contains(f.out.String(), "Dracula\n") {
		t.Fatalf("expected installed themes to be listed, got %q", f.out.String())
	}
}

func TestDescribeFallsBackToGenericFailure(t *testing.T) {
	failure := Describe(errors.New("boom"))
	if failure.Message != "altp: boom" || failure.Stream != Stderr || failure.Code != ExitFailure {
		t.Fatalf("unexpected failure %+v", failure)
	}
	if Describe(nil).Code != ExitOK {
		t.Fatalf("expected nil error to map to exit 0")
	}
}
