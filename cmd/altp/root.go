package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/altp/internal/app"
	"github.com/unkn0wn-root/altp/internal/config"
	"github.com/unkn0wn-root/altp/internal/selector"
)

const envPrefix = "ALTP"

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// envBound lists the flags that may also be set through ALTP_* variables.
var envBound = []string{"dir", "create", "themes-dir", "log-level"}

func newRootCmd(s streams, env config.Env) *cobra.Command {
	v := viper.New()
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "altp [THEME]",
		Short: "Apply a color theme to the Alacritty config",
		Long: heredoc.Doc(`
			Apply a color theme to the Alacritty configuration file.

			The colors table of the chosen theme replaces the colors table of
			alacritty.toml; every other setting is kept. Without a THEME argument
			an interactive picker is shown.
		`),
		Example: heredoc.Doc(`
			altp                 pick a theme interactively
			altp Nord            apply the theme named "Nord"
			altp -l              list available themes
			altp -C              print the active theme
			altp Nord -c -d .    apply into ./alacritty.toml, creating it
		`),
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          maxOneArg,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Theme = args[0]
			}
			opts.Dir = v.GetString("dir")
			opts.Create = v.GetBool("create")
			opts.ThemesDir = v.GetString("themes-dir")

			logger, err := newLogger(s.err, v.GetString("log-level"))
			if err != nil {
				return usageError{err}
			}
			a := &app.App{
				Env:    env,
				Out:    s.out,
				Picker: selector.Picker{In: s.in, Out: s.err},
				Log:    logger,
			}
			return a.Run(opts)
		},
	}
	cmd.SetIn(s.in)
	cmd.SetOut(s.out)
	cmd.SetErr(s.err)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := cmd.Flags()
	flags.BoolVarP(&opts.List, "list", "l", false, "Print a list of available themes")
	flags.BoolVarP(&opts.Current, "current", "C", false, "Print the current theme name")
	flags.StringP("dir", "d", "", "Directory holding alacritty.toml and altp.toml (default: per-user config dir)")
	flags.BoolP("create", "c", false, "Create the Alacritty config file if it does not exist")
	flags.String("themes-dir", "", "Directory to read themes from (default: ./themes, then the altp config dir)")
	flags.BoolVar(&opts.InstallThemes, "install-themes", false, "Copy the bundled themes into the altp config dir")
	flags.String("log-level", "warn", "Diagnostic log level (debug, info, warn, error)")

	bindEnv(v, flags)
	return cmd
}

func bindEnv(v *viper.Viper, flags *pflag.FlagSet) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range envBound {
		// Lookup never fails for names registered above.
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

func maxOneArg(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "altp",
		Level:  lvl,
	}), nil
}

// run executes the command and maps its error to an exit code.
func run(args []string, s streams, env config.Env) int {
	cmd := newRootCmd(s, env)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return app.ExitOK
	}

	var uerr usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(s.err, "Error: %v\nRun '%s --help' for usage.\n", uerr.err, cmd.Name())
		return app.ExitUsage
	}

	failure := app.Describe(err)
	w := s.out
	if failure.Stream == app.Stderr {
		w = s.err
	}
	fmt.Fprintln(w, failure.Message)
	return failure.Code
}
