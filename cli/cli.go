package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/formula/cli/cmd"
	"github.com/ardnew/formula/pkg"
)

// CLI is the top-level command-line interface for formula.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source     []string `help:"Read formulas from file(s), or '-' for stdin"           sep:"none" short:"s" type:"existingfile"`
	Whitespace bool     `help:"Accept whitespace between tokens"                                  short:"w"`
	Cache      bool     `default:"true" help:"Cache parse trees by source text" negatable:""`
	Quotes     string   `help:"Characters accepted as string delimiters" placeholder:"CHARS"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Eval   cmd.Eval   `cmd:"" default:"withargs" help:"Evaluate formulas"`
	Parse  cmd.Parse  `cmd:""                    help:"Print the syntax tree of formulas"`
	Tokens cmd.Tokens `cmd:""                    help:"Print the token stream of formulas"`
	Ops    cmd.Ops    `cmd:""                    help:"Print the operator precedence table"`
	Init   cmd.Init   `cmd:""                    help:"Write global flags to the configuration file"`
}

// Run executes the formula CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Boolean logger flags have no UnmarshalText hook, so apply them before
	// kong reports any parse error.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithGrammar(ctx, cmd.Grammar{
		Quotes:     cli.Quotes,
		Whitespace: cli.Whitespace,
		Cache:      cli.Cache,
	})

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
