package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"formspec/annotation"
	"formspec/builder"
	"formspec/internal/analyze"
	"formspec/internal/config"
	"formspec/internal/document"
	"formspec/internal/logging"
)

// app carries the state shared by subcommands once flags are parsed.
type app struct {
	configFile string
	dir        string
	patterns   []string
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "formspec",
		Short: "Build form specifications from annotated structs",
		Long: `formspec reads form metadata from struct tags or YAML metadata documents
and prints the resulting form specification, the realized form tree or the
JSON Schema of the data the form accepts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./formspec.yaml)")
	flags.StringVarP(&a.dir, "dir", "C", ".", "directory packages are loaded from")
	flags.StringSliceVarP(&a.patterns, "pkg", "p", []string{"./..."}, "package patterns to load")
	flags.StringSlice("document", nil, "YAML metadata documents to read instead of Go source")
	flags.String("tag-key", "", "struct tag key holding form metadata (default form)")
	flags.Bool("preserve-order", false, "keep declared order instead of priority order")
	flags.String("log-level", "warn", "log level")
	flags.Bool("log-development", false, "human readable log output")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.init(cmd, flags)
	}

	root.PersistentPostRun = func(*cobra.Command, []string) {
		if a.logger != nil {
			_ = a.logger.Sync()
		}
	}

	root.AddCommand(
		newSpecCmd(a),
		newTreeCmd(a),
		newClassesCmd(a),
		newKindsCmd(),
		newVersionCmd(),
	)

	return root
}

var flagKeys = map[string]string{
	"document":        config.KeyDocuments,
	"tag-key":         config.KeyTagKey,
	"preserve-order":  config.KeyPreserveDefinedOrder,
	"log-level":       config.KeyLogLevel,
	"log-development": config.KeyLogDevelopment,
	"format":          config.KeyFormat,
}

func (a *app) init(cmd *cobra.Command, persistent *pflag.FlagSet) error {
	if a.noColor {
		color.NoColor = true
	}

	v := config.New(a.dir, a.configFile)
	if err := bindFlags(v, persistent, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}

func bindFlags(v *viper.Viper, sets ...*pflag.FlagSet) error {
	for _, set := range sets {
		for name, key := range flagKeys {
			f := set.Lookup(name)
			if f == nil {
				continue
			}

			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	return nil
}

// provider returns the metadata provider selected by the configuration:
// YAML documents when any are configured, Go source otherwise.
func (a *app) provider(ctx context.Context) (annotation.Provider, error) {
	if len(a.cfg.Documents) > 0 {
		cat, err := document.LoadCatalogs(a.cfg.Documents, nil)
		if err != nil {
			return nil, err
		}

		return cat, nil
	}

	src, err := a.source(ctx)
	if err != nil {
		return nil, err
	}

	return src, nil
}

func (a *app) source(ctx context.Context) (*analyze.SourceProvider, error) {
	var opts []analyze.SourceOption
	if a.cfg.Builder.TagKey != "" {
		opts = append(opts, analyze.WithTagKey(a.cfg.Builder.TagKey))
	}

	a.logger.Debug("loading packages", zap.String("dir", a.dir), zap.Strings("patterns", a.patterns))

	return analyze.Load(ctx, a.dir, a.patterns, opts...)
}

func (a *app) builder(ctx context.Context) (*builder.Builder, error) {
	p, err := a.provider(ctx)
	if err != nil {
		return nil, err
	}

	return builder.New(
		builder.WithProvider(p),
		builder.WithPreserveDefinedOrder(a.cfg.Builder.PreserveDefinedOrder),
		builder.WithLogger(a.logger),
	), nil
}

// tagKey returns the configured struct tag key.
func (a *app) tagKey() string {
	if a.cfg.Builder.TagKey != "" {
		return a.cfg.Builder.TagKey
	}

	return annotation.DefaultTagKey
}
