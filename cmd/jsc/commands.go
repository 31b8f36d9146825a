package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "jsc").
		WithSynopsis("jsc [opts] command [opts]").
		WithDescription("jsc inspects and checks JSON Schema documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return jscMain(cfg, cc, args)
		}).
		WithSubs(
			CheckCommand(cfg),
			ResourcesCommand(cfg),
			GetCommand(cfg),
			AtCommand(cfg))
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [-filter expr] files").
		WithDescription("Validate schemas against their dialect and report diagnostics. " +
			"The filter is an expression over kind, keyword, message, severity, pointer, line and col.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func ResourcesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResourcesConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Resources, "resources").
		WithAliases("r", "res").
		WithSynopsis("resources file").
		WithDescription("List the schema resources of a document in discovery order.").
		WithRun(func(cc *cli.Context, args []string) error {
			return resources(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get [-r n] pointer file").
		WithDescription("Print the value at a JSON pointer or anchor fragment of a resource.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func AtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AtConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.At, "at").
		WithSynopsis("at offset file").
		WithDescription("Describe the node at a byte offset.").
		WithRun(func(cc *cli.Context, args []string) error {
			return at(cfg, cc, args)
		})
}
