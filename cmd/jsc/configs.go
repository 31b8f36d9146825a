package main

import (
	"github.com/scott-cotton/cli"

	"github.com/PermanChronicles/json-lsp-og/config"
	"github.com/PermanChronicles/json-lsp-og/dialect"
)

type MainConfig struct {
	Dialect string `cli:"name=dialect desc='dialect of documents without $schema'"`
	Config  string `cli:"name=config desc='settings file (yaml or json)'"`
	Color   bool   `cli:"name=color desc='color output even when not a terminal'"`

	settings *config.Settings
	reg      dialect.Registry

	Main *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Filter string `cli:"name=filter desc='only report diagnostics matching this expression'"`
	Quiet  bool   `cli:"name=q aliases=quiet desc='print nothing, only set the exit status'"`

	Check *cli.Command
}

type ResourcesConfig struct {
	*MainConfig

	Resources *cli.Command
}

type GetConfig struct {
	*MainConfig
	Resource int `cli:"name=r desc='index of the resource to query'"`

	Get *cli.Command
}

type AtConfig struct {
	*MainConfig

	At *cli.Command
}
