package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ducat-dev/ducat/internal/graph"
	"github.com/ducat-dev/ducat/internal/registry"
	"github.com/ducat-dev/ducat/internal/sqlparse"
	"github.com/ducat-dev/ducat/internal/template"
)

// bindFlags binds the executed command's flags into viper. Binding happens
// at run time because several commands register the same key names ("db",
// "s3-*"); viper keeps one binding per key, so init()-time binding would
// leave every command but the last reading another command's flags.
func bindFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// loadGraph loads the unit registry from a definitions directory and
// builds its validated dependency graph. Every load-time failure
// (duplicate name, unset variable, parse error, cycle) surfaces here,
// before anything executes.
func loadGraph(dir string) (*registry.Registry, *graph.Graph, error) {
	loader := registry.NewLoader(sqlparse.NewPostgresParser(), template.New())

	reg, err := loader.Load(registry.NewDirSource(dir))
	if err != nil {
		return nil, nil, err
	}

	g := graph.Build(reg.Units())
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}
	return reg, g, nil
}
