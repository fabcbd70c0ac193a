package command

import (
	"fmt"
	"slices"

	"github.com/knadh/koanf/maps"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/usercache-go/internal/cli/config"
	"github.com/yndnr/usercache-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	flags := append(mapFlags(), workloadFlags()...)
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Flags:  flags,
				Action: configShow,
			},
			{
				Name:      "validate",
				Usage:     "Validate a configuration file",
				ArgsUsage: "[FILE]",
				Action:    configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	format, f, err := formatter(cfg)
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return f.Format(writer(c), cfg)
	}

	table, err := configTable(cfg)
	if err != nil {
		return err
	}
	return f.Format(writer(c), table)
}

func configValidate(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = c.String("config")
	}
	if path == "" {
		return fmt.Errorf("no configuration file given")
	}

	if _, err := config.Load(path, nil); err != nil {
		return err
	}
	fmt.Fprintf(writer(c), "%s: configuration OK\n", path)
	return nil
}

// configTable flattens cfg into one row per dotted key, sorted by key.
func configTable(cfg *config.Config) (*output.Table, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	flat, _ := maps.Flatten(tree, nil, ".")
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	t := &output.Table{Headers: []string{"KEY", "VALUE"}}
	for _, k := range keys {
		t.Append(k, flat[k])
	}
	return t, nil
}
