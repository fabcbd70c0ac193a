package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/usercache-go/internal/cli/output"
	"github.com/yndnr/usercache-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			format, err := output.ParseFormat(c.String("output"))
			if err != nil {
				return err
			}
			info := buildinfo.Get()
			if format != output.FormatTable {
				return output.NewFormatter(format).Format(writer(c), info)
			}

			t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
			t.Append("version", info.Version)
			t.Append("commit", info.Commit)
			t.Append("build_time", info.BuildTime)
			t.Append("go_version", info.GoVersion)
			return output.NewFormatter(format).Format(writer(c), t)
		},
	}
}
