package cli

import (
	"github.com/alecthomas/kong"
)

type ExportCmd struct {
	Dir string `arg:"" optional:"" help:"Directory to export into; defaults to the configured export dir." type:"path"`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	dir := cmd.Dir
	if dir == "" {
		dir = s.cfg.ExportDir
	}

	exportDir, err := s.Export(s.ctx, dir)
	if err != nil {
		return err
	}
	printSuccess(ctx.Stdout, "Exported to "+pathStyle.Render(exportDir))
	return nil
}
