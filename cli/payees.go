package cli

import (
	"github.com/alecthomas/kong"
)

// PayeesCmd lists payees.
type PayeesCmd struct {
	List PayeesListCmd `cmd:"" default:"withargs" help:"List payees sorted by name."`
}

type PayeesListCmd struct{}

func (cmd *PayeesListCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	payees, err := s.Payees(s.ctx)
	if err != nil {
		return err
	}
	if len(payees) == 0 {
		printInfof(ctx.Stdout, "No payees")
		return nil
	}

	t := newTable("Name", "Notes")
	for _, p := range payees {
		t.add(p.Name, p.Notes)
	}
	t.render(ctx.Stdout)
	return nil
}
