package system

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qadatrack/qada/internal/cli"
	"github.com/qadatrack/qada/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	a, err := ctx.RequireApp()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(a), tea.WithAltScreen())
	ctx.Indicator.Set(func(visible bool) {
		p.Send(tui.SaveIndicatorMsg{Visible: visible})
	})
	defer ctx.Indicator.Set(nil)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
