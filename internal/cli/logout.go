package cli

import (
	"github.com/spf13/cobra"
)

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored Google credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.HasToken() {
				a.println("not logged in")
				return nil
			}
			if err := a.cfg.RemoveToken(); err != nil {
				return authErrorf("failed to remove token: %v", err)
			}
			a.println("ok")
			return nil
		},
	}
}
