package command

import (
	commandHandler "wanderlust/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(NewCommand, commandHandler.NewIdentityHandler)

type Command struct {
	identityCommandHandler *commandHandler.IdentityHandler
}

// NewCommand .
func NewCommand(
	identityCommandHandler *commandHandler.IdentityHandler,
) *Command {
	return &Command{
		identityCommandHandler: identityCommandHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	seedAdmin := &cobra.Command{
		Use:   "seed-admin",
		Short: "create an admin identity, or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()

			return command.identityCommandHandler.SeedAdmin(cmd, args)
		},
	}
	seedAdmin.Flags().String("name", "Administrator", "display name")
	seedAdmin.Flags().String("email", "", "admin email")
	seedAdmin.Flags().String("password", "", "admin password (8-72 characters)")
	_ = seedAdmin.MarkFlagRequired("email")
	_ = seedAdmin.MarkFlagRequired("password")

	rootCmd.AddCommand(
		seedAdmin,
		&cobra.Command{
			Use:   "reconcile-profiles",
			Short: "recompute profileComplete for every identity",
			RunE: func(cmd *cobra.Command, args []string) error {
				command, cleanup, err := newCmd()
				if err != nil {
					return err
				}
				defer cleanup()

				return command.identityCommandHandler.ReconcileProfiles(cmd, args)
			},
		},
	)
}
