package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"repair-pool.com/repair-pool/internal/constants"
	model "repair-pool.com/repair-pool/internal/models"
)

var residentCmd = &cobra.Command{
	Use:   "resident",
	Short: "Manage the resident directory",
}

var (
	residentName     string
	residentEmail    string
	residentRole     string
	residentInactive bool
)

var residentUpsertCmd = &cobra.Command{
	Use:   "upsert <id>",
	Short: "Create or update a resident and their role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := constants.Role(residentRole)
		if !role.Valid() {
			return fmt.Errorf("unknown role %q (owner, council or admin)", residentRole)
		}

		app := bootstrap()
		defer app.Close()

		resident := &model.Resident{
			ID:     args[0],
			Name:   residentName,
			Email:  residentEmail,
			Role:   role,
			Active: !residentInactive,
		}
		if err := app.residents.Upsert(context.Background(), resident); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "resident %s saved as %s (active=%t)\n", resident.ID, resident.Role, resident.Active)
		return nil
	},
}

var residentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active residents",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := bootstrap()
		defer app.Close()

		residents, err := app.residents.ListByRoles(context.Background(),
			constants.RoleOwner, constants.RoleCouncil, constants.RoleAdmin)
		if err != nil {
			return err
		}

		for _, r := range residents {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.ID, r.Role, r.Email)
		}
		return nil
	},
}

func init() {
	residentUpsertCmd.Flags().StringVar(&residentName, "name", "", "display name")
	residentUpsertCmd.Flags().StringVar(&residentEmail, "email", "", "notification address")
	residentUpsertCmd.Flags().StringVar(&residentRole, "role", string(constants.RoleOwner), "owner, council or admin")
	residentUpsertCmd.Flags().BoolVar(&residentInactive, "inactive", false, "mark the resident as inactive")

	residentCmd.AddCommand(residentUpsertCmd, residentListCmd)
	rootCmd.AddCommand(residentCmd)
}
