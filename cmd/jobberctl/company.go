package main

import (
	"context"
	"fmt"

	"jobber/internal/app"
	"jobber/internal/model"

	"github.com/spf13/cobra"
)

func buildCompanyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage companies",
	}
	cmd.AddCommand(buildCompanyCreateCommand())
	return cmd
}

func buildCompanyCreateCommand() *cobra.Command {
	var website string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *app.Container) error {
				company, err := model.NewCompany(args[0], website)
				if err != nil {
					return err
				}
				if err := c.Store.Companies().Create(ctx, company); err != nil {
					return err
				}
				fmt.Printf("Company (%d) %q created.\n", company.ID, company.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&website, "website", "", "Company website URL")
	return cmd
}
