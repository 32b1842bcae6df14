package main

import (
	"context"
	"fmt"

	"jobber/internal/app"
	"jobber/internal/model"

	"github.com/spf13/cobra"
)

func buildLocationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage locations",
	}
	cmd.AddCommand(buildLocationCreateCommand())
	return cmd
}

func buildLocationCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <city> <country-code>",
		Short: "Create a location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *app.Container) error {
				location, err := model.NewLocation(args[0], args[1])
				if err != nil {
					return err
				}
				if err := c.Store.Locations().Create(ctx, location); err != nil {
					return err
				}
				fmt.Printf("Location (%d) %s, %s created.\n",
					location.ID, location.City, location.CountryName())
				return nil
			})
		},
	}
	return cmd
}
