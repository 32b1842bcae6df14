package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"jobber/internal/app"
	"jobber/internal/model"
	"jobber/internal/search"

	"github.com/spf13/cobra"
)

func buildIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Maintain the search index",
	}
	cmd.AddCommand(buildIndexRebuildCommand())
	cmd.AddCommand(buildIndexQueryCommand())
	return cmd
}

func buildIndexRebuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Recreate the search index from the published jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *app.Container) error {
				jobs, err := c.Store.Jobs().ListPublished(ctx, 0, true)
				if err != nil {
					return err
				}

				docs := make([]model.SearchDocument, 0, len(jobs))
				for _, job := range jobs {
					docs = append(docs, job.ToDocument())
				}

				// The container holds the index open; swap in a fresh one.
				if err := c.Index.Close(); err != nil {
					return err
				}
				index, err := search.Create(c.Config.Search.IndexDir)
				if err != nil {
					return err
				}
				c.Index = index

				start := time.Now()
				if err := index.AddDocumentBulk(ctx, docs); err != nil {
					fmt.Fprintln(os.Stderr, "The index was wiped but not repopulated; re-run the rebuild.")
					return err
				}

				fmt.Printf("%d documents added okay in %.2f ms.\n",
					len(docs), float64(time.Since(start).Microseconds())/1000)
				return nil
			})
		},
	}
	return cmd
}

func buildIndexQueryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "query <query>",
		Short: "Search the index and print the matching jobs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *app.Container) error {
				jobs, err := c.Listings.SearchPublished(ctx, args[0], limit)
				if err != nil {
					return err
				}

				if len(jobs) == 0 {
					fmt.Println("No results.")
					return nil
				}
				for _, job := range jobs {
					company := ""
					if job.Company != nil {
						company = job.Company.Name
					}
					fmt.Printf("(%d) %s at %s\n", job.ID, job.Title, company)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	return cmd
}
