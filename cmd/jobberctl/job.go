package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"jobber/internal/app"
	"jobber/internal/model"
	"jobber/internal/usecase/listing"

	"github.com/spf13/cobra"
)

func buildJobCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage job listings",
	}
	cmd.AddCommand(buildJobCreateCommand())
	cmd.AddCommand(buildJobReviewCommand())
	cmd.AddCommand(buildJobBroadcastCommand())
	return cmd
}

func buildJobCreateCommand() *cobra.Command {
	var in listing.Input
	var jobType, contactMethod, remoteWork int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job listing (unpublished, pending review)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *app.Container) error {
				in.Fields.JobType = model.JobType(jobType)
				in.Fields.ContactMethod = model.ContactMethod(contactMethod)
				in.Fields.RemoteWork = model.RemoteWork(remoteWork)

				job, err := c.Listings.Submit(ctx, in)
				if err != nil {
					return err
				}
				fmt.Printf("Job (%d) %q created, pending review.\n", job.ID, job.Title)
				fmt.Printf("Edit link: %s%s\n", c.Config.App.BaseURL, job.EditURLPath())
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Fields.Title, "title", "", "Job title")
	f.StringVar(&in.Fields.Description, "description", "", "Job description")
	f.IntVar(&jobType, "job-type", int(model.JobTypeFullTime), "Job type code")
	f.IntVar(&contactMethod, "contact-method", int(model.ContactMethodEmail), "Contact method code")
	f.StringVar(&in.Fields.ContactEmail, "contact-email", "", "Application email")
	f.StringVar(&in.Fields.ContactURL, "contact-url", "", "Application URL")
	f.IntVar(&remoteWork, "remote-work", int(model.RemoteWorkNo), "Remote work code")
	f.StringVar(&in.Fields.RecruiterName, "recruiter-name", "", "Recruiter name")
	f.StringVar(&in.Fields.RecruiterEmail, "recruiter-email", "", "Recruiter email")
	f.Int64Var(&in.CompanyID, "company-id", 0, "Existing company id")
	f.StringVar(&in.CompanyName, "company-name", "", "Company name")
	f.StringVar(&in.CompanyWebsite, "company-website", "", "Company website")
	f.Int64Var(&in.LocationID, "location-id", 0, "Existing location id")
	f.StringVar(&in.City, "city", "", "City")
	f.StringVar(&in.CountryCode, "country-code", "", "ISO 3166-1 alpha-3 country code")
	f.StringSliceVar(&in.Tags, "tags", nil, "Tags")

	return cmd
}

func buildJobReviewCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "review <job-id>",
		Short: "Review a job: publish it, or unpublish an already published one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			return withContainer(func(ctx context.Context, c *app.Container) error {
				job, err := c.Store.Jobs().GetByID(ctx, id)
				if err != nil {
					return err
				}

				fmt.Println("You're reviewing the following job:")
				printJobSummary(job, c.Config.App.BaseURL)

				action := "publish"
				if job.Published {
					action = "unpublish"
				}
				if !yes && !confirm(fmt.Sprintf("Do you want to %s this job?", action)) {
					fmt.Println("Bye.")
					return nil
				}

				if job.Published {
					_, err = c.Listings.Unpublish(ctx, job.ID)
				} else {
					_, err = c.Listings.ApproveViaWeb(ctx, job.ID)
				}
				if err != nil {
					return err
				}
				fmt.Printf("Job %sed!\n", action)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func buildJobBroadcastCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "broadcast <job-id> <service>",
		Short: "Broadcast a job to a social service webhook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			return withContainer(func(ctx context.Context, c *app.Container) error {
				job, err := c.Store.Jobs().GetByID(ctx, id)
				if err != nil {
					return err
				}

				record, err := c.Broadcasts.BroadcastJob(ctx, job, args[1])
				if err != nil {
					return err
				}
				if !record.Success {
					return fmt.Errorf("broadcast to %q was recorded but delivery failed", args[1])
				}
				fmt.Println("Great, broadcasting was successful.")
				return nil
			})
		},
	}
	return cmd
}

func printJobSummary(job *model.Job, baseURL string) {
	company, website := "", ""
	if job.Company != nil {
		company, website = job.Company.Name, job.Company.Website
	}
	city, country := "", ""
	if job.Location != nil {
		city, country = job.Location.City, job.Location.CountryCode
	}

	fmt.Printf(`
    Title: %s

    Type: %s
    Remote Work: %s

    Company: %s
    Company Website: %s

    City: %s
    Country Code: %s

    Tags: %s

    Published: %t

    %s

    => You can also view this job online at %s%s.

`,
		job.Title, job.JobType.Label(), job.RemoteWork.Label(),
		company, website, city, country,
		strings.Join(job.TagSlugs(), ", "), job.Published,
		job.Description, baseURL, job.EditURLPath())
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
