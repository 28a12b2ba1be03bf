package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutorapp/tutorapp/pkg/models/api"
	"github.com/tutorapp/tutorapp/pkg/services/config"
	"github.com/tutorapp/tutorapp/pkg/store/client"
)

// FetchCmd queries a running server instead of the local database.
type FetchCmd struct {
	env          *Env
	period       periodFlags
	profile      string
	profilesPath string
	pdf          string
}

func NewFetchCmd(env *Env) *cobra.Command {
	fc := &FetchCmd{env: env}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch revenue from a remote server profile",
		RunE:  fc.run,
	}
	fc.period.register(cmd)
	cmd.Flags().StringVar(&fc.profile, "profile", "default", "Profile name in the profiles file")
	cmd.Flags().StringVar(&fc.profilesPath, "profiles", "", "Path to the profiles file (default is $HOME/.tutorapprc)")
	cmd.Flags().StringVar(&fc.pdf, "pdf", "", "Also download the PDF report to this file")
	return cmd
}

func (fc *FetchCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	path := fc.profilesPath
	if path == "" {
		var err error
		if path, err = config.DefaultProfilesPath(); err != nil {
			return err
		}
	}
	registry, err := config.NewRegistry(path)
	if err != nil {
		return err
	}
	profile, err := registry.GetProfile(ctx, fc.profile)
	if err != nil {
		return err
	}

	c, err := client.NewRevenueClient(profile.URL, client.Options{Token: profile.Token})
	if err != nil {
		return err
	}

	res, err := c.GetRevenue(ctx, api.RevenueQuery{
		TutorID:   fc.period.tutorID,
		Range:     fc.period.rng,
		CourseID:  fc.period.courseID,
		StudentID: fc.period.studentID,
		StartDate: fc.period.from,
		EndDate:   fc.period.to,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch revenue: %w", err)
	}

	enc := json.NewEncoder(fc.env.out())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}

	if fc.pdf == "" {
		return nil
	}
	start, end := fc.period.from, fc.period.to
	if start == "" {
		start, end = res.StartDate, res.EndDate
	}
	doc, err := c.GeneratePDF(ctx, api.GeneratePDFRequest{
		TutorID:   fc.period.tutorID,
		StartDate: start,
		EndDate:   end,
		StudentID: fc.period.studentID,
	})
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	data, err := client.DecodePDF(doc.PDFData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(fc.pdf, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	_, err = fmt.Fprintf(fc.env.out(), "Report %s written to %s\n", doc.Filename, fc.pdf)
	return err
}
