package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutorapp/tutorapp/pkg/services/report"
	"github.com/tutorapp/tutorapp/pkg/services/revenue"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb/lesson"
)

type ReportCmd struct {
	env    *Env
	period periodFlags
	out    string
}

func NewReportCmd(env *Env) *cobra.Command {
	rc := &ReportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the PDF revenue report to a file",
		RunE:  rc.run,
	}
	rc.period.register(cmd)
	cmd.Flags().StringVarP(&rc.out, "out", "o", "", "Output file (defaults to the report file name)")
	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := rc.env.config()
	if err != nil {
		return err
	}
	loc, err := cfg.Revenue.Location()
	if err != nil {
		return err
	}
	req, err := rc.period.request(rc.env.now(), loc)
	if err != nil {
		return err
	}

	db, closeDB, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	lessons, err := lesson.NewStore(db)
	if err != nil {
		return err
	}
	manager := revenue.NewManager(lessons, revenue.NewCalculator(cfg.Revenue.DefaultHourlyRate))

	rep, err := manager.BuildReport(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	doc, err := report.NewExporter(report.Options{Compress: cfg.Report.Compress}).Render(rep)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	path := rc.out
	if path == "" {
		path = doc.Filename
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	_, err = fmt.Fprintf(rc.env.out(), "Report written to %s\n", path)
	return err
}
