package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutorapp/tutorapp/pkg/runtime/terminal/export"
	"github.com/tutorapp/tutorapp/pkg/services/revenue"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb/lesson"
)

type SummaryCmd struct {
	env    *Env
	period periodFlags
}

func NewSummaryCmd(env *Env) *cobra.Command {
	sc := &SummaryCmd{env: env}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the revenue summary of a tutor",
		RunE:  sc.run,
	}
	sc.period.register(cmd)
	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := sc.env.config()
	if err != nil {
		return err
	}
	loc, err := cfg.Revenue.Location()
	if err != nil {
		return err
	}
	req, err := sc.period.request(sc.env.now(), loc)
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

	res, err := manager.GetRevenue(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to compute revenue: %w", err)
	}

	return export.NewReporter(sc.env.out()).Handle(revenue.ReportTitle, res)
}
