package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
	"github.com/tutorapp/tutorapp/pkg/services/config"
	"github.com/tutorapp/tutorapp/pkg/services/revenue"
	"github.com/tutorapp/tutorapp/pkg/store/sqldb"
	"github.com/tutorapp/tutorapp/pkg/validation"
)

// Env is shared by every command. ConfigPath is bound to the root
// --config flag.
type Env struct {
	ConfigPath string
	Output     io.Writer
	Now        func() time.Time
}

func (e *Env) out() io.Writer {
	if e.Output == nil {
		return os.Stdout
	}
	return e.Output
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) config() (*config.Config, error) {
	cfg, err := config.LoadConfig(e.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := sqldb.NewDB(sqldb.Settings{
		Driver:  cfg.Database.Driver,
		DSN:     cfg.Database.DSN,
		Migrate: cfg.Database.Migrate,
		Verbose: cfg.Database.Verbose,
	})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}

// periodFlags are the filters shared by summary, report and fetch.
type periodFlags struct {
	tutorID   string
	courseID  string
	studentID string
	rng       string
	from      string
	to        string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.tutorID, "tutor", "", "Tutor id")
	cmd.Flags().StringVar(&p.courseID, "course", "", "Only lessons of this course")
	cmd.Flags().StringVar(&p.studentID, "student", "", "Only this student's share")
	cmd.Flags().StringVar(&p.rng, "range", "month", "Bucket granularity: day, week, month, quarter or year")
	cmd.Flags().StringVar(&p.from, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&p.to, "to", "", "Last day, YYYY-MM-DD")

	_ = cmd.MarkFlagRequired("tutor")
	cmd.MarkFlagsRequiredTogether("from", "to")
}

func (p *periodFlags) request(now time.Time, loc *time.Location) (domain.RevenueRequest, error) {
	g, err := domain.ParseGranularity(p.rng)
	if err != nil {
		return domain.RevenueRequest{}, err
	}
	now = now.In(loc)

	req := domain.RevenueRequest{
		TutorID:     p.tutorID,
		CourseID:    p.courseID,
		StudentID:   p.studentID,
		Granularity: g,
		Now:         now,
	}
	if p.from == "" && p.to == "" {
		req.Period = revenue.DefaultPeriod(now, g)
		return req, nil
	}

	if req.Period.Start, err = validation.ParseDate(p.from, loc); err != nil {
		return domain.RevenueRequest{}, err
	}
	if req.Period.End, err = validation.ParseDate(p.to, loc); err != nil {
		return domain.RevenueRequest{}, err
	}
	if req.Period.End.Before(req.Period.Start) {
		return domain.RevenueRequest{}, fmt.Errorf("--to (%s) is before --from (%s)", p.to, p.from)
	}
	return req, nil
}
