package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"coachreports/internal/export"
	"coachreports/internal/i18n"
	"coachreports/internal/repository"
	"coachreports/internal/security"
	"coachreports/internal/service"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// the root command migrates on open
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed")
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "seed FILE",
		Short:   "Load coaches, learners, classes, content and activity from a YAML fixture",
		Example: `  coachctl seed fixtures/demo.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			fixture, err := service.ParseFixture(f)
			if err != nil {
				return err
			}
			summary, err := service.NewSeedService(a.db).Load(cmd.Context(), fixture)
			if err != nil {
				return err
			}

			if err := a.reports().InvalidateAll(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d coaches, %d learners, %d classes, %d content nodes, %d logs\n",
				summary.Coaches, summary.Learners, summary.Classrooms, summary.Nodes, summary.Logs)
			return nil
		},
	}
}

func newClassesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List, create and enroll learners in classes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List classes with their learner counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			classrooms, err := a.classrooms().ListClassrooms(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLEARNERS")
			for _, c := range classrooms {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", c.ID, c.Name, c.LearnerCount)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a class; names are unique ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classroom, err := a.classrooms().CreateClassroom(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created class %q (%s)\n", classroom.Name, classroom.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "learners CLASS",
		Short:   "List the learners enrolled in a class",
		Example: `  coachctl classes learners class-5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			learners, err := a.classrooms().ClassLearners(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tNAME")
			for _, l := range learners {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", l.ID, l.Username, l.FullName)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "enroll CLASS LEARNER",
		Short:   "Enroll a learner, by ID or username, in a class",
		Example: `  coachctl classes enroll class-5 ana`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			classroom, learner, err := a.classrooms().EnrollLearner(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.reports().InvalidateClass(cmd.Context(), classroom.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %s in %s\n", learner.DisplayName(), classroom.Name)
			return nil
		},
	})

	return cmd
}

func newCoachCmd(a *app) *cobra.Command {
	var (
		username string
		fullName string
		password string
		admin    bool
	)

	create := &cobra.Command{
		Use:     "create",
		Short:   "Create a coach account",
		Example: `  coachctl coach create --username alex --name "Alex Coach" --password s3cretpass`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users := repository.NewUserRepository(a.db)
			tokens := security.NewTokenIssuer(a.cfg.JWTSecret, a.cfg.SessionDuration)
			user, err := service.NewAuthService(users, tokens).CreateCoach(cmd.Context(), username, fullName, password, admin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created coach %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "login name")
	create.Flags().StringVar(&fullName, "name", "", "full name")
	create.Flags().StringVar(&password, "password", "", "password, at least 8 characters")
	create.Flags().BoolVar(&admin, "admin", false, "grant admin rights")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("password")

	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Manage coach accounts",
	}
	cmd.AddCommand(create)
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		xlsxPath string
		lang     string
	)

	cmd := &cobra.Command{
		Use:   "report CLASS CHANNEL [TOPIC]",
		Short: "Print a topic report for a class, optionally saving it as a spreadsheet",
		Example: `  coachctl report class-5 maths
  coachctl report class-5 maths fractions --xlsx fractions.xlsx`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicID := ""
			if len(args) == 3 {
				topicID = args[2]
			}

			state, err := a.reports().TopicReport(cmd.Context(), args[0], args[1], topicID)
			if err != nil {
				return err
			}

			loc := i18n.ForRequest("", lang)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s, %s\n\n", state.Scope.Title,
				loc.T("report.exercise_count", state.ExerciseCount),
				loc.T("report.resource_count", state.ContentCount))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				loc.T("report.col.name"), loc.T("report.col.kind"),
				loc.T("report.col.exercise_progress"), loc.T("report.col.resource_progress"),
				loc.T("report.col.time_spent_minutes"), loc.T("report.col.last_activity"))
			for _, row := range state.Rows {
				last := loc.T("time.never")
				if row.LastActive != nil {
					last = row.LastActive.Local().Format(time.DateTime)
				}
				fmt.Fprintf(tw, "%s\t%s\t%.0f%%\t%.0f%%\t%.1f\t%s\n",
					row.Title, loc.T("kind."+string(row.Kind)),
					row.ExerciseProgress*100, row.ContentProgress*100, row.TimeSpent/60, last)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if xlsxPath == "" {
				return nil
			}
			f, err := os.Create(xlsxPath)
			if err != nil {
				return err
			}
			if err := export.WriteReport(f, loc, state); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSaved %s\n", xlsxPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the report to this spreadsheet")
	cmd.Flags().StringVar(&lang, "lang", "en", "report language")
	return cmd
}

func newBackupCmd(a *app) *cobra.Command {
	var output string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the database to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := service.NewBackupService(a.db).ExportToWriter(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			info, err := os.Stat(output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s (%.2f KB)\n", output, float64(info.Size())/1024)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: backup_YYYYMMDD_HHMMSS.json)")

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Restore a JSON backup into an empty database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if err := service.NewBackupService(a.db).ImportFromReader(cmd.Context(), f); err != nil {
				return err
			}
			if err := a.reports().InvalidateAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
			return nil
		},
	}

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import JSON backups",
	}
	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}

func (a *app) classrooms() *service.ClassroomService {
	return service.NewClassroomService(repository.NewClassroomRepository(a.db), repository.NewLearnerRepository(a.db))
}

func (a *app) reports() *service.ReportService {
	return service.NewReportService(
		repository.NewClassroomRepository(a.db),
		repository.NewContentRepository(a.db),
		repository.NewSummaryLogRepository(a.db),
		a.cache,
	)
}
