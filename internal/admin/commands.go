package admin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/server/config"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
	"github.com/dmitrijs2005/farmportal/internal/server/services"
)

// NewRootCommand builds the farmportal-admin command tree. cfg supplies the
// defaults that --dsn overrides; stdin feeds interactive prompts.
func NewRootCommand(cfg *config.Config, open Opener, stdin io.Reader) *cobra.Command {
	reader := bufio.NewReader(stdin)

	rootCmd := &cobra.Command{
		Use:           "farmportal-admin",
		Short:         "Operator tools for the farm portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "PostgreSQL connection string")

	withBackend := func(cmd *cobra.Command, fn func(b Backend) error) error {
		b, err := open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer b.Close()
		return fn(b)
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(b Backend) error {
				if err := b.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}

	officialCmd := &cobra.Command{
		Use:   "official",
		Short: "Manage government officials",
	}

	var in services.RegisterOfficialInput
	officialAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a government official; the password is read from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var err error
			if in.EmpID == "" {
				if in.EmpID, err = GetSimpleText(reader, "Employee ID", out); err != nil {
					return err
				}
			}
			if in.Username == "" {
				if in.Username, err = GetSimpleText(reader, "Username", out); err != nil {
					return err
				}
			}

			pw, err := GetPassword(out)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			defer common.WipeByteArray(pw)
			in.Password = string(pw)

			return withBackend(cmd, func(b Backend) error {
				o, err := b.RegisterOfficial(cmd.Context(), in)
				switch {
				case errors.Is(err, common.ErrorAlreadyExists):
					return fmt.Errorf("employee %q or username %q already registered", in.EmpID, in.Username)
				case errors.Is(err, common.ErrorValidation):
					return fmt.Errorf("employee id, username and password are required")
				case err != nil:
					return err
				}
				fmt.Fprintf(out, "official %s (%s) registered\n", o.Username, o.EmpID)
				return nil
			})
		},
	}
	officialAddCmd.Flags().StringVar(&in.EmpID, "emp-id", "", "employee id")
	officialAddCmd.Flags().StringVar(&in.Username, "username", "", "login name")
	officialAddCmd.Flags().StringVar(&in.DOB, "dob", "", "date of birth (YYYY-MM-DD)")
	officialAddCmd.Flags().StringVar(&in.JoinedDate, "joined", "", "joining date (YYYY-MM-DD)")
	officialAddCmd.Flags().StringVar(&in.Profession, "profession", "", "profession")
	officialAddCmd.Flags().StringVar(&in.Gender, "gender", "", "gender")
	officialCmd.AddCommand(officialAddCmd)

	schemeCmd := &cobra.Command{
		Use:   "scheme",
		Short: "Review scheme applications",
	}

	var farmID int64
	schemeListCmd := &cobra.Command{
		Use:   "list",
		Short: "List scheme applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(b Backend) error {
				apps, err := b.ListSchemes(cmd.Context(), farmID)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tFARM ID\tFARMER\tSCHEME\tAPPLIED\tSTATUS")
				for _, a := range apps {
					fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", a.ID, a.FarmID, a.FarmerName, a.Name, a.DateApplied, a.State())
				}
				return tw.Flush()
			})
		},
	}
	schemeListCmd.Flags().Int64Var(&farmID, "farmer", 0, "only this farmer's applications")

	schemeShowCmd := &cobra.Command{
		Use:   "show <scheme-id>",
		Short: "Show one scheme application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSchemeID(args[0])
			if err != nil {
				return err
			}
			return withBackend(cmd, func(b Backend) error {
				a, err := b.GetScheme(cmd.Context(), id)
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("scheme %d not found", id)
				}
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "ID:\t%d\n", a.ID)
				fmt.Fprintf(tw, "Farm ID:\t%d\n", a.FarmID)
				fmt.Fprintf(tw, "Scheme:\t%s\n", a.Name)
				fmt.Fprintf(tw, "Applied:\t%s\n", a.DateApplied)
				fmt.Fprintf(tw, "Status:\t%s\n", a.State())
				return tw.Flush()
			})
		},
	}

	schemeCmd.AddCommand(schemeListCmd, schemeShowCmd,
		transitionCommand("approve", models.ActionApprove, withBackend),
		transitionCommand("disapprove", models.ActionDisapprove, withBackend),
	)

	rootCmd.AddCommand(migrateCmd, officialCmd, schemeCmd)
	return rootCmd
}

func transitionCommand(use string, action models.SchemeAction, withBackend func(*cobra.Command, func(Backend) error) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <scheme-id>",
		Short: "Mark a scheme application as " + string(action) + "d",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSchemeID(args[0])
			if err != nil {
				return err
			}
			return withBackend(cmd, func(b Backend) error {
				err := b.Transition(cmd.Context(), id, action)
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("scheme %d not found", id)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "scheme %d %sd\n", id, action)
				return nil
			})
		},
	}
}

func parseSchemeID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid scheme id %q", arg)
	}
	return id, nil
}
