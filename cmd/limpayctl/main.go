// Command limpayctl runs operator tasks against the LimPay database.
package main

import (
	"fmt"
	"os"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/config"
	"limpay/internal/core/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

// opener loads configuration and connects to the database
type opener func() (*config.Config, *gorm.DB, error)

func main() {
	if err := newRootCmd(openFromEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openFromEnv() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newRootCmd(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "limpayctl",
		Short:         "LimPay operator tools",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd(open))
	rootCmd.AddCommand(seedCmd(open))
	rootCmd.AddCommand(createAdminCmd(open))
	rootCmd.AddCommand(auditCmd(open))

	return rootCmd
}

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := open()
			if err != nil {
				return err
			}
			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func seedCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the fee catalog and the configured admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := open()
			if err != nil {
				return err
			}
			if err := config.NewSeeder(db, cfg).Run(); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seed data is in place")
			return nil
		},
	}
}

func createAdminCmd(open opener) *cobra.Command {
	var id, name, email, pass string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator account. Flags left empty fall back to
ADMIN_ID, ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD.

Examples:
  limpayctl create-admin --id registrar --email registrar@limpay.edu --password '...'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := open()
			if err != nil {
				return err
			}

			admin := cfg.Admin
			if id != "" {
				admin.ID = id
			}
			if name != "" {
				admin.Name = name
			}
			if email != "" {
				admin.Email = email
			}
			if pass != "" {
				admin.Password = pass
			}

			user, err := config.CreateAdmin(db, admin)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s <%s>\n", user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "admin user id")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&pass, "password", "", "login password (min 6 characters)")

	return cmd
}

func auditCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check every fee balance against its paid amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := open()
			if err != nil {
				return err
			}

			rows, err := services.NewAuditService(repositories.NewFeeRepository(db), "").RunAudit(cmd.Context())
			if err != nil {
				return fmt.Errorf("audit: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, uf := range rows {
				fmt.Fprintf(out, "%s\t%s\ttotal=%s\tpaid=%s\tbalance=%s\n",
					uf.UserID, uf.FeeID, uf.TotalAmount, uf.PaidAmount, uf.Balance)
			}
			if len(rows) > 0 {
				return fmt.Errorf("%d ledger discrepancies found", len(rows))
			}
			fmt.Fprintln(out, "Ledger is consistent")
			return nil
		},
	}
}
