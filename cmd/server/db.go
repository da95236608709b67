package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javajoker/product-inventory/internal/database"
	"github.com/javajoker/product-inventory/internal/services"
)

// inventory migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and ensure the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := boot()
		if err != nil {
			return err
		}
		defer database.Close(db)
		logrus.Info("Migrations applied")

		if cfg.Admin.Password == "" {
			return nil
		}
		_, err = services.NewUserService(db).EnsureAdmin(cmd.Context(), cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password)
		return err
	},
}

var seedCount int

// inventory seed --count N
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert random products owned by the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount < 1 {
			return fmt.Errorf("--count must be positive, got %d", seedCount)
		}

		cfg, db, err := boot()
		if err != nil {
			return err
		}
		defer database.Close(db)

		admin, err := services.NewUserService(db).EnsureAdmin(cmd.Context(), cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("failed to prepare admin user: %w", err)
		}

		inserted, err := database.SeedProducts(cmd.Context(), db, admin.ID, seedCount)
		if err != nil {
			return err
		}

		fmt.Printf("Inserted %d of %d products for %s\n", inserted, seedCount, admin.Email)
		return nil
	},
}

var (
	passwordEmail string
	passwordValue string
)

// inventory set-password --email E --password P
var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Set the password of an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := boot()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return services.NewUserService(db).SetPassword(cmd.Context(), &services.SetPasswordRequest{
			Email:    passwordEmail,
			Password: passwordValue,
		})
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 50, "number of products to insert")

	setPasswordCmd.Flags().StringVar(&passwordEmail, "email", "", "account email")
	setPasswordCmd.Flags().StringVar(&passwordValue, "password", "", "new password")
	setPasswordCmd.MarkFlagRequired("email")
	setPasswordCmd.MarkFlagRequired("password")
}
