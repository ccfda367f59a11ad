package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/larapida/go-webnode/internal/backend"
	"github.com/larapida/go-webnode/internal/domain"
	"github.com/larapida/go-webnode/internal/service"
	"github.com/larapida/go-webnode/internal/storage"
	"github.com/larapida/go-webnode/pkg/config"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage api-service users",
	Long:  `Commands for managing users in the configured storage backend.`,
}

var userHashPassword string

var userHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Hash a password",
	Long:  `Print the bcrypt hash of a password, suitable for storage.seed entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userHashPassword == "" {
			return fmt.Errorf("--password is required")
		}
		hash, err := service.HashPassword(userHashPassword)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var (
	userAddEmail    string
	userAddPassword string
	userAddAdmin    bool
)

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user",
	Long:  `Create a user in the storage backend named by the configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userAddEmail == "" {
			return fmt.Errorf("--email is required")
		}
		if userAddPassword == "" {
			return fmt.Errorf("--password is required")
		}

		return withBackend(cmd.Context(), func(ctx context.Context, cfg *config.Config, store backend.Backend) error {
			auth := service.NewAuthService(store.Users(), cfg.JWT, zap.NewNop())
			user, err := auth.Register(ctx, userAddEmail, userAddPassword, userAddAdmin)
			if errors.Is(err, service.ErrUserExists) {
				return fmt.Errorf("user %s already exists", userAddEmail)
			}
			if err != nil {
				return err
			}
			return printUser(cmd, user)
		})
	},
}

var userGetEmail string

var userGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a user",
	Long:  `Look up a user by email in the configured storage backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userGetEmail == "" {
			return fmt.Errorf("--email is required")
		}

		return withBackend(cmd.Context(), func(ctx context.Context, _ *config.Config, store backend.Backend) error {
			user, err := store.Users().GetByEmail(ctx, userGetEmail)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("user %s not found", userGetEmail)
			}
			if err != nil {
				return err
			}
			return printUser(cmd, user)
		})
	},
}

func withBackend(ctx context.Context, fn func(context.Context, *config.Config, backend.Backend) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	store, err := backend.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(ctx, cfg, store)
}

func printUser(cmd *cobra.Command, user *domain.User) error {
	if output == "json" {
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), data)
	}

	printTable(cmd.OutOrStdout(),
		[]string{"ID", "EMAIL", "ADMIN", "CREATED"},
		[][]string{{user.ID.String(), user.Email, strconv.FormatBool(user.IsAdmin), user.CreatedAt.Format(time.RFC3339)}},
	)
	return nil
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userHashCmd)
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userGetCmd)

	userHashCmd.Flags().StringVar(&userHashPassword, "password", "", "Password to hash (required)")

	userAddCmd.Flags().StringVar(&userAddEmail, "email", "", "User email (required)")
	userAddCmd.Flags().StringVar(&userAddPassword, "password", "", "User password (required)")
	userAddCmd.Flags().BoolVar(&userAddAdmin, "admin", false, "Grant admin rights")

	userGetCmd.Flags().StringVar(&userGetEmail, "email", "", "User email (required)")
}
