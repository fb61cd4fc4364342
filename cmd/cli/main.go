package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	postgresRepo "github.com/gofoodhq/settlement/internal/adapter/repository/postgres"
	"github.com/gofoodhq/settlement/internal/domain"
	"github.com/gofoodhq/settlement/internal/infrastructure/config"
	"github.com/gofoodhq/settlement/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "settlement-cli",
		Short: "Settlement operations CLI",
		Long:  `A command line interface for the settlement and payout API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the settlement API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(unmatchedCmd())
	rootCmd.AddCommand(payoutsCmd())
	rootCmd.AddCommand(vendorCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the reconciliation report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/reconciliation/report")
		},
	}
}

func unmatchedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unmatched",
		Short: "Unmatched inbound payment operations",
	}

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pooled payments awaiting manual reconciliation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON(fmt.Sprintf("/api/v1/reconciliation/unmatched?limit=%d&offset=%d", limit, offset))
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Max rows to return")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")

	var userID string
	resolveCmd := &cobra.Command{
		Use:   "resolve <transaction-id>",
		Short: "Assign a pooled payment to a user and credit their wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			body := fmt.Sprintf(`{"user_id":%q}`, userID)
			return postJSON("/api/v1/reconciliation/unmatched/"+args[0]+"/resolve", body)
		},
	}
	resolveCmd.Flags().StringVar(&userID, "user", "", "User to credit")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(resolveCmd)
	return cmd
}

func payoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payouts",
		Short: "Vendor payout operations",
	}

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List payouts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/reconciliation/payouts?status=" + status)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "failed", "Payout status to list")

	getCmd := &cobra.Command{
		Use:   "get <payout-id>",
		Short: "Show one payout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/payouts/" + args[0])
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(getCmd)
	return cmd
}

func vendorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendor",
		Short: "Vendor catalog operations",
	}

	var (
		id, name, email, bankCode, bankAccount, fee string
	)
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Register or refresh a vendor directly in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" || name == "" || bankCode == "" || bankAccount == "" {
				return fmt.Errorf("--id, --name, --bank-code and --account are required")
			}

			vendor := &domain.Vendor{
				ID:          id,
				Name:        name,
				Email:       email,
				BankCode:    bankCode,
				BankAccount: bankAccount,
				CreatedAt:   time.Now(),
			}
			if fee != "" {
				parsed, err := decimal.NewFromString(fee)
				if err != nil {
					return fmt.Errorf("invalid --fee: %w", err)
				}
				vendor.PlatformFee = &parsed
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
				DatabaseURL: cfg.DatabaseURL,
				MaxConns:    2,
				PingTimeout: timeout,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgresRepo.NewVendorRepository(pool).Upsert(ctx, vendor); err != nil {
				return err
			}

			fmt.Printf("vendor %s registered\n", id)
			return nil
		},
	}
	seedCmd.Flags().StringVar(&id, "id", "", "Vendor ID")
	seedCmd.Flags().StringVar(&name, "name", "", "Vendor display name")
	seedCmd.Flags().StringVar(&email, "email", "", "Vendor contact email")
	seedCmd.Flags().StringVar(&bankCode, "bank-code", "", "Settlement bank code")
	seedCmd.Flags().StringVar(&bankAccount, "account", "", "Settlement account number")
	seedCmd.Flags().StringVar(&fee, "fee", "", "Platform fee override")

	cmd.AddCommand(seedCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration operations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
		},
	}

	cmd.AddCommand(up)
	cmd.AddCommand(down)
	return cmd
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(path, body string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", strings.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
	} else {
		printJSON(decoded)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
