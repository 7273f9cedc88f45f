package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/duty-tracker/internal/admin"
)

type openFunc func(ctx context.Context) (*admin.Manager, io.Closer, error)

func newRootCmd(open openFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "manager",
		Short:        "Manage the duty tracker admin user and data",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newCreateAdminCmd(open), newPurgeDataCmd(open))
	return rootCmd
}

func newCreateAdminCmd(open openFunc) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, open, func(m *admin.Manager) error {
				if err := m.CreateAdmin(cmd.Context(), username, password); err != nil {
					if errors.Is(err, admin.ErrAdminExists) {
						fmt.Fprintln(cmd.OutOrStdout(), "Error: Admin user already exists.")
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Admin user created successfully.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Admin username")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newPurgeDataCmd(open openFunc) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "purge-data",
		Short: "Purge all users and projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !assumeYes {
				fmt.Fprintln(out, "Are you sure you want to delete all data? This action cannot be undone. (yes/no)")
				answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
					fmt.Fprintln(out, "Purge data operation canceled.")
					return nil
				}
			}
			return withManager(cmd, open, func(m *admin.Manager) error {
				if err := m.Purge(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "All data has been purged.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func withManager(cmd *cobra.Command, open openFunc, fn func(*admin.Manager) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}
	m, closer, err := open(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()
	return fn(m)
}
