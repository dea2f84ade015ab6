package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"discovery/internal/config"
	"discovery/internal/session"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin session management",
	}
	cmd.AddCommand(newAdminLoginCmd(), newAdminLogoutCmd(), newAdminStatusCmd(), newAdminTOTPSetupCmd(), newAdminHashCmd())
	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in as admin (uses --username, --password and --totp)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				return errors.New("--password is required")
			}
			return withApp(cmd, func(a *app) error {
				if username == "" {
					username = a.cfg.AdminUsername
				}
				if err := login(cmd, a, username, password); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "logged in as %s\n", username)
				if !a.cfg.PersistAdminSession {
					fmt.Fprintln(out, "note: PERSIST_ADMIN_SESSION is off, the session ends with this command")
				}
				return nil
			})
		},
	}
}

func newAdminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				a.eng.Logout()
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}
}

type statusView struct {
	State          string `json:"state" yaml:"state"`
	Username       string `json:"username" yaml:"username"`
	TOTP           bool   `json:"totp" yaml:"totp"`
	PersistSession bool   `json:"persist_session" yaml:"persist_session"`
	Backend        string `json:"backend" yaml:"backend"`
}

func newAdminStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the admin session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				view := statusView{
					State:          a.eng.AdminState().String(),
					Username:       a.cfg.AdminUsername,
					TOTP:           a.cfg.AdminTOTPSecret != "",
					PersistSession: a.cfg.PersistAdminSession,
					Backend:        a.cfg.StoreBackend,
				}
				return render(cmd, view, func(w io.Writer) {
					fmt.Fprintf(w, "State:\t%s\n", view.State)
					fmt.Fprintf(w, "Username:\t%s\n", view.Username)
					fmt.Fprintf(w, "TOTP:\t%t\n", view.TOTP)
					fmt.Fprintf(w, "Persisted:\t%t\n", view.PersistSession)
					fmt.Fprintf(w, "Backend:\t%s\n", view.Backend)
				})
			})
		},
	}
}

func newAdminTOTPSetupCmd() *cobra.Command {
	var (
		issuer  string
		account string
		qrPath  string
	)

	cmd := &cobra.Command{
		Use:   "totp-setup",
		Short: "Generate a TOTP secret and QR code for the admin account",
		Long: `Generates a new TOTP secret. Scan the QR code with an authenticator app,
then set ADMIN_TOTP_SECRET to the printed secret to require a code at login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if account == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				account = cfg.AdminUsername
			}
			enr, err := session.NewEnrollment(issuer, account)
			if err != nil {
				return err
			}
			if qrPath != "" {
				if err := os.WriteFile(qrPath, enr.QRCode, 0o600); err != nil {
					return fmt.Errorf("write qr code: %w", err)
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "secret: %s\n", enr.Secret)
			fmt.Fprintf(out, "url:    %s\n", enr.URL)
			if qrPath != "" {
				fmt.Fprintf(out, "qr:     %s\n", qrPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "Journey to Discovery", "issuer shown in the authenticator app")
	cmd.Flags().StringVar(&account, "account", "", "account name (defaults to ADMIN_USERNAME)")
	cmd.Flags().StringVar(&qrPath, "qr", "", "write the QR code PNG to this path")
	return cmd
}

func newAdminHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := session.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
