package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(c *cli) *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with email and password. The session is stored in the
session file so later commands (and other terminals) reuse it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.ErrOrStderr()

			if email == "" {
				fmt.Fprint(out, "Email: ")
				if email, err = readLine(in); err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
			}

			var password string
			if passwordStdin {
				password, err = readLine(in)
			} else {
				password, err = readPassword(out, in)
			}
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			sess, err := app.Sessions.SignIn(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("sign in failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", sess.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted when empty)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

// readPassword prompts without echo when stdin is a terminal and falls back
// to a plain line read otherwise.
func readPassword(prompt io.Writer, in *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(in)
	}
	fmt.Fprint(prompt, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
