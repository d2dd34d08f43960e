package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"kiwiledger/internal"

	"github.com/spf13/cobra"
)

var addr string

func main() {
	root := &cobra.Command{
		Use:   "kiwictl",
		Short: "command line client for the kiwiledger api",
	}
	root.PersistentFlags().StringVar(&addr, "addr", defaultAddr(), "api base url")

	root.AddCommand(
		loginCmd(),
		whoamiCmd(),
		logoutCmd(),
		usersCmd(),
		createUserCmd(),
		deleteUserCmd(),
		changeRoleCmd(),
		portfoliosCmd(),
		createPortfolioCmd(),
		buyCmd(),
		sellCmd(),
		liquidateCmd(),
		pricesCmd(),
		transactionsCmd(),
		exportLedgerCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultAddr() string {
	if v := os.Getenv("KIWI_ADDR"); v != "" {
		return v
	}
	return "http://localhost:3009"
}

// cachedSession is stored after login so every later command can send the
// bearer token without prompting again.
type cachedSession struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func sessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home dir: %w", err)
	}
	return filepath.Join(home, ".kiwiledger_session"), nil
}

func saveSession(s cachedSession) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func loadSession() (*cachedSession, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("not logged in - run `kiwictl login` first")
	}
	s := cachedSession{}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func call(method string, path string, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, addr+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		errBody := struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}{}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			if errBody.Code != "" {
				return fmt.Errorf("%s: %s", errBody.Code, errBody.Error)
			}
			return fmt.Errorf("%s", errBody.Error)
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func authedCall(method string, path string, body any, out any) error {
	session, err := loadSession()
	if err != nil {
		return err
	}
	return call(method, path, session.Token, body, out)
}

func loginCmd() *cobra.Command {
	var password string
	c := &cobra.Command{
		Use:   "login <username>",
		Short: "authenticate and cache the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cachedSession{}
			err := call(http.MethodPost, "/login", "", map[string]string{
				"username": args[0],
				"password": password,
			}, &out)
			if err != nil {
				return err
			}
			if err := saveSession(out); err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", out.Username, out.Role)
			return nil
		},
	}
	c.Flags().StringVarP(&password, "password", "p", "", "password")
	_ = c.MarkFlagRequired("password")
	return c
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "show the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession()
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", session.Username, session.Role)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "discard the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := sessionPath()
			if err != nil {
				return err
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "list every user (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out []map[string]any
			if err := authedCall(http.MethodGet, "/users", nil, &out); err != nil {
				return err
			}
			internal.Pprint(out)
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	var password, firstName, lastName, role, balance string
	c := &cobra.Command{
		Use:   "create-user <username>",
		Short: "create a user (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"username":  args[0],
				"password":  password,
				"firstName": firstName,
				"lastName":  lastName,
				"role":      role,
			}
			if balance != "" {
				body["startingBalance"] = balance
			}
			var out map[string]any
			if err := authedCall(http.MethodPost, "/users", body, &out); err != nil {
				return err
			}
			internal.Pprint(out)
			return nil
		},
	}
	c.Flags().StringVarP(&password, "password", "p", "", "password")
	c.Flags().StringVar(&firstName, "first-name", "", "first name")
	c.Flags().StringVar(&lastName, "last-name", "", "last name")
	c.Flags().StringVar(&role, "role", "user", "role: user or admin")
	c.Flags().StringVar(&balance, "balance", "", "starting balance")
	_ = c.MarkFlagRequired("password")
	return c
}

func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <username>",
		Short: "delete a user and their portfolios (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authedCall(http.MethodDelete, "/users/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func changeRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change-role <username> <role>",
		Short: "change a user's role (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"role": args[1]}
			if err := authedCall(http.MethodPut, "/users/"+args[0]+"/role", body, nil); err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", args[0], args[1])
			return nil
		},
	}
}

func portfoliosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolios [id]",
		Short: "list portfolios, or show one with its holdings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if _, err := strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid portfolio id %q", args[0])
				}
				var out map[string]any
				if err := authedCall(http.MethodGet, "/portfolios/"+args[0], nil, &out); err != nil {
					return err
				}
				internal.Pprint(out)
				return nil
			}
			var out []map[string]any
			if err := authedCall(http.MethodGet, "/portfolios", nil, &out); err != nil {
				return err
			}
			internal.Pprint(out)
			return nil
		},
	}
}

func createPortfolioCmd() *cobra.Command {
	var description, strategy string
	c := &cobra.Command{
		Use:   "create-portfolio <name>",
		Short: "create a portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"name": args[0]}
			if description != "" {
				body["description"] = description
			}
			if strategy != "" {
				body["investmentStrategy"] = strategy
			}
			var out map[string]any
			if err := authedCall(http.MethodPost, "/portfolios", body, &out); err != nil {
				return err
			}
			internal.Pprint(out)
			return nil
		},
	}
	c.Flags().StringVar(&description, "description", "", "description")
	c.Flags().StringVar(&strategy, "strategy", "", "investment strategy")
	return c
}

func tradeArgs(args []string) (string, string, int, error) {
	portfolioID := args[0]
	if _, err := strconv.Atoi(portfolioID); err != nil {
		return "", "", 0, fmt.Errorf("invalid portfolio id %q", portfolioID)
	}
	qty, err := strconv.Atoi(args[2])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid quantity %q", args[2])
	}
	return portfolioID, args[1], qty, nil
}

func buyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <portfolio-id> <ticker> <quantity>",
		Short: "buy shares at the current quote",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolioID, ticker, qty, err := tradeArgs(args)
			if err != nil {
				return err
			}
			body := map[string]any{"ticker": ticker, "quantity": qty}
			var out map[string]any
			if err := authedCall(http.MethodPost, "/portfolios/"+portfolioID+"/buy", body, &out); err != nil {
				return err
			}
			internal.Pprint(out)
			return nil
		},
	}
}

func sellCmd() *cobra.Command {
	var price string
	c := &cobra.Command{
		Use:   "sell <portfolio-id> <ticker> <quantity>",
		Short: "sell shares at the current quote or a named price",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolioID, ticker, qty, err := tradeArgs(args)
			if err != nil {
				return err
			}
			body := map[string]any{"ticker": ticker, "quantity": qty}
			if price != "" {
				body["price"] = price
			}
			var out map[string]any
			if err := authedCall(http.MethodPost, "/portfolios/"+portfolioID+"/sell", body, &out); err != nil {
				return err
			}
			internal.Pprint(out)
			return nil
		},
	}
	c.Flags().StringVar(&price, "price", "", "sale price override")
	return c
}

func liquidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "liquidate <username>",
		Short: "sell every position the user holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			if err := authedCall(http.MethodPost, "/users/"+args[0]+"/liquidate", nil, &out); err != nil {
				return err
			}
			internal.Pprint(out)
			return nil
		},
	}
}

func pricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "show the current quote sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out []map[string]any
			if err := authedCall(http.MethodGet, "/prices", nil, &out); err != nil {
				return err
			}
			internal.Pprint(out)
			return nil
		},
	}
}

func transactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transactions",
		Short: "list settled trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out []map[string]any
			if err := authedCall(http.MethodGet, "/transactions", nil, &out); err != nil {
				return err
			}
			internal.Pprint(out)
			return nil
		},
	}
}

func exportLedgerCmd() *cobra.Command {
	var outPath string
	c := &cobra.Command{
		Use:   "export-ledger",
		Short: "download the trade ledger as csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession()
			if err != nil {
				return err
			}

			req, err := http.NewRequest(http.MethodGet, addr+"/transactions/export", nil)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+session.Token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				raw, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("http %d: %s", resp.StatusCode, string(raw))
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := io.Copy(f, resp.Body); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", outPath)
			return nil
		},
	}
	c.Flags().StringVarP(&outPath, "out", "o", "transactions.csv", "output file")
	return c
}
