package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/budget-import/internal/config"
	"github.com/carson-networks/budget-import/internal/ledger"
	"github.com/carson-networks/budget-import/internal/ledgerclient"
	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/workflow"
)

// LedgerAPI is the ledger surface the CLI drives.
type LedgerAPI interface {
	workflow.Ledger
	CreateAccount(ctx context.Context, name string, startingBalance decimal.Decimal) (*ledger.Account, error)
}

// Connector opens a ledger client for a base URL.
type Connector func(baseURL string) LedgerAPI

type app struct {
	connect   Connector
	ledgerURL string
	verbose   bool

	out     io.Writer
	logger  *logrus.Logger
	ledger  LedgerAPI
	session *workflow.Session
}

// NewRootCommand creates the importctl command tree talking HTTP to a ledger.
func NewRootCommand() *cobra.Command {
	return newRootCommand(connectHTTP)
}

func connectHTTP(baseURL string) LedgerAPI {
	return ledgerclient.New(baseURL, nil)
}

func newRootCommand(connect Connector) *cobra.Command {
	a := &app{connect: connect}

	rootCmd := &cobra.Command{
		Use:   "importctl",
		Short: "Stage, review and import bank statements into the budget ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.ledgerURL, "ledger-url", "", "ledger base URL (default $LEDGER_URL)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log ledger round trips")

	rootCmd.AddCommand(
		newAccountsCommand(a),
		newTransactionsCommand(a),
		newImportCommand(a),
		newRecategorizeCommand(a),
		newBreakdownCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.ledgerURL == "" {
		env, err := config.ProcessEnvironmentVariables()
		if err != nil {
			return err
		}
		a.ledgerURL = env.LedgerURL
	}

	level := logrus.WarnLevel
	if a.verbose {
		level = logrus.InfoLevel
	}
	a.out = cmd.OutOrStdout()
	a.logger = logging.NewLogger(cmd.ErrOrStderr(), level)
	a.ledger = a.connect(strings.TrimRight(a.ledgerURL, "/"))
	a.session = workflow.NewSession(a.ledger, a.logger)
	return nil
}

// selectAccount resolves ref as an account id or a case-insensitive name and
// makes it the session's import target.
func (a *app) selectAccount(ctx context.Context, ref string) (ledger.Account, error) {
	accounts, err := a.session.LoadAccounts(ctx)
	if err != nil {
		return ledger.Account{}, err
	}

	var match *ledger.Account
	if id, err := uuid.FromString(ref); err == nil {
		for i := range accounts {
			if accounts[i].ID == id {
				match = &accounts[i]
				break
			}
		}
	}
	if match == nil {
		for i := range accounts {
			if strings.EqualFold(accounts[i].Name, ref) {
				if match != nil {
					return ledger.Account{}, fmt.Errorf("account name %q is ambiguous; use the id", ref)
				}
				match = &accounts[i]
			}
		}
	}
	if match == nil {
		return ledger.Account{}, fmt.Errorf("%w: %q", workflow.ErrUnknownAccount, ref)
	}

	if err := a.session.SelectAccount(ctx, match.ID); err != nil {
		return ledger.Account{}, err
	}
	acc, _ := a.session.State().Account(match.ID)
	return acc, nil
}
