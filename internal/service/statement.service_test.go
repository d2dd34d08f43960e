package service

import (
	"bytes"
	"strings"
	"testing"

	"kiwiledger/internal/db/models/postgres/public/model"
	"kiwiledger/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_statementServiceHandler_ListTransactions(t *testing.T) {
	t.Run("rows carry usernames, tickers and totals", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(10000))
		p := f.createPortfolio(t, alice, "growth")
		_, err := f.trading.Buy(alice, p.ID, "AAPL", 2)
		require.NoError(t, err)
		_, err = f.trading.Sell(alice, p.ID, "AAPL", 1, nil)
		require.NoError(t, err)

		records, err := f.statements.ListTransactions(alice, StatementFilter{})
		require.NoError(t, err)
		require.Len(t, records, 2)

		require.Equal(t, "alice", records[0].Username)
		require.Equal(t, "AAPL", records[0].Ticker)
		require.Equal(t, "BUY", records[0].Type)
		require.Equal(t, int32(2), records[0].Quantity)
		require.Equal(t, "175.00", records[0].Price)
		require.Equal(t, "350.00", records[0].Total)

		require.Equal(t, "SELL", records[1].Type)
	})

	t.Run("regular users only see their own rows", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		bob := f.createUser(t, "bob", model.UserRole_User, decimal.NewFromInt(1000))
		pa := f.createPortfolio(t, alice, "growth")
		pb := f.createPortfolio(t, bob, "income")
		_, err := f.trading.Buy(alice, pa.ID, "UBER", 1)
		require.NoError(t, err)
		_, err = f.trading.Buy(bob, pb.ID, "UBER", 2)
		require.NoError(t, err)

		records, err := f.statements.ListTransactions(alice, StatementFilter{})
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, "alice", records[0].Username)

		// a username filter from a non-admin is ignored, not honored
		other := "bob"
		records, err = f.statements.ListTransactions(alice, StatementFilter{Username: &other})
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, "alice", records[0].Username)
	})

	t.Run("admins see the whole book and may filter by user", func(t *testing.T) {
		f := newFixture(t)
		root := f.createUser(t, "root", model.UserRole_Admin, decimal.Zero)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
		bob := f.createUser(t, "bob", model.UserRole_User, decimal.NewFromInt(1000))
		pa := f.createPortfolio(t, alice, "growth")
		pb := f.createPortfolio(t, bob, "income")
		_, err := f.trading.Buy(alice, pa.ID, "UBER", 1)
		require.NoError(t, err)
		_, err = f.trading.Buy(bob, pb.ID, "UBER", 2)
		require.NoError(t, err)

		records, err := f.statements.ListTransactions(root, StatementFilter{})
		require.NoError(t, err)
		require.Len(t, records, 2)

		target := "bob"
		records, err = f.statements.ListTransactions(root, StatementFilter{Username: &target})
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, "bob", records[0].Username)

		ghost := "ghost"
		_, err = f.statements.ListTransactions(root, StatementFilter{Username: &ghost})
		require.Error(t, err)
		require.Equal(t, ledger.KindUserNotFound, ledger.KindOf(err))
	})

	t.Run("filter by ticker and type", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(10000))
		p := f.createPortfolio(t, alice, "growth")
		_, err := f.trading.Buy(alice, p.ID, "AAPL", 1)
		require.NoError(t, err)
		_, err = f.trading.Buy(alice, p.ID, "UBER", 1)
		require.NoError(t, err)
		_, err = f.trading.Sell(alice, p.ID, "UBER", 1, nil)
		require.NoError(t, err)

		ticker := "uber"
		records, err := f.statements.ListTransactions(alice, StatementFilter{Ticker: &ticker})
		require.NoError(t, err)
		require.Len(t, records, 2)

		sells := model.TransactionType_Sell
		records, err = f.statements.ListTransactions(alice, StatementFilter{Ticker: &ticker, Type: &sells})
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, "SELL", records[0].Type)

		unknown := "ZZZZ"
		records, err = f.statements.ListTransactions(alice, StatementFilter{Ticker: &unknown})
		require.NoError(t, err)
		require.Empty(t, records)
	})
}

func Test_statementServiceHandler_ExportCSV(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice", model.UserRole_User, decimal.NewFromInt(1000))
	p := f.createPortfolio(t, alice, "growth")
	_, err := f.trading.Buy(alice, p.ID, "UBER", 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.statements.ExportCSV(alice, StatementFilter{}, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "transaction_id")
	require.Contains(t, lines[0], "ticker")
	require.Contains(t, lines[1], "alice")
	require.Contains(t, lines[1], "UBER")
	require.Contains(t, lines[1], "65.00")
}
