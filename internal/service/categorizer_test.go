package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
)

func reportHolding(wallet entity.Address, tokens ...entity.Address) entity.WalletReport {
	report := entity.WalletReport{Wallet: wallet, Holdings: []entity.TokenHolding{}}
	for _, token := range tokens {
		report.Holdings = append(report.Holdings, entity.TokenHolding{
			Balance: entity.BalanceObservation{Wallet: wallet, Token: token, HasBalance: true},
		})
	}
	return report
}

func TestCategorize(t *testing.T) {
	targets := map[entity.Address]struct{}{tokenT1: {}, tokenT2: {}}

	tests := []struct {
		name   string
		report entity.WalletReport
		want   entity.Category
	}{
		{name: "all targets held", report: reportHolding(walletA, tokenT1, tokenT2), want: entity.CategoryAll},
		{name: "one of two held", report: reportHolding(walletA, tokenT1), want: entity.CategorySome},
		{name: "nothing held", report: reportHolding(walletA), want: entity.CategoryNone},
		{name: "failed wallet is NONE despite holdings", report: func() entity.WalletReport {
			r := reportHolding(walletA, tokenT1, tokenT2)
			r.Err = "terminal provider failure"
			return r
		}(), want: entity.CategoryNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.report, targets))
		})
	}
}

func TestCategorizeSingleTarget(t *testing.T) {
	// With one target a wallet is either ALL or NONE, never SOME.
	targets := map[entity.Address]struct{}{tokenT1: {}}
	assert.Equal(t, entity.CategoryAll, Categorize(reportHolding(walletA, tokenT1), targets))
	assert.Equal(t, entity.CategoryNone, Categorize(reportHolding(walletA), targets))
}

func TestPartitionIsExhaustiveAndDisjoint(t *testing.T) {
	targets := []entity.Address{tokenT1, tokenT2}
	reports := []entity.WalletReport{
		reportHolding(walletA, tokenT1, tokenT2),
		reportHolding(walletB, tokenT2),
		reportHolding("0xcccccccccccccccccccccccccccccccccccccccc"),
	}

	all, some, none := Partition(reports, targets)

	assert.Len(t, all, 1)
	assert.Len(t, some, 1)
	assert.Len(t, none, 1)
	assert.Equal(t, len(reports), len(all)+len(some)+len(none))
	assert.Equal(t, walletA, all[0].Wallet)
	assert.Equal(t, walletB, some[0].Wallet)
}

func TestPartitionEmptyInputsYieldEmptySlices(t *testing.T) {
	all, some, none := Partition(nil, []entity.Address{tokenT1})
	assert.NotNil(t, all)
	assert.NotNil(t, some)
	assert.NotNil(t, none)
	assert.Empty(t, all)
	assert.Empty(t, some)
	assert.Empty(t, none)
}
