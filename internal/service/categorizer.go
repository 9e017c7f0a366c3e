package service

import (
	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
)

// Partition splits wallet reports into three disjoint, exhaustive sets by
// how completely each wallet covers the target token set: NONE when nothing
// matched or the wallet's analysis failed, ALL when every target matched,
// SOME otherwise.
func Partition(reports []entity.WalletReport, targets []entity.Address) (all, some, none []entity.WalletReport) {
	all = []entity.WalletReport{}
	some = []entity.WalletReport{}
	none = []entity.WalletReport{}

	targetSet := make(map[entity.Address]struct{}, len(targets))
	for _, t := range targets {
		targetSet[t] = struct{}{}
	}

	for _, report := range reports {
		switch Categorize(report, targetSet) {
		case entity.CategoryAll:
			all = append(all, report)
		case entity.CategorySome:
			some = append(some, report)
		default:
			none = append(none, report)
		}
	}
	return all, some, none
}

// Categorize assigns one report to its category. Pure: depends only on the
// matched-target count, the target set size and the presence of a fatal
// error.
func Categorize(report entity.WalletReport, targetSet map[entity.Address]struct{}) entity.Category {
	matched := 0
	for _, holding := range report.Holdings {
		if _, ok := targetSet[holding.Balance.Token]; ok {
			matched++
		}
	}
	switch {
	case report.Err != "" || matched == 0:
		return entity.CategoryNone
	case matched == len(targetSet):
		return entity.CategoryAll
	default:
		return entity.CategorySome
	}
}
