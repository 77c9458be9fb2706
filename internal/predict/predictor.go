// Package predict guesses the merchant, category and account of a new
// capture from reference data and recent history.
package predict

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wapinheiro/money/internal/model"
	"github.com/wapinheiro/money/internal/service"
)

// RecentWindow is how many recent transactions are considered.
const RecentWindow = 50

// Source is the data the predictor reads.
type Source interface {
	service.ReferenceData
	ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error)
}

// Predictor computes field predictions.
type Predictor struct {
	source Source
	window int
}

// New returns a predictor reading from source.
func New(source Source) *Predictor {
	return &Predictor{source: source, window: RecentWindow}
}

// Predict loads reference data and the recent transactions concurrently and
// returns a best guess. A store without merchants yields an empty prediction.
func (p *Predictor) Predict(ctx context.Context) (model.Prediction, error) {
	var (
		merchants  []model.Merchant
		categories []model.Category
		accounts   []model.Account
		recent     []model.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		merchants, err = p.source.ListMerchants(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = p.source.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		accounts, err = p.source.ListAccounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = p.source.ListTransactions(gctx, service.TransactionFilter{Limit: p.window})
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Prediction{}, fmt.Errorf("failed to load prediction data: %w", err)
	}

	if len(merchants) == 0 {
		slog.Debug("no merchants to predict from")
		return model.Prediction{}, nil
	}

	merchant := pickMerchant(merchants, recent)
	prediction := model.Prediction{
		Merchant: merchant.Item(),
		Category: pickCategory(merchant, categories),
		Account:  pickAccount(accounts, recent),
	}

	slog.Debug("predicted capture fields",
		"merchant", prediction.Merchant.Label,
		"category", prediction.Category.Label,
		"account", prediction.Account.Label,
		"window", len(recent))
	return prediction, nil
}

// pickMerchant returns the merchant used most often in recent, ties going
// to the most recent use. Without usable history it returns the first
// merchant by name.
func pickMerchant(merchants []model.Merchant, recent []model.Transaction) model.Merchant {
	byName := make(map[string]model.Merchant, len(merchants))
	for _, m := range merchants {
		byName[strings.ToLower(m.Name)] = m
	}

	counts := make(map[string]int)
	top := 0
	for _, txn := range recent {
		key := strings.ToLower(txn.Merchant)
		if _, ok := byName[key]; !ok {
			continue
		}
		counts[key]++
		top = max(top, counts[key])
	}
	best := ""
	// recent is newest first, so the first merchant at the top count wins ties.
	for _, txn := range recent {
		key := strings.ToLower(txn.Merchant)
		if top > 0 && counts[key] == top {
			best = key
			break
		}
	}
	if best != "" {
		return byName[best]
	}

	first := merchants[0]
	for _, m := range merchants[1:] {
		if strings.ToLower(m.Name) < strings.ToLower(first.Name) {
			first = m
		}
	}
	return first
}

func pickCategory(merchant model.Merchant, categories []model.Category) model.SelectableItem {
	for _, c := range categories {
		if merchant.DefaultCategoryID != 0 && c.ID == merchant.DefaultCategoryID {
			return c.Item()
		}
	}
	for _, c := range categories {
		if merchant.DefaultCategory != "" && strings.EqualFold(c.Name, merchant.DefaultCategory) {
			return c.Item()
		}
	}
	return model.SelectableItem{Label: model.UncategorizedName, Value: model.UncategorizedName}
}

func pickAccount(accounts []model.Account, recent []model.Transaction) model.SelectableItem {
	if len(recent) > 0 {
		for _, a := range accounts {
			if strings.EqualFold(a.Name, recent[0].Account) {
				return a.Item()
			}
		}
	}
	if len(accounts) > 0 {
		return accounts[0].Item()
	}
	return model.SelectableItem{Label: model.CashAccountName, Value: model.CashAccountName, Icon: "💵"}
}
