package analytics

import (
	"time"

	"github.com/Veraticus/midscope/internal/model"
)

func amt(v float64) *float64 { return &v }

func at(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return &t
}

type txOpt func(*model.Transaction)

func withAmount(v float64) txOpt { return func(t *model.Transaction) { t.Amount = amt(v) } }
func withSettled(v float64) txOpt { return func(t *model.Transaction) { t.SettledAmount = amt(v) } }
func withDate(s string) txOpt { return func(t *model.Transaction) { t.TransactionDate = at(s) } }
func withMode(m string) txOpt { return func(t *model.Transaction) { t.PaymentMode = m } }
func withCard(c string) txOpt { return func(t *model.Transaction) { t.CardLast4 = c } }
func withVPA(v string) txOpt { return func(t *model.Transaction) { t.CustomerVPA = v } }
func withStatus(s string) txOpt { return func(t *model.Transaction) { t.Status = s } }

func tx(mid string, opts ...txOpt) model.Transaction {
	t := model.Transaction{MID: mid}
	for _, o := range opts {
		o(&t)
	}
	return t
}
