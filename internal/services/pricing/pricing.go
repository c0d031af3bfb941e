// Package pricing вычисляет стоимость тарифов с учётом дня скидки.
package pricing

import (
	"errors"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/config"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/timewindow"
)

// ErrUnknownPlan возвращается при запросе тарифа, которого нет в таблице.
var ErrUnknownPlan = errors.New("unknown plan")

// DiscountPercent — размер скидки дня недели.
const DiscountPercent = 50

// DiscountReason — пояснение скидки в расчёте цены.
const DiscountReason = "wednesday discount"

// Quote — расчёт цены тарифа на конкретный момент времени.
type Quote struct {
	Plan        string `json:"plan"`
	Original    int64  `json:"original"`
	Discounted  int64  `json:"discounted"`
	Percent     int    `json:"percent"`
	HasDiscount bool   `json:"has_discount"`
	Reason      string `json:"reason,omitempty"`
	Currency    string `json:"currency"`
}

// Service хранит таблицу тарифов из конфигурации.
type Service struct {
	currency string
	plans    []config.Plan
	byName   map[string]config.Plan
}

// New создаёт сервис тарификации из конфигурации биллинга.
func New(billing config.Billing) *Service {
	byName := make(map[string]config.Plan, len(billing.Plans))
	for _, p := range billing.Plans {
		byName[p.Name] = p
	}
	return &Service{
		currency: billing.Currency,
		plans:    billing.Plans,
		byName:   byName,
	}
}

// Plan возвращает тариф по имени.
func (s *Service) Plan(name string) (config.Plan, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Plans возвращает все тарифы в порядке объявления.
func (s *Service) Plans() []config.Plan {
	return s.plans
}

// Currency возвращает валюту тарифов.
func (s *Service) Currency() string {
	return s.currency
}

// QuoteAt рассчитывает цену тарифа на момент at.
func (s *Service) QuoteAt(planName string, at time.Time) (*Quote, error) {
	p, ok := s.byName[planName]
	if !ok {
		return nil, ErrUnknownPlan
	}
	q := &Quote{
		Plan:     p.Name,
		Original: p.Price,
		Currency: s.currency,
	}
	if timewindow.IsDiscountDay(at) {
		q.Discounted = ApplyDiscount(p.Price)
		q.Percent = DiscountPercent
		q.HasDiscount = true
		q.Reason = DiscountReason
	} else {
		q.Discounted = p.Price
	}
	return q, nil
}

// ApplyDiscount делит базовую цену пополам. Половинные доли минимальной
// единицы округляются вверх: 2501 -> 1251, а не 1250.
func ApplyDiscount(base int64) int64 {
	return (base + 1) / 2
}
