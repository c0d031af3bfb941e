// Package list реализует HTTP‑обработчик прайс‑листа тарифов.
package list

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/timewindow"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/pricing"
)

// New
// @Summary Прайс‑лист тарифов с учётом дня скидки
// @Tags plans
// @Produce json
// @Success 200 {object} response.Response "Тарифы с актуальными ценами"
// @Router /plans [get]
func New(log *slog.Logger, pricingSvc *pricing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plans.list.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		now := timewindow.Now()
		quotes := make([]*pricing.Quote, 0, len(pricingSvc.Plans()))
		for _, p := range pricingSvc.Plans() {
			q, err := pricingSvc.QuoteAt(p.Name, now)
			if err != nil {
				log.Error("failed to quote plan", slog.String("plan", p.Name), sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to quote plans"))
				return
			}
			quotes = append(quotes, q)
		}

		render.JSON(w, r, response.OKWithData(map[string]any{
			"plans":       quotes,
			"priced_at":   now.Format(time.RFC3339),
			"discount_on": timewindow.IsDiscountDay(now),
		}))
	}
}
