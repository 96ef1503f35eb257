package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/settleup/settleup/internal/auth"
	"github.com/settleup/settleup/internal/middleware"
	"github.com/settleup/settleup/internal/service"
)

// NewRouter creates the Chi router with all API routes mounted. Everything
// under /api/v1 except auth requires a valid bearer token.
func NewRouter(
	authSvc *service.AuthService,
	groupSvc *service.GroupService,
	expenseSvc *service.ExpenseService,
	paymentSvc *service.PaymentService,
	balanceSvc *service.BalanceService,
	jwtManager *auth.JWTManager,
) http.Handler {
	h := &Handlers{
		authSvc:    authSvc,
		groupSvc:   groupSvc,
		expenseSvc: expenseSvc,
		paymentSvc: paymentSvc,
		balanceSvc: balanceSvc,
	}

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Get("/users/me", h.Me)

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", h.CreateGroup)
				r.Get("/", h.ListGroups)
				r.Get("/{groupID}", h.GetGroup)
				r.Put("/{groupID}", h.UpdateGroup)
				r.Delete("/{groupID}", h.DeleteGroup)
				r.Post("/{groupID}/members", h.AddMember)
				r.Get("/{groupID}/members", h.ListMembers)
				r.Get("/{groupID}/expenses", h.ListExpenses)
				r.Get("/{groupID}/payments", h.ListPayments)
				r.Get("/{groupID}/balances", h.GetGroupBalances)
				r.Get("/{groupID}/settlements", h.GetSettlements)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", h.CreateExpense)
				r.Get("/{expenseID}", h.GetExpense)
				r.Delete("/{expenseID}", h.DeleteExpense)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", h.CreatePayment)
				r.Get("/{paymentID}", h.GetPayment)
				r.Post("/{paymentID}/confirm", h.ConfirmPayment)
				r.Post("/{paymentID}/reject", h.RejectPayment)
				r.Post("/{paymentID}/cancel", h.CancelPayment)
			})

			r.Get("/balances/overview", h.GetOverview)
			r.Get("/friends/{friendID}/balance", h.GetFriendBalance)
		})
	})

	return r
}
