package handler

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the API onto a chi router.
func (g *Gate) Routes(r chi.Router) {
	r.Route("/v1/users/{userID}", func(r chi.Router) {
		r.Get("/gates", g.GetGates)
		r.Get("/rq", g.GetRQ)

		r.Get("/recovery", g.GetRecovery)
		r.Post("/recovery/baseline", g.PostRecoveryBaseline)
		r.Post("/recovery/actions", g.PostRecoveryAction)

		r.Post("/completions", g.PostCompletion)

		r.Route("/games/{game}", func(r chi.Router) {
			r.Post("/sessions", g.PostSession)
			r.Post("/unlocks", g.PostUnlock)
		})
	})
}
