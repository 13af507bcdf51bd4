package ajun

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"adalbertofjr/products-api/ajun/middleware/ratelimiter"
)

type Ajun struct {
	router  chi.Router
	Handler http.Handler
}

func NewRouter() *Ajun {
	mux := chi.NewRouter()
	return &Ajun{
		router:  mux,
		Handler: mux,
	}
}

func (a *Ajun) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	a.router.HandleFunc(pattern, handler)
}

func (a *Ajun) MethodFunc(method, pattern string, handler func(http.ResponseWriter, *http.Request)) {
	a.router.MethodFunc(method, pattern, handler)
}

func (a *Ajun) NotFound(handler func(http.ResponseWriter, *http.Request)) {
	a.router.NotFound(handler)
}

func (a *Ajun) MethodNotAllowed(handler func(http.ResponseWriter, *http.Request)) {
	a.router.MethodNotAllowed(handler)
}

// RateLimiter wraps every registered route, including not found and method
// not allowed answers, with rl.
func (a *Ajun) RateLimiter(rl *ratelimiter.RateLimiter) {
	a.Handler = rl.Handler(a.Handler)
}

// URLParam returns the value captured by {key} in the matched route.
func URLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
