package authhandlers

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// CORSPolicy lists what browsers on the allowed origins may call. An empty
// Origins list leaves responses untouched.
type CORSPolicy struct {
	Origins []string
	Methods []string
	Headers []string
	MaxAge  time.Duration
}

// RouteMethods returns the methods registered anywhere under routes, sorted,
// plus OPTIONS for preflight.
func RouteMethods(routes chi.Routes) []string {
	seen := map[string]struct{}{http.MethodOptions: {}}
	_ = chi.Walk(routes, func(method, _ string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method] = struct{}{}
		return nil
	})

	methods := make([]string, 0, len(seen))
	for m := range seen {
		methods = append(methods, m)
	}
	slices.Sort(methods)
	return methods
}

// CORS answers preflight requests itself with 204 and adds the allow-origin
// header to actual requests from a listed origin.
func CORS(policy CORSPolicy) func(http.Handler) http.Handler {
	methods := strings.Join(policy.Methods, ", ")
	headers := strings.Join(policy.Headers, ", ")
	maxAge := strconv.Itoa(int(policy.MaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		if len(policy.Origins) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := origin != "" && slices.Contains(policy.Origins, origin)
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			w.Header().Add("Vary", "Origin")
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}

			if !preflight {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Access-Control-Request-Method")
			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if policy.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", maxAge)
				}
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
