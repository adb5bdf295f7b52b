package router

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"shop/internal/gateway/config"
)

func NewRouter(cfg *config.Config) (http.Handler, error) {
	authURL, err := url.Parse(cfg.AuthServiceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Auth Service URL (%s): %w", cfg.AuthServiceURL, err)
	}
	ordersURL, err := url.Parse(cfg.OrdersServiceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Order Service URL (%s): %w", cfg.OrdersServiceURL, err)
	}
	paymentsURL, err := url.Parse(cfg.PaymentsServiceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Payment Service URL (%s): %w", cfg.PaymentsServiceURL, err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authProxy := createProxy(authURL)
	orderProxy := createProxy(ordersURL)
	paymentProxy := createProxy(paymentsURL)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authProxy.ServeHTTP)
		r.Post("/login", authProxy.ServeHTTP)
		r.Post("/refresh", authProxy.ServeHTTP)
		r.Get("/validate", authProxy.ServeHTTP)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderProxy.ServeHTTP)
		r.Get("/", orderProxy.ServeHTTP)
		r.Get("/{id}", orderProxy.ServeHTTP)
		r.Patch("/{id}", orderProxy.ServeHTTP)
		r.Delete("/{id}", orderProxy.ServeHTTP)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Get("/", paymentProxy.ServeHTTP)
		r.Get("/total", paymentProxy.ServeHTTP)
		r.Get("/order/{id}", paymentProxy.ServeHTTP)
		r.Get("/user/{id}", paymentProxy.ServeHTTP)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Gateway is up!"))
	})

	return r, nil
}

func createProxy(target *url.URL) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)

	proxy.Director = func(req *http.Request) {
		req.URL.Host = target.Host
		req.URL.Scheme = target.Scheme
		req.RequestURI = req.URL.RequestURI()

		if clientIP, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
			if prior, ok := req.Header["X-Forwarded-For"]; ok {
				clientIP = strings.Join(prior, ", ") + ", " + clientIP
			}
			req.Header.Set("X-Forwarded-For", clientIP)
		}
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Proxy error for request %s to %s: %v", r.URL.Path, target.String(), err)

		if os.IsTimeout(err) {
			renderJSONError(w, "Gateway Timeout", http.StatusGatewayTimeout)
		} else if _, ok := err.(net.Error); ok {
			renderJSONError(w, "Service Unavailable", http.StatusServiceUnavailable)
		} else {
			renderJSONError(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}

	return proxy
}

func renderJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"error": "%s", "code": %d}`, message, statusCode)
}
