package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/usecase"
	"github.com/vasapolrittideah/hope-sync-api/shared/middleware"
	"github.com/vasapolrittideah/hope-sync-api/shared/utilities"
)

var (
	DonationResource    = Resource{Singular: "donation", Plural: "donations"}
	CommentResource     = Resource{Singular: "comment", Plural: "comments", NotFoundWhenEmpty: true}
	TestimonialResource = Resource{Singular: "testimonial", Plural: "testimonials", NotFoundWhenEmpty: true}
	VolunteerResource   = Resource{Singular: "volunteer", Plural: "volunteers", NotFoundWhenEmpty: true}
)

// RouterParams holds the dependencies of the HTTP API.
type RouterParams struct {
	Logger       *zerolog.Logger
	AuthUsecase  usecase.AuthUsecase
	Donations    usecase.DocumentUsecase
	Comments     usecase.DocumentUsecase
	Testimonials usecase.DocumentUsecase
	Volunteers   usecase.DocumentUsecase

	// RequireAuth puts the write routes of the content collections behind
	// bearer token verification with Tokens.
	RequireAuth bool
	Tokens      middleware.TokenValidator

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter wires the routes and middleware of the API.
func NewRouter(p RouterParams) http.Handler {
	now := p.Now
	if now == nil {
		now = time.Now
	}

	validator := newRequestValidator()
	authHandler := newAuthHTTPHandler(p.AuthUsecase, validator, p.Logger)
	donations := newDocumentHTTPHandler(DonationResource, p.Donations, p.Logger)
	comments := newDocumentHTTPHandler(CommentResource, p.Comments, p.Logger)
	testimonials := newDocumentHTTPHandler(TestimonialResource, p.Testimonials, p.Logger)
	volunteers := newDocumentHTTPHandler(VolunteerResource, p.Volunteers, p.Logger)

	guard := func(next http.Handler) http.Handler { return next }
	if p.RequireAuth {
		guard = middleware.NewJWTMiddleware(p.Tokens, p.Logger)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		middleware.Logger(p.Logger),
		chimiddleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{
				http.MethodGet, http.MethodHead, http.MethodPost,
				http.MethodPut, http.MethodPatch, http.MethodDelete,
			},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utilities.WriteMessage(w, http.StatusNotFound, "Not found")
	})

	r.Get("/", healthHandler(now))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Get("/donation", donations.List)
		r.Get("/donation/{id}", donations.Get)
		r.With(guard).Post("/donation", donations.Create)
		r.With(guard).Put("/update-donation/{id}", donations.Patch)
		r.With(guard).Delete("/delete-donation/{id}", donations.Delete)

		r.Get("/comments", comments.List)
		r.With(guard).Post("/comments", comments.Create)

		r.Get("/testimonials", testimonials.List)
		r.With(guard).Post("/testimonials", testimonials.Create)

		r.Get("/volunteers", volunteers.List)
		r.With(guard).Post("/volunteers", volunteers.Create)
	})

	return r
}
