package http

import (
	"net/http"

	"lesson-booking/internal/delivery/http/handler"
	"lesson-booking/internal/delivery/http/middleware"
	"lesson-booking/pkg/response"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	providerHandler     *handler.ProviderHandler
	availabilityHandler *handler.AvailabilityHandler
	bookingHandler      *handler.BookingHandler
	calendarHandler     *handler.CalendarHandler
	auditLogHandler     *handler.AuditLogHandler
	cronHandler         *handler.CronHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
	rateLimiter         *middleware.RateLimiter
	cronSecret          string
	serviceName         string
}

type Handlers struct {
	Auth         *handler.AuthHandler
	Provider     *handler.ProviderHandler
	Availability *handler.AvailabilityHandler
	Booking      *handler.BookingHandler
	Calendar     *handler.CalendarHandler
	AuditLog     *handler.AuditLogHandler
	Cron         *handler.CronHandler
}

type Middlewares struct {
	Auth        *middleware.AuthMiddleware
	CORS        *middleware.CORSMiddleware
	Logging     *middleware.LoggingMiddleware
	RateLimiter *middleware.RateLimiter
}

func NewRouter(handlers Handlers, middlewares Middlewares, cronSecret, serviceName string) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         handlers.Auth,
		providerHandler:     handlers.Provider,
		availabilityHandler: handlers.Availability,
		bookingHandler:      handlers.Booking,
		calendarHandler:     handlers.Calendar,
		auditLogHandler:     handlers.AuditLog,
		cronHandler:         handlers.Cron,
		authMiddleware:      middlewares.Auth,
		corsMiddleware:      middlewares.CORS,
		loggingMiddleware:   middlewares.Logging,
		rateLimiter:         middlewares.RateLimiter,
		cronSecret:          cronSecret,
		serviceName:         serviceName,
	}
}

// Setup registers every route and returns the fully wrapped handler. CORS and
// tracing wrap the router itself so preflight requests that match no route
// still get answered.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public booking flow (rate limited)
	public := api.NewRoute().Subrouter()
	public.Use(r.rateLimiter.Limit)
	public.HandleFunc("/providers/{providerId}", r.providerHandler.GetPublicProfile).Methods(http.MethodGet)
	public.HandleFunc("/providers/{providerId}/availability", r.availabilityHandler.GetDaySlots).Methods(http.MethodGet)
	public.HandleFunc("/providers/{providerId}/availability/dates", r.availabilityHandler.GetAvailableDates).Methods(http.MethodGet)
	public.HandleFunc("/providers/{providerId}/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	public.HandleFunc("/bookings/{token}", r.bookingHandler.GetByToken).Methods(http.MethodGet)
	public.HandleFunc("/bookings/{token}/cancel", r.bookingHandler.CancelByToken).Methods(http.MethodPost)

	// Admin routes reached without a session
	api.HandleFunc("/admin/auth/login", r.authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/admin/calendar/callback", r.calendarHandler.Callback).Methods(http.MethodGet)

	// Admin routes (protected)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)

	admin.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	admin.HandleFunc("/auth/me", r.authHandler.GetCurrentProvider).Methods(http.MethodGet)

	admin.HandleFunc("/settings", r.providerHandler.GetSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings", r.providerHandler.UpdateSettings).Methods(http.MethodPut)
	admin.HandleFunc("/availability", r.providerHandler.GetWeeklyAvailability).Methods(http.MethodGet)
	admin.HandleFunc("/availability", r.providerHandler.UpdateWeeklyAvailability).Methods(http.MethodPut)
	admin.HandleFunc("/overrides", r.providerHandler.ListOverrides).Methods(http.MethodGet)
	admin.HandleFunc("/overrides", r.providerHandler.CreateOverride).Methods(http.MethodPost)
	admin.HandleFunc("/overrides/{id}", r.providerHandler.DeleteOverride).Methods(http.MethodDelete)
	admin.HandleFunc("/lesson-types", r.providerHandler.GetLessonTypes).Methods(http.MethodGet)
	admin.HandleFunc("/lesson-types", r.providerHandler.UpdateLessonTypes).Methods(http.MethodPut)

	admin.HandleFunc("/bookings", r.bookingHandler.ListBookings).Methods(http.MethodGet)

	admin.HandleFunc("/calendar/connect", r.calendarHandler.Connect).Methods(http.MethodPost)
	admin.HandleFunc("/calendar/status", r.calendarHandler.Status).Methods(http.MethodGet)

	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Scheduler triggers (shared secret)
	cron := api.PathPrefix("/cron").Subrouter()
	cron.Use(middleware.RequireCronSecret(r.cronSecret))
	cron.HandleFunc("/run", r.cronHandler.Run).Methods(http.MethodGet, http.MethodPost)
	cron.HandleFunc("/reminders", r.cronHandler.RunReminders).Methods(http.MethodGet, http.MethodPost)
	cron.HandleFunc("/post-session", r.cronHandler.RunPostSession).Methods(http.MethodGet, http.MethodPost)

	var h http.Handler = r.router
	h = r.loggingMiddleware.Handle(h)
	h = r.corsMiddleware.Handle(h)
	return otelhttp.NewHandler(h, r.serviceName)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
