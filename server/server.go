package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/foodwaste/config"
	"github.com/ray-remotestate/foodwaste/handlers"
	"github.com/ray-remotestate/foodwaste/middlewares"
	"github.com/ray-remotestate/foodwaste/models"
)

type Server struct {
	Router  *mux.Router
	handler http.Handler
	server  *http.Server
}

type Handlers struct {
	Auth         *handlers.AuthHandler
	Packages     *handlers.PackageHandler
	Reservations *handlers.ReservationHandler
	Students     *handlers.StudentHandler
}

const (
	readHeaderTimeout = 30 * time.Second
)

func SetupRoutes(h Handlers, secretKey []byte, allowedOrigins []string) *Server {
	router := mux.NewRouter()
	authRoutes := router.PathPrefix("/api").Subrouter()
	authRoutes.Use(middlewares.AuthMiddleware(secretKey))

	staff := func(fn http.HandlerFunc) http.Handler {
		return middlewares.RoleBasedMiddleware(models.RoleStaff)(fn)
	}

	router.HandleFunc("/health", handlers.Health).Methods("GET")
	router.HandleFunc("/register", h.Auth.Register).Methods("POST")
	router.HandleFunc("/refresh", h.Auth.RefreshToken).Methods("POST")
	router.HandleFunc("/login", h.Auth.Login).Methods("POST")
	authRoutes.HandleFunc("/logout", h.Auth.Logout).Methods("POST")

	authRoutes.HandleFunc("/packages", h.Packages.ListPackages).Methods("GET")
	authRoutes.HandleFunc("/packages/available", h.Packages.ListAvailable).Methods("GET")
	authRoutes.HandleFunc("/packages/overview/{studentId:[0-9]+}", h.Packages.Overview).Methods("GET")
	authRoutes.HandleFunc("/packages/{id:[0-9]+}", h.Packages.GetPackage).Methods("GET")
	authRoutes.Handle("/packages", staff(h.Packages.CreatePackage)).Methods("POST")
	authRoutes.Handle("/packages/{id:[0-9]+}", staff(h.Packages.UpdatePackage)).Methods("PUT")
	authRoutes.Handle("/packages/{id:[0-9]+}", staff(h.Packages.DeletePackage)).Methods("DELETE")

	authRoutes.HandleFunc("/reservations", h.Reservations.ListReservations).Methods("GET")
	authRoutes.HandleFunc("/reservations", h.Reservations.CreateReservation).Methods("POST")
	authRoutes.HandleFunc("/reservations/student/{studentId:[0-9]+}", h.Reservations.ListByStudent).Methods("GET")
	authRoutes.HandleFunc("/reservations/student/{studentId:[0-9]+}/details", h.Reservations.ListDetailsByStudent).Methods("GET")
	authRoutes.HandleFunc("/reservations/{id:[0-9]+}", h.Reservations.GetReservation).Methods("GET")
	authRoutes.Handle("/reservations/{id:[0-9]+}", staff(h.Reservations.DeleteReservation)).Methods("DELETE")

	authRoutes.HandleFunc("/students", h.Students.ListStudents).Methods("GET")
	authRoutes.HandleFunc("/students/{id:[0-9]+}", h.Students.GetStudent).Methods("GET")
	authRoutes.Handle("/students", staff(h.Students.CreateStudent)).Methods("POST")
	authRoutes.Handle("/students/{id:[0-9]+}", staff(h.Students.UpdateStudent)).Methods("PUT")
	authRoutes.Handle("/students/{id:[0-9]+}", staff(h.Students.DeleteStudent)).Methods("DELETE")

	// CORS wraps the router so preflight requests never reach route matching
	return &Server{
		Router:  router,
		handler: middlewares.CORS(allowedOrigins)(middlewares.RequestLogger(router)),
	}
}

func (svr *Server) Handler() http.Handler {
	return svr.handler
}

func (svr *Server) Run(cfg config.ServerConfig) error {
	svr.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           svr.handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	if svr.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
