package web

import (
	"database/sql"
	"net/http"

	"petwatch/internal/media"
	webembed "petwatch/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string, mediaStore *media.Store) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
		Media:     mediaStore,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /signup", s.SignupPage)
	mux.HandleFunc("POST /signup", s.SignupSubmit)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /logout", s.Logout)

	// The root just forwards to the dashboard.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	// Authenticated routes.
	mux.Handle("GET /dashboard", cookieAuth(http.HandlerFunc(s.Dashboard)))

	mux.Handle("GET /pets", cookieAuth(http.HandlerFunc(s.PetsPage)))
	mux.Handle("POST /pets", cookieAuth(http.HandlerFunc(s.PetCreateSubmit)))
	mux.Handle("GET /pets/{id}", cookieAuth(http.HandlerFunc(s.PetDetailPage)))
	mux.Handle("POST /pets/{id}/delete", cookieAuth(http.HandlerFunc(s.PetDeleteSubmit)))
	mux.Handle("POST /upload_images/{pet_id}", cookieAuth(http.HandlerFunc(s.UploadImages)))
	mux.Handle("GET /pets/{id}/images/{image_id}", cookieAuth(http.HandlerFunc(s.PetImageGet)))

	mux.Handle("GET /shots", cookieAuth(http.HandlerFunc(s.ShotsPage)))
	mux.Handle("POST /shots", cookieAuth(http.HandlerFunc(s.ShotCreateSubmit)))

	mux.Handle("GET /tickets", cookieAuth(http.HandlerFunc(s.TicketsPage)))
	mux.Handle("POST /tickets/{id}/approve", cookieAuth(http.HandlerFunc(s.TicketApproveSubmit)))
	mux.Handle("POST /tickets/{id}/reject", cookieAuth(http.HandlerFunc(s.TicketRejectSubmit)))

	return mux, nil
}
