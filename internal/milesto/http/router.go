package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/abhi19833/milesto/internal/milesto/service"
	"github.com/abhi19833/milesto/internal/milesto/store"
	"github.com/abhi19833/milesto/pkg/httpx"
	"github.com/abhi19833/milesto/pkg/jwtx"
	"github.com/abhi19833/milesto/pkg/slogx"

	_ "github.com/abhi19833/milesto/api/milesto" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AuthService      *service.AuthService
	ProjectService   *service.ProjectService
	InviteService    *service.InviteService
	TaskService      *service.TaskService
	DocumentService  *service.DocumentService
	TeamService      *service.TeamService
	DashboardService *service.DashboardService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProjects()
	r.registerInvitations()
	r.registerTasks()
	r.registerDocuments()
	r.registerTeam()
	r.registerDashboard()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Milesto API
//	@version		0.1.0
//	@description	Project collaboration service for student teams: projects, tasks, documents,
//	@description	team invitations and an AI-assisted dashboard.
//	@description
//	@description				Sessions use HS256-signed JWTs presented as bearer tokens.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps h with authentication and a per-user rate limit.
func (r *Router) authed(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints get the strict per-IP limit (brute force and
	// account enumeration both arrive unauthenticated).
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/auth/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/auth/reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword), httpx.RateLimitByIP(httpx.StrictLimit)))

	r.Mux.Handle("GET /api/auth/me",
		r.authed(http.HandlerFunc(h.HandleMe), httpx.LenientLimit))
	r.Mux.Handle("PUT /api/auth/password",
		r.authed(http.HandlerFunc(h.HandleChangePassword), httpx.StrictLimit))
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{ProjectService: r.ProjectService}
	m := &MembersHandler{ProjectService: r.ProjectService}

	r.Mux.Handle("POST /api/projects",
		r.authed(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/projects",
		r.authed(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /api/projects/{id}",
		r.authed(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /api/projects/{id}",
		r.authed(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/projects/{id}",
		r.authed(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))

	r.Mux.Handle("POST /api/projects/{id}/members",
		r.authed(http.HandlerFunc(m.HandleAdd), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/projects/{id}/members/{userId}",
		r.authed(http.HandlerFunc(m.HandleRemove), httpx.ModerateLimit))
	r.Mux.Handle("PUT /api/projects/{id}/members/{userId}",
		r.authed(http.HandlerFunc(m.HandleUpdateRole), httpx.ModerateLimit))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InviteService: r.InviteService}

	r.Mux.Handle("POST /api/projects/{id}/invitations",
		r.authed(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/projects/{id}/invitations",
		r.authed(http.HandlerFunc(h.HandleListForProject), httpx.LenientLimit))

	r.Mux.Handle("GET /api/invitations",
		r.authed(http.HandlerFunc(h.HandleListMine), httpx.LenientLimit))
	r.Mux.Handle("POST /api/invitations/{id}/accept",
		r.authed(http.HandlerFunc(h.HandleAccept), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/invitations/{id}/decline",
		r.authed(http.HandlerFunc(h.HandleDecline), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/invitations/{id}",
		r.authed(http.HandlerFunc(h.HandleCancel), httpx.ModerateLimit))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	r.Mux.Handle("POST /api/projects/{id}/tasks",
		r.authed(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/projects/{id}/tasks",
		r.authed(http.HandlerFunc(h.HandleListForProject), httpx.LenientLimit))
	r.Mux.Handle("GET /api/tasks",
		r.authed(http.HandlerFunc(h.HandleListMine), httpx.LenientLimit))
	r.Mux.Handle("PUT /api/tasks/{id}",
		r.authed(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/tasks/{id}",
		r.authed(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerDocuments() {
	h := &DocumentsHandler{DocumentService: r.DocumentService}

	r.Mux.Handle("POST /api/projects/{id}/documents/upload",
		r.authed(http.HandlerFunc(h.HandleUpload), httpx.ModerateLimit))
	r.Mux.Handle("POST /api/projects/{id}/documents",
		r.authed(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /api/projects/{id}/documents",
		r.authed(http.HandlerFunc(h.HandleListForProject), httpx.LenientLimit))
	r.Mux.Handle("GET /api/documents/{id}",
		r.authed(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /api/documents/{id}",
		r.authed(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/documents/{id}",
		r.authed(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerTeam() {
	h := &TeamHandler{TeamService: r.TeamService, InviteService: r.InviteService}

	r.Mux.Handle("GET /api/team",
		r.authed(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /api/team/invitations",
		r.authed(http.HandlerFunc(h.HandleSentInvitations), httpx.LenientLimit))
	r.Mux.Handle("PATCH /api/team/{userId}",
		r.authed(http.HandlerFunc(h.HandleUpdateRole), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/team/{userId}",
		r.authed(http.HandlerFunc(h.HandleRemove), httpx.ModerateLimit))
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{DashboardService: r.DashboardService}

	r.Mux.Handle("GET /api/dashboard/stats",
		r.authed(http.HandlerFunc(h.HandleStats), httpx.LenientLimit))

	r.Mux.Handle("GET /api/dashboard/recent-projects",
		r.authed(http.HandlerFunc(h.HandleRecentProjects), httpx.LenientLimit))
	r.Mux.Handle("GET /api/dashboard/recent-tasks",
		r.authed(http.HandlerFunc(h.HandleRecentTasks), httpx.LenientLimit))

	// The AI endpoint burns model quota; keep it on the moderate limit.
	r.Mux.Handle("GET /api/dashboard/ai-insights",
		r.authed(http.HandlerFunc(h.HandleAIInsights), httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
