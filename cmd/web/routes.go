package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/bracket-app/internal/bracket"
	"github.com/AdamBeresnev/bracket-app/internal/httputil"
	"github.com/AdamBeresnev/bracket-app/internal/live"
	"github.com/AdamBeresnev/bracket-app/internal/middleware"
	"github.com/AdamBeresnev/bracket-app/internal/service"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/markbates/goth/gothic"
)

type application struct {
	logger      *slog.Logger
	sessions    *scs.SessionManager
	tournaments *service.TournamentService
	hub         *live.Hub
}

type sessionResponse struct {
	CallerID string `json:"caller_id"`
}

type scoreRequest struct {
	Scores []bracket.Participant `json:"scores"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func newRouter(app *application, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.ReadSession(app.sessions))
		r.Use(middleware.LoadCaller(app.sessions))
		r.Get("/tournaments/{id}/live", app.liveBracket)
	})

	r.Group(func(r chi.Router) {
		r.Use(app.sessions.LoadAndSave)
		r.Use(middleware.LoadCaller(app.sessions))

		r.Get("/auth/{provider}", app.beginAuth)
		r.Get("/auth/{provider}/callback", app.completeAuth)
		r.Post("/auth/guest", app.guestLogin)
		r.Delete("/session", app.endSession)
		r.Get("/tournaments/{id}", app.getBracket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCaller)
			r.Get("/tournaments", app.listTournaments)
			r.Post("/tournaments", app.createTournament)
			r.Post("/tournaments/{id}/rounds/{round}/matches/{index}/score", app.submitScore)
			r.Post("/tournaments/{id}/rounds/{round}/advance", app.advanceRound)
			r.Patch("/tournaments/{id}/status", app.changeStatus)
			r.Delete("/tournaments/{id}", app.deleteTournament)
		})
	})

	return r
}

func (app *application) beginAuth(w http.ResponseWriter, r *http.Request) {
	r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))
	gothic.BeginAuthHandler(w, r)
}

func (app *application) completeAuth(w http.ResponseWriter, r *http.Request) {
	r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		httputil.BadRequest(w, "Authentication failure", err)
		return
	}
	app.login(w, r, middleware.CallerIDForUser(gothUser))
}

// guestLogin issues a server-generated identity for callers without an OAuth
// account.
func (app *application) guestLogin(w http.ResponseWriter, r *http.Request) {
	app.login(w, r, middleware.NewGuestCallerID())
}

func (app *application) login(w http.ResponseWriter, r *http.Request, callerID string) {
	if err := app.sessions.RenewToken(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to renew session token", err)
		return
	}
	app.sessions.Put(r.Context(), middleware.SessionCallerKey, callerID)

	app.logger.Info("caller logged in", slog.String("caller_id", callerID))
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{CallerID: callerID})
}

func (app *application) endSession(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to destroy session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) listTournaments(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		httputil.BadRequest(w, "Invalid page", err)
		return
	}
	pageSize, err := queryInt(r, "page_size", 0)
	if err != nil {
		httputil.BadRequest(w, "Invalid page_size", err)
		return
	}

	summaries, err := app.tournaments.ListTournaments(r.Context(), middleware.CallerID(r.Context()), page, pageSize)
	if err != nil {
		httputil.WriteError(w, "Failed to list tournaments", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summaries)
}

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	var input service.TournamentInput
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.BadRequest(w, "Invalid tournament", err)
		return
	}

	created, err := app.tournaments.CreateTournament(r.Context(), input, middleware.CallerID(r.Context()))
	if err != nil {
		httputil.WriteError(w, "Failed to create tournament", err)
		return
	}
	w.Header().Set("Location", "/tournaments/"+created.ID)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (app *application) getBracket(w http.ResponseWriter, r *http.Request) {
	view, err := app.tournaments.GetBracketView(r.Context(), chi.URLParam(r, "id"), middleware.CallerID(r.Context()), r.URL.Query().Get("key"))
	if err != nil {
		httputil.WriteError(w, "Failed to get tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (app *application) liveBracket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := app.tournaments.GetBracketView(r.Context(), id, middleware.CallerID(r.Context()), r.URL.Query().Get("key")); err != nil {
		httputil.WriteError(w, "Failed to authorize live feed", err)
		return
	}
	if err := app.hub.ServeWS(w, r, id); err != nil {
		app.logger.Warn("websocket upgrade failed", slog.String("tournament_id", id), slog.Any("error", err))
	}
}

func (app *application) submitScore(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteError(w, "Invalid match index", fmt.Errorf("%w: match index %q", bracket.ErrInvalidMatchReference, chi.URLParam(r, "index")))
		return
	}
	var req scoreRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, "Invalid score", err)
		return
	}

	view, err := app.tournaments.SubmitScore(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "round"), index, req.Scores, middleware.CallerID(r.Context()))
	if err != nil {
		httputil.WriteError(w, "Failed to submit score", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (app *application) advanceRound(w http.ResponseWriter, r *http.Request) {
	view, err := app.tournaments.AdvanceRound(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "round"), middleware.CallerID(r.Context()))
	if err != nil {
		httputil.WriteError(w, "Failed to advance round", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (app *application) changeStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, "Invalid status", err)
		return
	}

	view, err := app.tournaments.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req.Status, middleware.CallerID(r.Context()))
	if err != nil {
		httputil.WriteError(w, "Failed to change status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (app *application) deleteTournament(w http.ResponseWriter, r *http.Request) {
	if err := app.tournaments.DeleteTournament(r.Context(), chi.URLParam(r, "id"), middleware.CallerID(r.Context())); err != nil {
		httputil.WriteError(w, "Failed to delete tournament", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
