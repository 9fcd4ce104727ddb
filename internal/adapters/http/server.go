package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
	applicationsvc "collabhub/internal/services/applications"
	contributorsvc "collabhub/internal/services/contributors"
	notificationsvc "collabhub/internal/services/notifications"
	projectsvc "collabhub/internal/services/projects"
)

// Server is the thin translation edge: JSON in, service call, JSON out.
// Authentication is out of scope; the acting contributor is taken from the
// X-Contributor-ID header.
type Server struct {
	projects      *projectsvc.Service
	applications  *applicationsvc.Service
	contributors  *contributorsvc.Service
	notifications *notificationsvc.Service
	log           *zap.Logger
}

func New(projects *projectsvc.Service, applications *applicationsvc.Service, contributors *contributorsvc.Service, notifications *notificationsvc.Service, log *zap.Logger) *Server {
	return &Server{
		projects:      projects,
		applications:  applications,
		contributors:  contributors,
		notifications: notifications,
		log:           log,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/contributors", func(r chi.Router) {
		r.Post("/", s.signUp)
		r.Get("/{id}", s.getContributor)
		r.Delete("/{id}", s.removeContributor)
		r.Post("/{id}/hats", s.addHat)
		r.Delete("/{id}/hats", s.removeHat)
		r.Get("/{id}/recommended", s.recommended)
		r.Get("/{id}/notifications", s.inbox)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.discover)
		r.Post("/", s.createProject)
		r.Get("/{id}", s.getProject)
		r.Patch("/{id}", s.editProject)
		r.Delete("/{id}", s.removeProject)
		r.Post("/{id}/positions", s.addPosition)
		r.Post("/{id}/positions/{positionID}/close", s.closePosition)
		r.Post("/{id}/positions/{positionID}/reopen", s.reopenPosition)
		r.Delete("/{id}/positions/{positionID}", s.removePosition)
	})

	r.Route("/applications", func(r chi.Router) {
		r.Post("/", s.submitApplication)
		r.Get("/received", s.receivedApplications)
		r.Get("/sent", s.sentApplications)
		r.Get("/{id}", s.getApplication)
		r.Post("/{id}/accept", s.acceptApplication)
		r.Post("/{id}/reject", s.rejectApplication)
		r.Post("/{id}/revoke", s.revokeApplication)
	})

	return r
}

func actor(req *http.Request) string { return req.Header.Get("X-Contributor-ID") }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch domain.CodeOf(err) {
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeUnauthorized:
		status = http.StatusForbidden
	case domain.CodeDuplicateConstraint:
		status = http.StatusConflict
	case domain.CodeInvalidState:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return errors.New("malformed request body")
	}
	return nil
}

// --- contributors ---

type hatBody struct {
	Hat domain.HatRecord `json:"hat"`
}

func (s *Server) signUp(w http.ResponseWriter, req *http.Request) {
	var body struct {
		AccountID    string `json:"account_id"`
		FullName     string `json:"full_name"`
		ContactEmail string `json:"contact_email"`
	}
	if err := decode(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := s.contributors.SignUp(req.Context(), body.AccountID, body.FullName, body.ContactEmail)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contributorView(c))
}

func (s *Server) getContributor(w http.ResponseWriter, req *http.Request) {
	c, err := s.contributors.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contributorView(c))
}

func (s *Server) removeContributor(w http.ResponseWriter, req *http.Request) {
	if err := s.contributors.Remove(req.Context(), chi.URLParam(req, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addHat(w http.ResponseWriter, req *http.Request) {
	var body hatBody
	if err := decode(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	hat, err := domain.HatFromRecord(body.Hat)
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := s.contributors.AddHat(req.Context(), chi.URLParam(req, "id"), hat)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contributorView(c))
}

func (s *Server) removeHat(w http.ResponseWriter, req *http.Request) {
	var body hatBody
	if err := decode(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	hat, err := domain.HatFromRecord(body.Hat)
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := s.contributors.RemoveHat(req.Context(), chi.URLParam(req, "id"), hat)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contributorView(c))
}

func (s *Server) recommended(w http.ResponseWriter, req *http.Request) {
	projects, err := s.projects.RecommendedFor(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectViews(projects))
}

func (s *Server) inbox(w http.ResponseWriter, req *http.Request) {
	batch, err := s.notifications.Inbox(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// --- projects ---

type positionBody struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Requirements domain.HatRecord `json:"requirements"`
}

func positionSpecs(bodies []positionBody) ([]domain.PositionSpec, error) {
	specs := make([]domain.PositionSpec, 0, len(bodies))
	for _, b := range bodies {
		req, err := domain.HatFromRecord(b.Requirements)
		if err != nil {
			return nil, err
		}
		specs = append(specs, domain.PositionSpec{Name: b.Name, Description: b.Description, Requirements: req})
	}
	return specs, nil
}

func (s *Server) createProject(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Title       string         `json:"title"`
		Description string         `json:"description"`
		Positions   []positionBody `json:"positions"`
	}
	if err := decode(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	specs, err := positionSpecs(body.Positions)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, err := s.projects.Create(req.Context(), actor(req), body.Title, body.Description, specs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectView(p))
}

func (s *Server) getProject(w http.ResponseWriter, req *http.Request) {
	p, err := s.projects.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectView(p))
}

func (s *Server) editProject(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decode(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := s.projects.EditDetails(req.Context(), actor(req), chi.URLParam(req, "id"), body.Title, body.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectView(p))
}

func (s *Server) removeProject(w http.ResponseWriter, req *http.Request) {
	if err := s.projects.Remove(req.Context(), actor(req), chi.URLParam(req, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addPosition(w http.ResponseWriter, req *http.Request) {
	var body positionBody
	if err := decode(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	specs, err := positionSpecs([]positionBody{body})
	if err != nil {
		s.writeError(w, err)
		return
	}
	pos, err := s.projects.AddPosition(req.Context(), actor(req), chi.URLParam(req, "id"), specs[0])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, positionView(*pos))
}

func (s *Server) closePosition(w http.ResponseWriter, req *http.Request) {
	err := s.projects.ClosePosition(req.Context(), actor(req), chi.URLParam(req, "id"), chi.URLParam(req, "positionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reopenPosition(w http.ResponseWriter, req *http.Request) {
	err := s.projects.ReopenPosition(req.Context(), actor(req), chi.URLParam(req, "id"), chi.URLParam(req, "positionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removePosition(w http.ResponseWriter, req *http.Request) {
	err := s.projects.RemovePosition(req.Context(), actor(req), chi.URLParam(req, "id"), chi.URLParam(req, "positionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) discover(w http.ResponseWriter, req *http.Request) {
	filter := ports.DiscoverFilter{
		Keyword: req.URL.Query().Get("keyword"),
		Sort:    ports.SortOption(req.URL.Query().Get("sort")),
	}
	if raw := req.URL.Query().Get("hat"); raw != "" {
		var rec domain.HatRecord
		if err := json.Unmarshal([]byte(raw), &rec); err == nil {
			if hat, err := domain.HatFromRecord(rec); err == nil {
				filter.MatchingHat = hat
			}
		}
	}
	projects, err := s.projects.Discover(req.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectViews(projects))
}

// --- applications ---

func (s *Server) submitApplication(w http.ResponseWriter, req *http.Request) {
	var body struct {
		ProjectID  string `json:"project_id"`
		PositionID string `json:"position_id"`
	}
	if err := decode(req, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	app, err := s.applications.Submit(req.Context(), actor(req), body.ProjectID, body.PositionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) getApplication(w http.ResponseWriter, req *http.Request) {
	app, err := s.applications.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) acceptApplication(w http.ResponseWriter, req *http.Request) {
	if err := s.applications.Accept(req.Context(), actor(req), chi.URLParam(req, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) rejectApplication(w http.ResponseWriter, req *http.Request) {
	if err := s.applications.Reject(req.Context(), actor(req), chi.URLParam(req, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) revokeApplication(w http.ResponseWriter, req *http.Request) {
	if err := s.applications.Revoke(req.Context(), actor(req), chi.URLParam(req, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) receivedApplications(w http.ResponseWriter, req *http.Request) {
	filter := ports.ApplicationFilter{Status: domain.ApplicationStatus(req.URL.Query().Get("status"))}
	apps, err := s.applications.Received(req.Context(), actor(req), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) sentApplications(w http.ResponseWriter, req *http.Request) {
	filter := ports.ApplicationFilter{Status: domain.ApplicationStatus(req.URL.Query().Get("status"))}
	apps, err := s.applications.Sent(req.Context(), actor(req), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}
