package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"linguaclash/internal/cache"
	"linguaclash/internal/model"
	"linguaclash/internal/service"
	"linguaclash/internal/transport/rest/middleware"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	sessionSvc  *service.SessionService
	answerSvc   *service.AnswerService
	authSvc     *service.AuthService
	leaderboard cache.LeaderboardCache
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	sessionSvc *service.SessionService,
	answerSvc *service.AnswerService,
	authSvc *service.AuthService,
	leaderboard cache.LeaderboardCache,
) *SessionHandler {
	return &SessionHandler{
		sessionSvc:  sessionSvc,
		answerSvc:   answerSvc,
		authSvc:     authSvc,
		leaderboard: leaderboard,
	}
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

// JoinSessionRequest is the request body for joining a session
type JoinSessionRequest struct {
	UserID   string `json:"userId,omitempty"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// SubmitAnswerRequest is the request body for submitting an answer
type SubmitAnswerRequest struct {
	QuestionID  string `json:"questionId"`
	AnswerIndex int    `json:"answerIndex"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

// SessionResponse wraps a session with the caller's identity and token
type SessionResponse struct {
	Session *model.GameSession `json:"session"`
	UserID  string             `json:"userId"`
	Token   string             `json:"token"`
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	hostID := "u_" + uuid.New().String()[:8]

	session, err := h.sessionSvc.CreateSession(r.Context(), hostID, req.Name, req.Language)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.authSvc.GeneratePlayerToken(session.Code, hostID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, SessionResponse{Session: session, UserID: hostID, Token: token})
}

// Join handles POST /v1/sessions/{code}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req JoinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = "u_" + uuid.New().String()[:8]
	}

	session, err := h.sessionSvc.JoinSession(r.Context(), code, userID, req.Name, req.Language)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.authSvc.GeneratePlayerToken(code, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{Session: session, UserID: userID, Token: token})
}

// Start handles POST /v1/sessions/{code}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if middleware.GetSessionCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	session, err := h.sessionSvc.StartSession(r.Context(), code, middleware.GetPlayerID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Submit handles POST /v1/sessions/{code}/answers
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if middleware.GetSessionCode(r.Context()) != code {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "questionId is required")
		return
	}
	if req.TimeTakenMs < 0 {
		writeError(w, http.StatusBadRequest, "timeTakenMs must be >= 0")
		return
	}

	session, err := h.answerSvc.SubmitAnswer(r.Context(), code, middleware.GetPlayerID(r.Context()), req.QuestionID, req.AnswerIndex, req.TimeTakenMs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Get handles GET /v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	session, err := h.sessionSvc.GetSession(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Leaderboard handles GET /v1/sessions/{code}/leaderboard
func (h *SessionHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	topStr := r.URL.Query().Get("top")
	top := model.MaxPlayers
	if topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil && n > 0 {
			top = n
		}
	}

	entries, err := h.leaderboard.GetTop(r.Context(), code, top)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotHost), errors.Is(err, service.ErrPlayerNotInSession):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAlreadyStarted),
		errors.Is(err, service.ErrSessionFull),
		errors.Is(err, service.ErrQuestionMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
