package http

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"wellmate-chatbot/internal/core"
	"wellmate-chatbot/pkg"
)

// SessionStore is the slice of the repository the handlers need. Absence
// (second result false) covers both "no such session" and a failed backend
// call; the store logs the cause.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*pkg.GuestRecord, bool)
	Create(ctx context.Context, rec *pkg.GuestRecord) (*pkg.GuestRecord, bool)
	UpdateProfile(ctx context.Context, sessionID string, info pkg.PatientInfo) (*pkg.GuestRecord, bool)
	UpdateChatHistory(ctx context.Context, sessionID string, turns []pkg.Turn) (*pkg.GuestRecord, bool)
}

// Responder runs the retrieval-augmented answer pipeline for one turn.
type Responder interface {
	Answer(ctx context.Context, profile pkg.PatientInfo, history *core.History, message string) (string, error)
}

// Server bundles together the dependencies required by HTTP handlers.
type Server struct {
	Store     SessionStore
	Pipeline  Responder
	StaticDir string
}

// NewServer constructs a Server.
func NewServer(store SessionStore, pipeline Responder, staticDir string) *Server {
	return &Server{Store: store, Pipeline: pipeline, StaticDir: staticDir}
}

// Register wires the API routes onto the router.
func (s *Server) Register(r *gin.Engine) {
	r.GET("/test", s.handleTest)
	r.GET("/", s.handleRoot)
	r.Static("/static", s.StaticDir)
	r.POST("/update-patient", s.handleUpdatePatient)
	r.POST("/chat", s.handleChat)
	r.POST("/logout", s.handleLogout)
}

// handleTest reports that the server is up.
func (s *Server) handleTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "Server is running",
		"message": "Test endpoint reached",
	})
}

// handleRoot serves the guest login page.
func (s *Server) handleRoot(c *gin.Context) {
	c.File(filepath.Join(s.StaticDir, "login_classic.html"))
}

// handleUpdatePatient upserts the profile fields of a guest session,
// creating the record with an empty transcript when it does not exist yet.
func (s *Server) handleUpdatePatient(c *gin.Context) {
	ctx := c.Request.Context()

	var req pkg.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		respondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}
	info, ok := parsePatientInfo(req.PatientInfo)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid patient info")
		return
	}

	if _, found := s.Store.Get(ctx, req.SessionID); !found {
		rec := &pkg.GuestRecord{
			SessionID:       req.SessionID,
			PatientName:     info.Name,
			PatientAge:      int(info.Age),
			PatientGender:   info.Gender,
			PatientLanguage: info.Language,
			PatientPhone:    info.Phone,
			ChatHistory:     []pkg.Turn{},
		}
		if _, ok := s.Store.Create(ctx, rec); !ok {
			respondError(c, http.StatusInternalServerError, "Failed to create session")
			return
		}
		log.Info().Str("session_id", req.SessionID).Msg("created new guest session")
	} else {
		if _, ok := s.Store.UpdateProfile(ctx, req.SessionID, info); !ok {
			respondError(c, http.StatusInternalServerError, "Failed to update patient info")
			return
		}
		log.Info().Str("session_id", req.SessionID).Msg("updated patient info")
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// handleChat runs one conversation turn: rebuild the history buffer from the
// stored transcript, run the answer pipeline, persist the appended and
// truncated tail, return the constrained reply.
func (s *Server) handleChat(c *gin.Context) {
	ctx := c.Request.Context()

	var req pkg.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		respondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}
	if req.Message == "" {
		respondError(c, http.StatusBadRequest, "Message is required")
		return
	}

	rec, found := s.Store.Get(ctx, req.SessionID)
	if !found {
		respondError(c, http.StatusNotFound, "Session not found")
		return
	}

	history := core.NewHistoryFromStored(rec.ChatHistory)
	answer, err := s.Pipeline.Answer(ctx, rec.Profile(), history, req.Message)
	if err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("chat pipeline failed")
		respondError(c, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	// The store write happens only after successful generation. A swallowed
	// write failure is logged by the adapter; the reply is still returned.
	if _, ok := s.Store.UpdateChatHistory(ctx, req.SessionID, history.Stored()); !ok {
		log.Warn().Str("session_id", req.SessionID).Msg("chat history not persisted")
	}

	c.JSON(http.StatusOK, pkg.ChatResponse{Response: answer})
}

// handleLogout clears the cookie session and sends the guest back to the
// login page.
func (s *Server) handleLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to clear session cookie")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// parsePatientInfo decodes the patient_info payload and applies field
// defaults. It reports false when the payload is missing or not an object.
func parsePatientInfo(raw json.RawMessage) (pkg.PatientInfo, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return pkg.PatientInfo{}, false
	}
	var info pkg.PatientInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return pkg.PatientInfo{}, false
	}
	return info.Normalized(), true
}

func respondError(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}
