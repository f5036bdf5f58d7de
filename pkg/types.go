package pkg

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// TurnRole tags who authored a chat turn. Only human and ai are stored;
// anything else is dropped when a transcript is rebuilt.
type TurnRole string

const (
	RoleHuman TurnRole = "human"
	RoleAI    TurnRole = "ai"
)

// Turn is one message exchange unit in the persisted chat_history JSON array.
type Turn struct {
	Type    TurnRole `json:"type"`
	Content string   `json:"content"`
}

// Age accepts either a JSON number or a numeric string. Anything that cannot
// be read as an integer coerces to 0 rather than failing the request.
type Age int

func (a *Age) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*a = Age(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			*a = Age(n)
			return nil
		}
	}
	*a = 0
	return nil
}

// PatientInfo carries the free-form profile fields supplied by the client.
type PatientInfo struct {
	Name     string `json:"name"`
	Age      Age    `json:"age"`
	Gender   string `json:"gender"`
	Language string `json:"language"`
	Phone    string `json:"phone"`
}

// Normalized fills absent profile fields with their documented defaults.
func (p PatientInfo) Normalized() PatientInfo {
	if p.Name == "" {
		p.Name = "Unknown"
	}
	if p.Gender == "" {
		p.Gender = "Unknown"
	}
	if p.Language == "" {
		p.Language = "English"
	}
	return p
}

// GuestRecord is one guest session as stored in the guest_data table.
// SessionID is client-supplied, opaque and immutable.
type GuestRecord struct {
	SessionID       string    `json:"session_id"`
	PatientName     string    `json:"patient_name"`
	PatientAge      int       `json:"patient_age"`
	PatientGender   string    `json:"patient_gender"`
	PatientLanguage string    `json:"patient_language"`
	PatientPhone    string    `json:"patient_phone"`
	ChatHistory     []Turn    `json:"chat_history"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Profile returns the record's patient fields with defaults applied.
func (g *GuestRecord) Profile() PatientInfo {
	return PatientInfo{
		Name:     g.PatientName,
		Age:      Age(g.PatientAge),
		Gender:   g.PatientGender,
		Language: g.PatientLanguage,
		Phone:    g.PatientPhone,
	}.Normalized()
}

// Document is a reference document retrieved from the vector index.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse carries the constrained assistant reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// UpdatePatientRequest is the body of POST /update-patient. PatientInfo is
// kept raw so the handler can distinguish missing from malformed.
type UpdatePatientRequest struct {
	SessionID   string          `json:"session_id"`
	PatientInfo json.RawMessage `json:"patient_info"`
}
