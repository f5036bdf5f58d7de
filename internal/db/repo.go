package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"wellmate-chatbot/pkg"
)

// Repository is the session store adapter over the guest_data table. Backend
// failures are logged here and reported to callers as absence; callers treat
// an absent result as "not found" or "not written" and decide how to react.
//
// There is no optimistic concurrency control: concurrent writers to the same
// session_id race with last-write-wins semantics.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a Repository from an existing sql.DB. The caller
// owns the connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// Get loads the guest record for a session. The second result is false when
// the session does not exist or the backend call failed.
func (r *Repository) Get(ctx context.Context, sessionID string) (*pkg.GuestRecord, bool) {
	var (
		rec     pkg.GuestRecord
		name    sql.NullString
		age     sql.NullInt64
		gender  sql.NullString
		lang    sql.NullString
		phone   sql.NullString
		history []byte
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT session_id, patient_name, patient_age, patient_gender,
                patient_language, patient_phone, chat_history, created_at, updated_at
         FROM guest_data
         WHERE session_id = $1`,
		sessionID,
	).Scan(&rec.SessionID, &name, &age, &gender, &lang, &phone, &history, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Str("session_id", sessionID).Msg("failed to load guest data")
		}
		return nil, false
	}
	rec.PatientName = name.String
	rec.PatientAge = int(age.Int64)
	rec.PatientGender = gender.String
	rec.PatientLanguage = lang.String
	rec.PatientPhone = phone.String
	turns, err := decodeTurns(history)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to decode chat history")
		return nil, false
	}
	rec.ChatHistory = turns
	return &rec, true
}

// Create inserts a new guest record. It returns the stored record, or false
// when the insert failed for any reason.
func (r *Repository) Create(ctx context.Context, rec *pkg.GuestRecord) (*pkg.GuestRecord, bool) {
	history, err := encodeTurns(rec.ChatHistory)
	if err != nil {
		log.Error().Err(err).Str("session_id", rec.SessionID).Msg("failed to encode chat history")
		return nil, false
	}
	stored := *rec
	err = r.DB.QueryRowContext(ctx,
		`INSERT INTO guest_data
            (session_id, patient_name, patient_age, patient_gender,
             patient_language, patient_phone, chat_history)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING created_at, updated_at`,
		rec.SessionID, rec.PatientName, rec.PatientAge, rec.PatientGender,
		rec.PatientLanguage, rec.PatientPhone, history,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("session_id", rec.SessionID).Msg("failed to create guest data")
		return nil, false
	}
	return &stored, true
}

// UpdateProfile writes only the patient profile fields of an existing record.
// The session_id itself is immutable and never part of an update.
func (r *Repository) UpdateProfile(ctx context.Context, sessionID string, info pkg.PatientInfo) (*pkg.GuestRecord, bool) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE guest_data
         SET patient_name = $1, patient_age = $2, patient_gender = $3,
             patient_language = $4, patient_phone = $5, updated_at = NOW()
         WHERE session_id = $6`,
		info.Name, int(info.Age), info.Gender, info.Language, info.Phone, sessionID,
	)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to update patient info")
		return nil, false
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return nil, false
	}
	return r.Get(ctx, sessionID)
}

// UpdateChatHistory replaces the stored transcript of an existing record.
func (r *Repository) UpdateChatHistory(ctx context.Context, sessionID string, turns []pkg.Turn) (*pkg.GuestRecord, bool) {
	history, err := encodeTurns(turns)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to encode chat history")
		return nil, false
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE guest_data
         SET chat_history = $1, updated_at = NOW()
         WHERE session_id = $2`,
		history, sessionID,
	)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to update chat history")
		return nil, false
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return nil, false
	}
	return r.Get(ctx, sessionID)
}

func encodeTurns(turns []pkg.Turn) ([]byte, error) {
	if turns == nil {
		turns = []pkg.Turn{}
	}
	return json.Marshal(turns)
}

func decodeTurns(raw []byte) ([]pkg.Turn, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var turns []pkg.Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}
