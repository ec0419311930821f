package middleware

import (
	"context"
	"net/http"
)

type contextKey string

// ParticipantIDKey is the request-context key holding the caller's identity.
const ParticipantIDKey contextKey = "participantId"

// ParticipantIDHeader carries the gateway-verified participant identity.
// Token verification happens at the gateway; this service only refuses to act
// for an unidentified caller.
const ParticipantIDHeader = "X-Participant-Id"

// RequireParticipant rejects requests without a participant identity and
// stores the identity in the request context for handlers.
func RequireParticipant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		participantID := r.Header.Get(ParticipantIDHeader)
		if participantID == "" {
			http.Error(w, "missing participant identity", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ParticipantIDKey, participantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParticipantID extracts the caller identity set by RequireParticipant.
func ParticipantID(r *http.Request) string {
	if v, ok := r.Context().Value(ParticipantIDKey).(string); ok {
		return v
	}
	return ""
}
