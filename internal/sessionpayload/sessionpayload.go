package sessionpayload

import (
	"errors"
	"net/http"
	"strings"
)

//--
// Request and Response payloads for the session resource.
//
// The identity provider itself is external; these payloads only carry
// the opaque token exchange.
//--

// SignInRequest asks the provider for a token on behalf of a user id.
type SignInRequest struct {
	UserID string `json:"userId"`
}

// Bind on SignInRequest will run after the unmarshalling is complete.
func (s *SignInRequest) Bind(r *http.Request) error {
	s.UserID = strings.TrimSpace(s.UserID)
	if s.UserID == "" {
		return errors.New("missing required userId field.")
	}

	return nil
}

// SessionResponse carries the issued bearer token.
type SessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func NewSessionResponse(token, userID string) *SessionResponse {
	return &SessionResponse{Token: token, UserID: userID}
}

func (s *SessionResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
