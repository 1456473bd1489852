package session

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/newsdaily/newsdaily/internal/errresponse"
	"github.com/newsdaily/newsdaily/internal/sessionpayload"
)

// Resource exposes the token exchange over HTTP. It is a stand-in for
// the hosted identity provider; the rest of the application only ever
// consumes the Provider interface.
type Resource struct {
	Provider *TokenProvider
}

func (rs *Resource) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", rs.SignIn)
	r.With(Middleware(rs.Provider), RequireUser).Delete("/", rs.SignOut)

	return r
}

// SignIn issues a bearer token for the posted user id.
func (rs *Resource) SignIn(w http.ResponseWriter, r *http.Request) {
	data := &sessionpayload.SignInRequest{}
	if err := render.Bind(r, data); err != nil {
		err = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	token := rs.Provider.SignIn(data.UserID)

	render.Status(r, http.StatusCreated)

	err := render.Render(w, r, sessionpayload.NewSessionResponse(token, data.UserID))
	if err != nil {
		log.Println(err)
	}
}

// SignOut revokes the caller's token.
func (rs *Resource) SignOut(w http.ResponseWriter, r *http.Request) {
	token, _ := Token(r.Context())
	rs.Provider.SignOut(token)

	render.NoContent(w, r)
}
