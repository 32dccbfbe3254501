package httpapi

import (
	"net/http"
	"time"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest accepts the account name under any of its keys.
type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l loginRequest) identity() string {
	switch {
	case l.Login != "":
		return l.Login
	case l.Username != "":
		return l.Username
	default:
		return l.Email
	}
}

type changePasswordRequest struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
	Confirm string `json:"new_password_confirm"`
}

type changeEmailRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changeUsernameRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userDTO   `json:"user"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	u, err := a.svc.Auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "registration successful", toUser(u))
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if req.identity() == "" || req.Password == "" {
		a.fail(w, r, errs.ErrValidation)
		return
	}
	tok, u, err := a.svc.Auth.LoginWithIP(r.Context(), req.identity(), req.Password, r.RemoteAddr)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "login successful", loginResponse{
		Token:     tok.AccessToken,
		ExpiresAt: tok.ExpiresAt,
		User:      toUser(u),
	})
}

func (a *API) profile(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	u, err := a.svc.Auth.Profile(r.Context(), uid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "profile", toUser(u))
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.svc.Auth.ChangePassword(r.Context(), uid, req.Current, req.New, req.Confirm); err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "password updated", nil)
}

func (a *API) changeEmail(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req changeEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	u, err := a.svc.Auth.ChangeEmail(r.Context(), uid, req.Password, req.Email)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "email updated", toUser(u))
}

func (a *API) changeUsername(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req changeUsernameRequest
	if err := decodeJSON(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	u, err := a.svc.Auth.ChangeUsername(r.Context(), uid, req.Password, req.Username)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "username updated", toUser(u))
}
