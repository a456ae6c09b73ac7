package handler

import (
	"net/http"

	"doemais/internal/service"
)

// UserHandler handles registration, login, and profile requests.
type UserHandler struct {
	auth *service.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// HandleRegister creates an account and returns a bearer token.
// POST /users/register
// Request:  {"name","email","password","confirmPassword","phone","address"}
// Response: 201 {"token": "...", "userId": 1}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		Phone           string `json:"phone"`
		Address         string `json:"address"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Phone,
		Address:         req.Address,
	})
	if err != nil {
		writeServiceError(w, err, "register user")
		return
	}

	token, err := h.auth.TokenFor(user)
	if err != nil {
		writeServiceError(w, err, "sign token after register")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token":  token,
		"userId": user.ID,
	})
}

// HandleLogin verifies credentials and returns a bearer token.
// POST /users/login
// Request:  {"email","password"}
// Response: 200 {"token": "...", "userId": 1}
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "login user")
		return
	}

	token, err := h.auth.TokenFor(user)
	if err != nil {
		writeServiceError(w, err, "sign token after login")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"userId": user.ID,
	})
}

// HandleCurrentUser returns the authenticated user's profile.
// GET /users/currentUser
func (h *UserHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleUpdateUser applies a full profile update, optionally replacing the
// profile image when a multipart "image" part is present.
// PUT /users/currentUser
func (h *UserHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var in service.UpdateUserInput
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid multipart body.")
			return
		}
		in.Name = r.FormValue("name")
		in.Email = r.FormValue("email")
		in.Password = r.FormValue("password")
		in.ConfirmPassword = r.FormValue("confirmPassword")
		in.Phone = r.FormValue("phone")
		in.Address = r.FormValue("address")

		image, err := formUpload(r, "image")
		if err != nil {
			writeServiceError(w, err, "read profile image upload")
			return
		}
		in.Image = image
	} else {
		var req struct {
			Name            string `json:"name"`
			Email           string `json:"email"`
			Password        string `json:"password"`
			ConfirmPassword string `json:"confirmPassword"`
			Phone           string `json:"phone"`
			Address         string `json:"address"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		in.Name = req.Name
		in.Email = req.Email
		in.Password = req.Password
		in.ConfirmPassword = req.ConfirmPassword
		in.Phone = req.Phone
		in.Address = req.Address
	}

	updated, err := h.auth.UpdateProfile(r.Context(), user.ID, in)
	if err != nil {
		writeServiceError(w, err, "update user profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(updated)})
}
