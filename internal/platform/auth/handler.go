package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	store  *UserStore
	issuer *Issuer
}

func NewHandler(store *UserStore, issuer *Issuer) *Handler {
	return &Handler{store: store, issuer: issuer}
}

// RegisterPublicRoutes mounts the endpoints that must work without a
// token.
func (h *Handler) RegisterPublicRoutes(api *echo.Group) {
	g := api.Group("/auth")
	g.POST("/login", h.Login)
	g.POST("/register", h.Register)
	g.POST("/refresh", h.Refresh)
	g.GET("/roles", h.Roles)
}

// RegisterProtectedRoutes mounts the endpoints that run behind the JWT
// middleware.
func (h *Handler) RegisterProtectedRoutes(api *echo.Group) {
	g := api.Group("/auth")
	g.GET("/me", h.Me)
	g.POST("/logout", h.Logout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

func (h *Handler) tokens(u *User, withRefresh bool) (*tokenResponse, error) {
	access, err := h.issuer.IssueAccess(u)
	if err != nil {
		return nil, err
	}
	resp := &tokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int(h.issuer.AccessTTL().Seconds()),
	}
	if withRefresh {
		refresh, err := h.issuer.IssueRefresh(u)
		if err != nil {
			return nil, err
		}
		resp.RefreshToken = refresh
	}
	return resp, nil
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	resp, err := h.tokens(user, true)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}
	resp.User = user
	return c.JSON(http.StatusOK, resp)
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Specialty string `json:"specialty"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.store.Register(req.Email, req.Password, req.Name, req.Role, req.Specialty)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.tokens(user, true)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}
	resp.User = user
	return c.JSON(http.StatusCreated, resp)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	claims, err := h.issuer.VerifyRefresh(req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	user, err := h.store.Get(claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	resp, err := h.tokens(user, false)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Me(c echo.Context) error {
	claims := ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	user, err := h.store.Get(claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

func (h *Handler) Logout(c echo.Context) error {
	// Token invalidation is client-side; nothing to revoke server-side.
	return c.JSON(http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

type roleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) Roles(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]roleInfo{
		"roles": {
			{ID: "patient", Name: "Patient", Description: "Medical patient"},
			{ID: "doctor", Name: "Doctor", Description: "Healthcare provider"},
			{ID: "nurse", Name: "Nurse", Description: "Nursing staff"},
			{ID: "admin", Name: "Administrator", Description: "System administrator"},
		},
	})
}
