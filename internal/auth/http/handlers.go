package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidytask/tidytask-backend/internal/api/http/respond"
	"github.com/tidytask/tidytask-backend/internal/auth"
	usersvc "github.com/tidytask/tidytask-backend/internal/users/service"
)

// callbackPage hands the freshly minted token to the window that opened the
// OAuth popup. Served as text/html, so it bypasses the response envelope.
const callbackPage = `<html>
  <body>
    <script>
      window.opener.postMessage({ token: '%s' }, '*');
    </script>
  </body>
</html>`

type Handler struct {
	provider *auth.GithubProvider
	states   *auth.StateStore
	issuer   *auth.TokenIssuer
	users    *usersvc.UserService
}

func NewHandler(provider *auth.GithubProvider, states *auth.StateStore, issuer *auth.TokenIssuer, users *usersvc.UserService) *Handler {
	return &Handler{
		provider: provider,
		states:   states,
		issuer:   issuer,
		users:    users,
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/github/login", h.login)
	rg.GET("/github/callback", h.callback)
}

// login issues a single-use state and redirects to the GitHub consent page.
func (h *Handler) login(c *gin.Context) {
	state, err := h.states.Issue(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthURL(state))
}

// callback finishes the handshake: consume the state, exchange the code,
// find-or-create the user, mint a token, and post it to the opener window.
func (h *Handler) callback(c *gin.Context) {
	ok, err := h.states.Consume(c.Request.Context(), c.Query("state"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	if !ok {
		respond.Message(c, http.StatusBadRequest, "invalid or expired oauth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		respond.Message(c, http.StatusBadRequest, "missing oauth code")
		return
	}

	profile, err := h.provider.ResolveProfile(c.Request.Context(), code)
	if err != nil {
		respond.Message(c, http.StatusBadGateway, "github login failed")
		return
	}

	name := profile.Name
	user, err := h.users.FindOrCreate(c.Request.Context(), profile.ExternalID, &name)
	if err != nil {
		respond.Error(c, err)
		return
	}

	displayName := ""
	if user.Name != nil {
		displayName = *user.Name
	}

	token, err := h.issuer.Sign(user.ID, displayName)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(callbackPage, token)))
}
