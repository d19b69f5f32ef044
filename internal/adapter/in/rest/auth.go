package rest

import (
	"errors"
	"net/http"
	"strings"

	"yatube/internal/auth"
	"yatube/internal/model"
	"yatube/internal/service"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const claimsContextKey = "claims"

var errSignupDisabled = errors.New("signup is disabled")

// authenticate parses an optional bearer access token. A request without an
// Authorization header continues as anonymous; a bad token is rejected with
// 401.
func (h *Handler) authenticate() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:             claimsContextKey,
		ContinueOnIgnoredError: true,
		ParseTokenFunc: func(_ echo.Context, token string) (any, error) {
			return h.tokens.Parse(token, auth.AccessToken)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return nil
			}
			return &echo.HTTPError{
				Code:     http.StatusUnauthorized,
				Message:  "Given token not valid for any token type",
				Internal: errors.Join(auth.ErrInvalidToken, err),
			}
		},
	})
}

func principal(c echo.Context) model.Principal {
	if claims, ok := c.Get(claimsContextKey).(*auth.Claims); ok {
		return claims.Principal()
	}
	return model.Anonymous()
}

type obtainTokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

type accessResponse struct {
	Access string `json:"access"`
}

func (h *Handler) obtainToken(c echo.Context) error {
	var req obtainTokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ve := &service.ValidationError{}
	if req.Username == "" {
		ve.Add("username", "This field is required.")
	}
	if req.Password == "" {
		ve.Add("password", "This field is required.")
	}
	if len(ve.Fields) > 0 {
		return ve
	}

	ctx := c.Request().Context()
	u, err := h.users.Authenticate(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return err
	}

	pair, err := h.tokens.IssuePair(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *Handler) refreshToken(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Refresh == "" {
		return service.NewValidationError("refresh", "This field is required.")
	}

	claims, err := h.tokens.Parse(req.Refresh, auth.RefreshToken)
	if err != nil {
		return err
	}

	// the account may be gone since the refresh token was issued
	u, err := h.users.GetUser(c.Request().Context(), claims.UserID)
	if errors.Is(err, service.ErrNotFound) {
		return auth.ErrInvalidToken
	}
	if err != nil {
		return err
	}

	access, err := h.tokens.IssueAccess(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accessResponse{Access: access})
}

func (h *Handler) register(c echo.Context) error {
	if !h.enableSignup {
		return errors.Join(service.ErrForbidden, errSignupDisabled)
	}

	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	u, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}
