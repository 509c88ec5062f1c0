package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

const tokenContextKey = "adminToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"notblank,email"`
		Password string `json:"password" validate:"notblank"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

// authenticator is the login gate guarding the API when an admin account is configured.
type authenticator struct {
	appName      string
	email        string
	passwordHash []byte
	signingKey   []byte
	ttl          time.Duration
	validate     *validator.Validate
}

func newAuthenticator(conf *core.Config, validate *validator.Validate) *authenticator {
	return &authenticator{
		appName:      conf.AppName,
		email:        strings.ToLower(conf.Auth.Email),
		passwordHash: []byte(conf.Auth.PasswordHash),
		signingKey:   []byte(conf.Auth.SecretKey),
		ttl:          conf.Auth.TokenTTL,
		validate:     validate,
	}
}

func (a *authenticator) enabled() bool {
	return a.email != "" && len(a.passwordHash) > 0
}

func (a *authenticator) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    a.signingKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	})
}

func (a *authenticator) claims(email string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.appName,
			Subject:   email,
			ExpiresAt: now.Add(a.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: email,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (a *authenticator) GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString(a.signingKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (a *authenticator) authenticate(email, pwd string) (*Claims, error) {
	if email != a.email {
		return nil, errAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(pwd)); err != nil {
		return nil, errAuthenticationFailed
	}
	return a.claims(email), nil
}

func (a *authenticator) login(ctx echo.Context) error {
	if !a.enabled() {
		return errLoginDisabled
	}
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(a.validate); err != nil {
		return err
	}

	claims, err := a.authenticate(data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := a.GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
