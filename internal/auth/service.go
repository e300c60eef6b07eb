package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/logger"
	"github.com/sebuszqo/FinanceLedger/internal/user"
)

const google2FAAuthMethod = "google_authenticator"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInternalError          = errors.New("internal Server Error")
	ErrInvalidTwoFactorMethod = errors.New("two factor auth method not supported")
	ErrUser2FANotEnabled      = errors.New("two factor auth is not enabled")
	ErrInvalid2FACode         = errors.New("2fa code is invalid")
	ErrUser2FAAlreadyEnabled  = errors.New("2fa auth already enabled")
)

// UserFinder is the part of the user service authentication depends on.
type UserFinder interface {
	GetUserByID(ctx context.Context, userID string) (*user.User, error)
	GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*user.User, error)
}

// LoginResult carries either a token pair or, when a second factor is
// required, a session token for the verification step.
type LoginResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
	SessionToken string
}

func (r LoginResult) TwoFactorRequired() bool {
	return r.SessionToken != ""
}

type Service interface {
	Login(ctx context.Context, emailOrLogin, password string) (LoginResult, error)
	VerifyTwoFactor(ctx context.Context, sessionToken, code string) (LoginResult, error)
	RegisterTwoFactor(ctx context.Context, userID string, method string) (string, error)
	VerifyTwoFactorCode(ctx context.Context, userID, method, code string) error
	DisableTwoFactorAuth(ctx context.Context, userID, method, verificationCode string) error
	RefreshAccessToken(ctx context.Context, userID string) (string, string, error)
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	repo           TwoFactorRepository
	userService    UserFinder
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	authenticator  TwoFactorAuthenticator
}

func NewAuthService(repo TwoFactorRepository, userService UserFinder, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface, authenticator TwoFactorAuthenticator) Service {
	return &service{
		repo:           repo,
		userService:    userService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		authenticator:  authenticator,
	}
}

func (s *service) getUser(ctx context.Context, userID string) (*user.User, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("user_id", userID).Msg("could not load user")
		return nil, ErrInternalError
	}
	return existingUser, nil
}

func (s *service) issueTokens(ctx context.Context, existingUser *user.User) (LoginResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("could not generate access token")
		return LoginResult{}, ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, existingUser.HashToken)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("could not generate refresh token")
		return LoginResult{}, ErrInternalError
	}
	return LoginResult{User: existingUser, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) Login(ctx context.Context, emailOrLogin, password string) (LoginResult, error) {
	existingUser, err := s.userService.GetUserByLoginOrEmail(ctx, emailOrLogin)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("could not load user for login")
		return LoginResult{}, ErrInternalError
	}

	if !user.DoPasswordsMatch(existingUser.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	if existingUser.TwoFactorEnabled {
		if existingUser.TwoFactorMethod != google2FAAuthMethod {
			return LoginResult{}, ErrInvalidTwoFactorMethod
		}
		sessionToken, err := s.sessionManager.GenerateSessionToken(existingUser.ID, defaultSessionTokenDuration)
		if err != nil {
			return LoginResult{}, ErrInternalError
		}
		return LoginResult{User: existingUser, SessionToken: sessionToken}, nil
	}

	return s.issueTokens(ctx, existingUser)
}

func (s *service) VerifyTwoFactor(ctx context.Context, sessionToken, code string) (LoginResult, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return LoginResult{}, err
	}
	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return LoginResult{}, err
	}
	if !existingUser.TwoFactorEnabled {
		return LoginResult{}, ErrUser2FANotEnabled
	}
	if existingUser.TwoFactorMethod != google2FAAuthMethod {
		return LoginResult{}, ErrInvalidTwoFactorMethod
	}

	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUser2FANotEnabled) {
			return LoginResult{}, err
		}
		return LoginResult{}, ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return LoginResult{}, ErrInvalid2FACode
	}

	s.sessionManager.DeleteSessionToken(sessionToken)
	return s.issueTokens(ctx, existingUser)
}

// RegisterTwoFactor stores a fresh TOTP secret and returns its otpauth URI.
// The factor is only enabled once VerifyTwoFactorCode accepts a code.
func (s *service) RegisterTwoFactor(ctx context.Context, userID string, method string) (string, error) {
	if method != google2FAAuthMethod {
		return "", ErrInvalidTwoFactorMethod
	}
	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("could not generate totp secret")
		return "", ErrInternalError
	}
	if err := s.repo.SaveTwoFactorSecret(ctx, userID, secret); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("could not save totp secret")
		return "", ErrInternalError
	}
	return otpURI, nil
}

func (s *service) VerifyTwoFactorCode(ctx context.Context, userID, method, code string) error {
	if method != google2FAAuthMethod {
		return ErrInvalidTwoFactorMethod
	}
	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUser2FANotEnabled) {
			return ErrUser2FANotEnabled
		}
		return ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	if err := s.repo.EnableTwoFactor(ctx, userID, method); err != nil {
		return ErrInternalError
	}
	return nil
}

func (s *service) DisableTwoFactorAuth(ctx context.Context, userID, method, verificationCode string) error {
	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}
	if existingUser.TwoFactorMethod != method || method != google2FAAuthMethod {
		return ErrInvalidTwoFactorMethod
	}

	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		return ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, verificationCode) {
		return ErrInvalid2FACode
	}

	if err := s.repo.DisableTwoFactor(ctx, userID); err != nil {
		return ErrInternalError
	}
	return nil
}

// RefreshAccessToken is only reached through JWTRefreshTokenMiddleware,
// which has already validated the refresh token.
func (s *service) RefreshAccessToken(ctx context.Context, userID string) (string, string, error) {
	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return "", "", err
	}
	tokens, err := s.issueTokens(ctx, existingUser)
	if err != nil {
		return "", "", err
	}
	return tokens.AccessToken, tokens.RefreshToken, nil
}
