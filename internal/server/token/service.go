// Package token implements the access/refresh token lifecycle: issuance,
// verification, rotation and revocation.
//
// Refresh-token state per account is a single slot on the account record:
// EMPTY -> ISSUED (login) -> ISSUED' (refresh, new value) -> EMPTY (logout).
// Overwriting the slot implicitly invalidates the previous token even if it
// has not expired cryptographically.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken — битый, протухший или неверно подписанный токен
	ErrInvalidToken = errors.New("invalid token")

	// ErrRefreshTokenExpired — токен валиден криптографически, но вытеснен
	// более новым значением слота (ротация) либо слот пуст
	ErrRefreshTokenExpired = errors.New("refresh token superseded")

	// ErrAccountNotFound — аккаунт из claims не существует
	ErrAccountNotFound = errors.New("account not found")

	// ErrTokenIssuance — не удалось сохранить refresh token на аккаунте
	ErrTokenIssuance = errors.New("failed to issue token pair")
)

// Account — минимальная проекция аккаунта, достаточная для выпуска токенов
type Account struct {
	ID       string
	Username string
	Email    string
}

// AccountStore абстрагирует хранилище аккаунтов от варианта (User/Admin).
// Слот refresh-токена живет на самой записи аккаунта — отдельного
// хранилища токенов нет.
type AccountStore interface {
	// FindAccount returns the account and its current refresh-token slot
	// value. Must return ErrAccountNotFound (possibly wrapped) when absent.
	FindAccount(ctx context.Context, id string) (Account, string, error)

	// SetRefreshToken overwrites the slot; empty string clears it
	SetRefreshToken(ctx context.Context, id, token string) error
}

// Config задает секреты и сроки жизни токенов.
// Секреты access и refresh РАЗНЫЕ: подделанный/утекший access token
// не может быть предъявлен как refresh.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// AccessClaims — полезная нагрузка access-токена
type AccessClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshClaims — полезная нагрузка refresh-токена: только id
type RefreshClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Pair bundles a short-lived access token and a long-lived refresh token
type Pair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // время жизни access token в секундах
}

// Service выпускает, проверяет и ротирует пары токенов для одного
// варианта аккаунта (свой экземпляр на User и на Admin)
type Service struct {
	cfg      Config
	accounts AccountStore
}

// NewService создает новый token service поверх хранилища аккаунтов
func NewService(cfg Config, accounts AccountStore) *Service {
	return &Service{cfg: cfg, accounts: accounts}
}

// IssuePair выпускает новую пару и сохраняет refresh token в слот аккаунта,
// атомарно вытесняя предыдущее значение (ротация)
func (s *Service) IssuePair(ctx context.Context, acc Account) (Pair, error) {
	now := time.Now()

	access, err := s.signAccess(acc, now)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}

	refresh, err := s.signRefresh(acc.ID, now)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}

	if err := s.accounts.SetRefreshToken(ctx, acc.ID, refresh); err != nil {
		return Pair{}, fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}

	return Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, nil
}

// VerifyAccess validates an access token against the access secret
func (s *Service) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenString, claims, s.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token against the refresh secret
func (s *Service) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenString, claims, s.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// Refresh redeems a presented refresh token for a brand-new pair.
//
// Предъявленный токен сверяется ТОЧНЫМ сравнением со значением слота:
// старый, но не протухший токен отклоняется, как только выдан более новый.
func (s *Service) Refresh(ctx context.Context, presented string) (Pair, Account, error) {
	claims, err := s.VerifyRefresh(presented)
	if err != nil {
		return Pair{}, Account{}, err
	}

	acc, stored, err := s.accounts.FindAccount(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Pair{}, Account{}, ErrAccountNotFound
		}
		return Pair{}, Account{}, fmt.Errorf("failed to load account: %w", err)
	}

	if stored == "" || stored != presented {
		return Pair{}, Account{}, ErrRefreshTokenExpired
	}

	pair, err := s.IssuePair(ctx, acc)
	if err != nil {
		return Pair{}, Account{}, err
	}

	return pair, acc, nil
}

// Revoke clears the refresh-token slot so no previously issued refresh
// token can be redeemed afterwards
func (s *Service) Revoke(ctx context.Context, accountID string) error {
	if err := s.accounts.SetRefreshToken(ctx, accountID, ""); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *Service) signAccess(acc Account, now time.Time) (string, error) {
	claims := AccessClaims{
		UserID:   acc.ID,
		Username: acc.Username,
		Email:    acc.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.AccessSecret)
}

func (s *Service) signRefresh(accountID string, now time.Time) (string, error) {
	claims := RefreshClaims{
		UserID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			// jti гарантирует уникальность токена даже при выпуске двух
			// подряд в одну секунду — иначе ротация выдала бы байт-в-байт
			// тот же токен
			ID: uuid.New().String(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.RefreshSecret)
}

// parse нормализует любую ошибку парсинга/проверки в ErrInvalidToken,
// не различая "протух" и "битый" — меньше оракулов наружу
func (s *Service) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	return nil
}
