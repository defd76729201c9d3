package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims incluye los claims estándar JWT más los claims de sesión de la aplicación.
// Role y Approved viajan en el token para que el guard no consulte la DB; se refrescan en cada petición.
type Claims struct {
	jwt.RegisteredClaims
	Email    string         `json:"email,omitempty"`
	Role     string         `json:"role,omitempty"` // "ADMIN" | "COORDINADOR" | "VOLUNTARIO"
	Name     string         `json:"name,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
	Approved *bool          `json:"approved,omitempty"`
}

// Signer firma y valida tokens de sesión con HS256.
type Signer struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewSigner construye el firmador. expMinutes <= 0 produce tokens ya expirados (útil en tests).
func NewSigner(secret, issuer string, expMinutes int) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	return &Signer{
		secret:     []byte(secret),
		issuer:     issuer,
		expiration: time.Duration(expMinutes) * time.Minute,
		now:        time.Now,
	}, nil
}

// Expiration duración de validez de los tokens emitidos.
func (s *Signer) Expiration() time.Duration {
	return s.expiration
}

// Generate firma los claims. Completa iss, iat, exp y jti; conserva el sub recibido.
func (s *Signer) Generate(claims Claims) (string, error) {
	now := s.now()
	claims.Issuer = s.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiration))
	claims.ID = uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse valida firma, expiración y emisor, y devuelve los claims.
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
