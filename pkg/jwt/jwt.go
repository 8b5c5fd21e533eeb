package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el contexto de acceso del painel.
// El middleware arma el AccessContext solo con estos campos, sin consultar al backend.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	AccessLevel string `json:"access_level"` // super_admin | admin_central | gerente_almox | resp_sub_almox | operador_setor
	SectorID    string `json:"sector_id,omitempty"`
}

// Access datos del usuario que viajan en el token.
type Access struct {
	UserID      string
	UserName    string
	AccessLevel string
	SectorID    string
}

// Generate genera un token JWT firmado con el contexto de acceso.
func Generate(secret string, a Access, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   a.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:      a.UserID,
		UserName:    a.UserName,
		AccessLevel: a.AccessLevel,
		SectorID:    a.SectorID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el contexto de acceso.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Access, error) {
	if secret == "" {
		return Access{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Access{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Access{}, fmt.Errorf("claims inválidos")
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return Access{
		UserID:      userID,
		UserName:    claims.UserName,
		AccessLevel: claims.AccessLevel,
		SectorID:    claims.SectorID,
	}, nil
}
