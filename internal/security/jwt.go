package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrCredentialExpired reports a structurally valid token past its
	// expiry. Kept distinct so callers can prompt a refresh instead of
	// treating the token as tampered with.
	ErrCredentialExpired = errors.New("credential expired")
	// ErrCredentialInvalid covers bad signatures, wrong algorithms and
	// missing required claims.
	ErrCredentialInvalid = errors.New("credential invalid")
)

// Claims is the single claims schema shared by access and refresh
// credentials; the two kinds differ only in TTL.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies RS256 credentials against one keypair.
type JWTManager struct {
	keys       *KeyMaterial
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTManager(keys *KeyMaterial, issuer string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		keys:       keys,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *JWTManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *JWTManager) RefreshTTL() time.Duration { return m.refreshTTL }

// SignAccess mints an access credential for the subject, with the username
// carried as an informational snapshot.
func (m *JWTManager) SignAccess(userID, username string) (string, error) {
	return m.sign(userID, username, m.accessTTL)
}

// SignRefresh mints a refresh credential. Validity of the subject must be
// re-checked on exchange; the token itself only proves possession.
func (m *JWTManager) SignRefresh(userID string) (string, error) {
	return m.sign(userID, "", m.refreshTTL)
}

func (m *JWTManager) sign(userID, username string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(m.keys.Private())
}

// Parse verifies signature and expiry and returns the claims. The subject
// claim is required.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	}
	if m.issuer != "" {
		options = append(options, jwt.WithIssuer(m.issuer))
	}
	parser := jwt.NewParser(options...)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.keys.Public(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrCredentialExpired
		}
		return nil, ErrCredentialInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrCredentialInvalid
	}
	return claims, nil
}
