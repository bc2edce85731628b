package tokens

import "time"

// IssueRefresh creates a long-lived refresh token for the given user
// identity. The expiry is now + RefreshTTL.
func (i *Issuer) IssueRefresh(subject, email, name string) (string, time.Time, error) {
	exp := time.Now().Add(i.RefreshTTL)
	token, err := i.sign(subject, email, name, TypeRefresh, exp)
	return token, exp, err
}

// ParseRefresh verifies the signature and expiry and rejects tokens
// whose type claim is not "refresh".
func (i *Issuer) ParseRefresh(tokenStr string) (*Claims, error) {
	claims, err := i.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != TypeRefresh {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
