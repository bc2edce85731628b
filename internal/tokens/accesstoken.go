package tokens

import "time"

// IssueAccess creates a short-lived access token for the given user
// identity. The expiry is now + AccessTTL.
func (i *Issuer) IssueAccess(subject, email, name string) (string, time.Time, error) {
	exp := time.Now().Add(i.AccessTTL)
	token, err := i.sign(subject, email, name, TypeAccess, exp)
	return token, exp, err
}

// ParseAccess verifies the signature and expiry and rejects tokens
// whose type claim is not "access", so a refresh token can never be
// used on a protected route.
func (i *Issuer) ParseAccess(tokenStr string) (*Claims, error) {
	claims, err := i.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != TypeAccess {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
