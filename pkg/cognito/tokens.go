/*
Copyright 2025 Piotr Janik.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cognito

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt"

	"github.com/cogniteo/cognito-auth/pkg/userpool"
)

// tokenClaims are the ID token claims copied onto a session
type tokenClaims struct {
	Sub       string
	Email     string
	Username  string
	ExpiresAt time.Time
}

// parseClaims reads the claims of a token issued by the user pool.
// The signature is not verified.
func parseClaims(token string) (*tokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	tc := &tokenClaims{}
	tc.Sub, _ = claims["sub"].(string)
	tc.Email, _ = claims["email"].(string)
	tc.Username, _ = claims["cognito:username"].(string)
	if tc.Username == "" {
		tc.Username, _ = claims["username"].(string)
	}

	switch exp := claims["exp"].(type) {
	case float64:
		tc.ExpiresAt = time.Unix(int64(exp), 0)
	case json.Number:
		if v, err := exp.Int64(); err == nil {
			tc.ExpiresAt = time.Unix(v, 0)
		}
	}
	return tc, nil
}

// newSession builds a session from an authentication result. previous is the
// session being refreshed, if any; its refresh token is kept when the pool
// does not issue a new one.
func newSession(username string, result *types.AuthenticationResultType, now time.Time,
	previous *userpool.Session) (*userpool.Session, error) {
	if result == nil {
		return nil, fmt.Errorf("authentication result is empty")
	}

	s := &userpool.Session{
		Username:     username,
		IDToken:      aws.ToString(result.IdToken),
		AccessToken:  aws.ToString(result.AccessToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		TokenType:    aws.ToString(result.TokenType),
		IssuedAt:     now,
		ExpiresAt:    now.Add(time.Duration(result.ExpiresIn) * time.Second),
	}
	if previous != nil {
		if s.RefreshToken == "" {
			s.RefreshToken = previous.RefreshToken
		}
		s.Sub = previous.Sub
		s.Email = previous.Email
	}

	var expiries []time.Time
	if s.IDToken != "" {
		claims, err := parseClaims(s.IDToken)
		if err != nil {
			return nil, fmt.Errorf("invalid ID token: %w", err)
		}
		if claims.Sub != "" {
			s.Sub = claims.Sub
		}
		if claims.Email != "" {
			s.Email = claims.Email
		}
		if claims.Username != "" {
			s.Username = claims.Username
		}
		expiries = append(expiries, claims.ExpiresAt)
	}
	if s.AccessToken != "" {
		claims, err := parseClaims(s.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("invalid access token: %w", err)
		}
		expiries = append(expiries, claims.ExpiresAt)
	}

	// earliest token expiry wins over ExpiresIn
	var earliest time.Time
	for _, exp := range expiries {
		if exp.IsZero() {
			continue
		}
		if earliest.IsZero() || exp.Before(earliest) {
			earliest = exp
		}
	}
	if !earliest.IsZero() {
		s.ExpiresAt = earliest
	}

	return s, nil
}

func codeDelivery(details *types.CodeDeliveryDetailsType) *userpool.CodeDelivery {
	if details == nil {
		return nil
	}
	return &userpool.CodeDelivery{
		Destination:    aws.ToString(details.Destination),
		DeliveryMedium: string(details.DeliveryMedium),
		AttributeName:  aws.ToString(details.AttributeName),
	}
}
