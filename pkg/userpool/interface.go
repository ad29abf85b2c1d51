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

package userpool

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoCurrentUser is returned when no user has logged in through the client
	ErrNoCurrentUser = errors.New("no current user")

	// ErrInvalidSession is returned when the stored session has expired and cannot be refreshed
	ErrInvalidSession = errors.New("session is not valid")
)

// Attribute is a user attribute sent on sign-up
type Attribute struct {
	Name  string
	Value string
}

// CodeDelivery describes where a verification code was sent
type CodeDelivery struct {
	Destination    string
	DeliveryMedium string
	AttributeName  string
}

// SignUpResult is returned by a successful sign-up
type SignUpResult struct {
	Username      string
	UserSub       string
	UserConfirmed bool
	CodeDelivery  *CodeDelivery
}

// Session holds the tokens issued to the current user
type Session struct {
	Username     string
	Sub          string
	Email        string
	IDToken      string
	AccessToken  string
	RefreshToken string
	TokenType    string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// IsValid reports whether the session can still be used
func (s *Session) IsValid() bool {
	return s.IsValidAt(time.Now())
}

// IsValidAt reports whether the session is usable at t
func (s *Session) IsValidAt(t time.Time) bool {
	if s == nil || s.IDToken == "" || s.AccessToken == "" {
		return false
	}
	return t.Before(s.ExpiresAt)
}

// ChallengeError is returned by Login when the user pool answers with an
// authentication challenge instead of tokens.
type ChallengeError struct {
	Name       string
	Session    string
	Parameters map[string]string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("authentication challenge required: %s", e.Name)
}

// Client defines the authentication operations available against a user pool
type Client interface {
	// SignUp registers a new user; the username is also sent as the email attribute
	SignUp(ctx context.Context, username, password string, attributes ...Attribute) (*SignUpResult, error)

	// ConfirmSignUp activates a user with the code sent on sign-up
	ConfirmSignUp(ctx context.Context, username, code string) error

	// Login authenticates the user and makes it the current user
	Login(ctx context.Context, username, password string) (*Session, error)

	// Logout forgets the current user
	Logout(ctx context.Context) error

	// GlobalLogout revokes the current user's tokens and forgets the user
	GlobalLogout(ctx context.Context) error

	// CurrentSession returns a valid session for the current user
	CurrentSession(ctx context.Context) (*Session, error)

	// ConfirmAndLogin confirms the user and logs in with the same call
	ConfirmAndLogin(ctx context.Context, username, code, password string) (*Session, error)

	// ResendConfirmationCode sends the sign-up confirmation code again
	ResendConfirmationCode(ctx context.Context, username string) (*CodeDelivery, error)

	// ForgotPassword starts a password reset and sends a verification code
	ForgotPassword(ctx context.Context, username string) (*CodeDelivery, error)

	// ConfirmPassword completes a password reset
	ConfirmPassword(ctx context.Context, username, code, newPassword string) error
}
