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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/cogniteo/cognito-auth/pkg/userpool"
)

// MockConfirmationCode is the code MockClient accepts for sign-up
// confirmation and password resets
const MockConfirmationCode = "123456"

type mockUser struct {
	username  string
	password  string
	email     string
	sub       string
	confirmed bool
	resetting bool
}

// MockClient implements the userpool.Client interface for testing
type MockClient struct {
	mu      sync.Mutex
	users   map[string]*mockUser
	current *userpool.Session
	now     func() time.Time
}

// NewMockClient creates a new mock client for testing
func NewMockClient() *MockClient {
	return &MockClient{
		users: make(map[string]*mockUser),
		now:   time.Now,
	}
}

// IsConfirmed reports whether username exists and has been confirmed
func (m *MockClient) IsConfirmed(username string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[username]
	return exists && user.confirmed
}

// SignUp registers a new user in the mock store
func (m *MockClient) SignUp(ctx context.Context, username, password string,
	attributes ...userpool.Attribute) (*userpool.SignUpResult, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Check if user already exists
	if _, exists := m.users[username]; exists {
		return nil, &types.UsernameExistsException{Message: aws.String("User already exists")}
	}

	email := username
	for _, attr := range attributes {
		if attr.Name == "email" {
			email = attr.Value
		}
	}

	user := &mockUser{
		username: username,
		password: password,
		email:    email,
		sub:      "sub-" + username, // Mock derives sub from username
	}
	m.users[username] = user

	return &userpool.SignUpResult{
		Username: username,
		UserSub:  user.sub,
		CodeDelivery: &userpool.CodeDelivery{
			Destination:    email,
			DeliveryMedium: string(types.DeliveryMediumTypeEmail),
			AttributeName:  "email",
		},
	}, nil
}

// ConfirmSignUp confirms a user when code matches MockConfirmationCode
func (m *MockClient) ConfirmSignUp(ctx context.Context, username, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.lookup(username)
	if err != nil {
		return err
	}
	if code != MockConfirmationCode {
		return &types.CodeMismatchException{Message: aws.String("Invalid verification code provided")}
	}

	user.confirmed = true
	return nil
}

// Login authenticates a confirmed user and makes it the current user
func (m *MockClient) Login(ctx context.Context, username, password string) (*userpool.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.lookup(username)
	if err != nil {
		return nil, err
	}
	if user.password != password {
		return nil, &types.NotAuthorizedException{Message: aws.String("Incorrect username or password.")}
	}
	if !user.confirmed {
		return nil, &types.UserNotConfirmedException{Message: aws.String("User is not confirmed.")}
	}

	now := m.now()
	m.current = &userpool.Session{
		Username:     user.username,
		Sub:          user.sub,
		Email:        user.email,
		IDToken:      "mock-id-token-" + user.sub,
		AccessToken:  "mock-access-token-" + user.sub,
		RefreshToken: "mock-refresh-token-" + user.sub,
		TokenType:    "Bearer",
		IssuedAt:     now,
		ExpiresAt:    now.Add(time.Hour),
	}

	s := *m.current
	return &s, nil
}

// Logout forgets the current user
func (m *MockClient) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	return nil
}

// GlobalLogout forgets the current user, failing when there is none
func (m *MockClient) GlobalLogout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return userpool.ErrNoCurrentUser
	}
	m.current = nil
	return nil
}

// CurrentSession returns the current user's session
func (m *MockClient) CurrentSession(ctx context.Context) (*userpool.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, userpool.ErrNoCurrentUser
	}
	if !m.current.IsValidAt(m.now()) {
		return nil, userpool.ErrInvalidSession
	}

	s := *m.current
	return &s, nil
}

// ConfirmAndLogin confirms the user and logs in
func (m *MockClient) ConfirmAndLogin(ctx context.Context, username, code, password string) (*userpool.Session, error) {
	if err := m.ConfirmSignUp(ctx, username, code); err != nil {
		return nil, err
	}
	return m.Login(ctx, username, password)
}

// ResendConfirmationCode returns where the code would have been sent
func (m *MockClient) ResendConfirmationCode(ctx context.Context, username string) (*userpool.CodeDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.lookup(username)
	if err != nil {
		return nil, err
	}
	if user.confirmed {
		return nil, &types.InvalidParameterException{Message: aws.String("User is already confirmed.")}
	}

	return m.delivery(user), nil
}

// ForgotPassword starts a password reset for the user
func (m *MockClient) ForgotPassword(ctx context.Context, username string) (*userpool.CodeDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.lookup(username)
	if err != nil {
		return nil, err
	}

	user.resetting = true
	return m.delivery(user), nil
}

// ConfirmPassword sets a new password after ForgotPassword
func (m *MockClient) ConfirmPassword(ctx context.Context, username, code, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.lookup(username)
	if err != nil {
		return err
	}
	if !user.resetting || code != MockConfirmationCode {
		return &types.CodeMismatchException{Message: aws.String("Invalid verification code provided")}
	}
	if newPassword == "" {
		return &types.InvalidPasswordException{Message: aws.String("Password cannot be empty")}
	}

	user.password = newPassword
	user.resetting = false
	return nil
}

func (m *MockClient) lookup(username string) (*mockUser, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	user, exists := m.users[username]
	if !exists {
		return nil, &types.UserNotFoundException{Message: aws.String(fmt.Sprintf("user %s not found", username))}
	}
	return user, nil
}

func (m *MockClient) delivery(user *mockUser) *userpool.CodeDelivery {
	return &userpool.CodeDelivery{
		Destination:    user.email,
		DeliveryMedium: string(types.DeliveryMediumTypeEmail),
		AttributeName:  "email",
	}
}

var _ userpool.Client = (*MockClient)(nil)
