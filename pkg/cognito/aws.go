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
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/go-logr/logr"

	"github.com/cogniteo/cognito-auth/pkg/session"
	"github.com/cogniteo/cognito-auth/pkg/userpool"
)

// AWSClient implements the userpool.Client interface for AWS Cognito
type AWSClient struct {
	cognito  CognitoAPI
	identity IdentityAPI
	cfg      Config
	store    session.Store
	log      logr.Logger
	now      func() time.Time

	credsMu sync.Mutex
	creds   *aws.CredentialsCache
}

// Option configures an AWSClient
type Option func(*AWSClient)

// WithLogger sets the logger used by the client
func WithLogger(log logr.Logger) Option {
	return func(c *AWSClient) {
		c.log = log
	}
}

// WithStore sets where the current user's session is kept
func WithStore(store session.Store) Option {
	return func(c *AWSClient) {
		c.store = store
	}
}

// WithCognitoAPI uses an already configured user pool API instead of
// building one from the default AWS configuration
func WithCognitoAPI(api CognitoAPI) Option {
	return func(c *AWSClient) {
		c.cognito = api
	}
}

// WithIdentityAPI uses an already configured identity pool API
func WithIdentityAPI(api IdentityAPI) Option {
	return func(c *AWSClient) {
		c.identity = api
	}
}

// WithClock overrides the time source used for session expiry
func WithClock(now func() time.Time) Option {
	return func(c *AWSClient) {
		c.now = now
	}
}

// NewAWSClient creates a new AWS Cognito client for the configured user pool
func NewAWSClient(ctx context.Context, cfg Config, opts ...Option) (*AWSClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &AWSClient{
		cfg:   cfg,
		store: session.NewMemoryStore(),
		log:   logr.Discard(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cognito == nil || (c.identity == nil && cfg.IdentityPoolID != "") {
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.ResolvedRegion()))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		if c.cognito == nil {
			c.cognito = cognitoidentityprovider.NewFromConfig(awsCfg)
		}
		if c.identity == nil && cfg.IdentityPoolID != "" {
			c.identity = cognitoidentity.NewFromConfig(awsCfg)
		}
	}

	c.log.V(1).Info("configured Cognito client",
		"userPoolId", cfg.UserPoolID, "region", cfg.ResolvedRegion(),
		"identityPool", cfg.IdentityPoolID != "")
	return c, nil
}

// NewAWSClientByName creates a new AWS Cognito client by finding user pool ID from name.
// cfg.UserPoolID is ignored; cfg.Region is required since it cannot be derived.
func NewAWSClientByName(ctx context.Context, userPoolName string, cfg Config, opts ...Option) (*AWSClient, error) {
	if userPoolName == "" {
		return nil, fmt.Errorf("userPoolName cannot be empty")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("region cannot be empty when resolving a user pool by name")
	}

	probe := &AWSClient{}
	for _, opt := range opts {
		opt(probe)
	}

	api := probe.cognito
	if api == nil {
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		api = cognitoidentityprovider.NewFromConfig(awsCfg)
	}

	// Find user pool ID by name
	userPoolID, err := findUserPoolIDByName(ctx, api, userPoolName)
	if err != nil {
		return nil, fmt.Errorf("failed to find user pool by name %s: %w", userPoolName, err)
	}

	cfg.UserPoolID = userPoolID
	return NewAWSClient(ctx, cfg, append(opts, WithCognitoAPI(api))...)
}

// findUserPoolIDByName finds a user pool ID by its name
func findUserPoolIDByName(ctx context.Context, cognito CognitoAPI,
	userPoolName string) (string, error) {
	var nextToken *string

	for {
		input := &cognitoidentityprovider.ListUserPoolsInput{
			MaxResults: aws.Int32(60), // Max allowed by AWS
			NextToken:  nextToken,
		}

		output, err := cognito.ListUserPools(ctx, input)
		if err != nil {
			return "", fmt.Errorf("failed to list user pools: %w", err)
		}

		for _, userPool := range output.UserPools {
			if userPool.Name != nil && strings.EqualFold(*userPool.Name, userPoolName) {
				if userPool.Id != nil {
					return *userPool.Id, nil
				}
			}
		}

		nextToken = output.NextToken
		if nextToken == nil {
			break
		}
	}

	return "", fmt.Errorf("user pool with name %s not found", userPoolName)
}

// Config returns the configuration the client was built with
func (c *AWSClient) Config() Config {
	return c.cfg
}

// SignUp registers a new user. The username doubles as the email attribute
// unless an email attribute is passed explicitly.
func (c *AWSClient) SignUp(ctx context.Context, username, password string,
	attributes ...userpool.Attribute) (*userpool.SignUpResult, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	hasEmail := false
	userAttributes := make([]types.AttributeType, 0, len(attributes)+1)
	for _, attr := range attributes {
		if attr.Name == "email" {
			hasEmail = true
		}
		userAttributes = append(userAttributes, types.AttributeType{
			Name:  aws.String(attr.Name),
			Value: aws.String(attr.Value),
		})
	}
	if !hasEmail {
		userAttributes = append(userAttributes, types.AttributeType{
			Name:  aws.String("email"),
			Value: aws.String(username),
		})
	}

	input := &cognitoidentityprovider.SignUpInput{
		ClientId:       aws.String(c.cfg.ClientID),
		Username:       aws.String(username),
		Password:       aws.String(password),
		UserAttributes: userAttributes,
		SecretHash:     c.cfg.secretHash(username),
	}

	output, err := c.cognito.SignUp(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to sign up user %s: %w", username, err)
	}

	c.log.Info("signed up user", "username", username, "confirmed", output.UserConfirmed)
	return &userpool.SignUpResult{
		Username:      username,
		UserSub:       aws.ToString(output.UserSub),
		UserConfirmed: output.UserConfirmed,
		CodeDelivery:  codeDelivery(output.CodeDeliveryDetails),
	}, nil
}

// ConfirmSignUp activates a user with the code delivered on sign-up
func (c *AWSClient) ConfirmSignUp(ctx context.Context, username, code string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if code == "" {
		return fmt.Errorf("confirmation code cannot be empty")
	}

	input := &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:           aws.String(c.cfg.ClientID),
		Username:           aws.String(username),
		ConfirmationCode:   aws.String(code),
		ForceAliasCreation: true,
		SecretHash:         c.cfg.secretHash(username),
	}

	if _, err := c.cognito.ConfirmSignUp(ctx, input); err != nil {
		return fmt.Errorf("failed to confirm user %s: %w", username, err)
	}

	c.log.Info("confirmed user", "username", username)
	return nil
}

// Login authenticates with username and password and stores the resulting
// session as the current user
func (c *AWSClient) Login(ctx context.Context, username, password string) (*userpool.Session, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	if hash := c.cfg.secretHash(username); hash != nil {
		params["SECRET_HASH"] = *hash
	}

	output, err := c.cognito.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(c.cfg.ClientID),
		AuthParameters: params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user %s: %w", username, err)
	}

	s, err := c.sessionFromAuth(username, output, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user %s: %w", username, err)
	}

	if err := c.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to store session for %s: %w", username, err)
	}

	c.invalidateCredentials()
	c.log.Info("logged in", "username", s.Username, "expiresAt", s.ExpiresAt)
	return s, nil
}

// sessionFromAuth turns an InitiateAuth response into a session, or a
// ChallengeError when the pool asks for another step
func (c *AWSClient) sessionFromAuth(username string, output *cognitoidentityprovider.InitiateAuthOutput,
	previous *userpool.Session) (*userpool.Session, error) {
	if output.AuthenticationResult == nil {
		if output.ChallengeName != "" {
			return nil, &userpool.ChallengeError{
				Name:       string(output.ChallengeName),
				Session:    aws.ToString(output.Session),
				Parameters: output.ChallengeParameters,
			}
		}
		return nil, fmt.Errorf("no authentication result returned")
	}
	return newSession(username, output.AuthenticationResult, c.now(), previous)
}

// Logout forgets the current user. Tokens stay valid until they expire;
// use GlobalLogout to revoke them.
func (c *AWSClient) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	c.invalidateCredentials()
	c.log.Info("logged out")
	return nil
}

// GlobalLogout revokes every token issued to the current user and forgets it.
// An expired access token is refreshed first.
func (c *AWSClient) GlobalLogout(ctx context.Context) error {
	s, err := c.CurrentSession(ctx)
	if err != nil {
		return err
	}

	_, err = c.cognito.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
		AccessToken: aws.String(s.AccessToken),
	})
	if err != nil {
		return fmt.Errorf("failed to sign out user %s: %w", s.Username, err)
	}

	return c.Logout(ctx)
}

// CurrentSession returns the current user's session. An expired session is
// refreshed with its refresh token and stored again.
func (c *AWSClient) CurrentSession(ctx context.Context) (*userpool.Session, error) {
	s, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil {
		return nil, userpool.ErrNoCurrentUser
	}
	if s.IsValidAt(c.now()) {
		return s, nil
	}
	if s.RefreshToken == "" {
		return nil, userpool.ErrInvalidSession
	}

	c.log.V(1).Info("refreshing expired session", "username", s.Username, "expiredAt", s.ExpiresAt)
	refreshed, err := c.refresh(ctx, s)
	if err != nil {
		return nil, err
	}
	if !refreshed.IsValidAt(c.now()) {
		return nil, userpool.ErrInvalidSession
	}

	if err := c.store.Save(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("failed to store session for %s: %w", refreshed.Username, err)
	}
	return refreshed, nil
}

func (c *AWSClient) refresh(ctx context.Context, s *userpool.Session) (*userpool.Session, error) {
	params := map[string]string{
		"REFRESH_TOKEN": s.RefreshToken,
	}
	if hash := c.cfg.secretHash(s.Username); hash != nil {
		params["SECRET_HASH"] = *hash
	}

	output, err := c.cognito.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
		ClientId:       aws.String(c.cfg.ClientID),
		AuthParameters: params,
	})
	if err != nil {
		var notAuthorized *types.NotAuthorizedException
		if errors.As(err, &notAuthorized) {
			return nil, fmt.Errorf("%w: %w", userpool.ErrInvalidSession, err)
		}
		return nil, fmt.Errorf("failed to refresh session for %s: %w", s.Username, err)
	}

	refreshed, err := c.sessionFromAuth(s.Username, output, s)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session for %s: %w", s.Username, err)
	}
	return refreshed, nil
}

// ConfirmAndLogin confirms the user with code and then logs in. A failed
// confirmation is returned without attempting the login.
func (c *AWSClient) ConfirmAndLogin(ctx context.Context, username, code, password string) (*userpool.Session, error) {
	if err := c.ConfirmSignUp(ctx, username, code); err != nil {
		return nil, err
	}
	return c.Login(ctx, username, password)
}

// ResendConfirmationCode sends the sign-up confirmation code again
func (c *AWSClient) ResendConfirmationCode(ctx context.Context, username string) (*userpool.CodeDelivery, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	output, err := c.cognito.ResendConfirmationCode(ctx, &cognitoidentityprovider.ResendConfirmationCodeInput{
		ClientId:   aws.String(c.cfg.ClientID),
		Username:   aws.String(username),
		SecretHash: c.cfg.secretHash(username),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resend confirmation code to %s: %w", username, err)
	}

	delivery := codeDelivery(output.CodeDeliveryDetails)
	c.log.Info("resent confirmation code", "username", username)
	return delivery, nil
}

// ForgotPassword starts a password reset. The verification code is sent to
// the returned destination and must be passed to ConfirmPassword.
func (c *AWSClient) ForgotPassword(ctx context.Context, username string) (*userpool.CodeDelivery, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	output, err := c.cognito.ForgotPassword(ctx, &cognitoidentityprovider.ForgotPasswordInput{
		ClientId:   aws.String(c.cfg.ClientID),
		Username:   aws.String(username),
		SecretHash: c.cfg.secretHash(username),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start password reset for %s: %w", username, err)
	}

	delivery := codeDelivery(output.CodeDeliveryDetails)
	c.log.Info("password reset started", "username", username)
	return delivery, nil
}

// ConfirmPassword sets a new password using the code sent by ForgotPassword
func (c *AWSClient) ConfirmPassword(ctx context.Context, username, code, newPassword string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if code == "" {
		return fmt.Errorf("verification code cannot be empty")
	}
	if newPassword == "" {
		return fmt.Errorf("new password cannot be empty")
	}

	_, err := c.cognito.ConfirmForgotPassword(ctx, &cognitoidentityprovider.ConfirmForgotPasswordInput{
		ClientId:         aws.String(c.cfg.ClientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
		SecretHash:       c.cfg.secretHash(username),
	})
	if err != nil {
		return fmt.Errorf("failed to confirm new password for %s: %w", username, err)
	}

	c.log.Info("password confirmed", "username", username)
	return nil
}

var _ userpool.Client = (*AWSClient)(nil)
