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

// Package cli implements the cognito-auth commands on top of a
// userpool.Client so they can run against the mock client in tests.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-logr/logr"

	"github.com/cogniteo/cognito-auth/pkg/userpool"
)

// CredentialsSource exchanges the current session for AWS credentials
type CredentialsSource interface {
	Credentials(ctx context.Context) (aws.Credentials, error)
}

// App runs commands against a user pool client
type App struct {
	Client      userpool.Client
	Credentials CredentialsSource
	Prompt      Prompter
	Out         io.Writer
	Log         logr.Logger
}

func (a *App) password(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	if a.Prompt == nil {
		return "", fmt.Errorf("%s is required", label)
	}
	return a.Prompt.Secret(label)
}

func (a *App) line(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	if a.Prompt == nil {
		return "", fmt.Errorf("%s is required", label)
	}
	return a.Prompt.Line(label)
}

func (a *App) printDelivery(prefix string, delivery *userpool.CodeDelivery) {
	if delivery == nil {
		fmt.Fprintln(a.Out, prefix)
		return
	}
	fmt.Fprintf(a.Out, "%s; code sent to %s via %s\n", prefix, delivery.Destination, delivery.DeliveryMedium)
}

func (a *App) printSession(s *userpool.Session) {
	fmt.Fprintf(a.Out, "Username:   %s\n", s.Username)
	if s.Sub != "" {
		fmt.Fprintf(a.Out, "Sub:        %s\n", s.Sub)
	}
	if s.Email != "" {
		fmt.Fprintf(a.Out, "Email:      %s\n", s.Email)
	}
	fmt.Fprintf(a.Out, "Expires at: %s\n", s.ExpiresAt.Format(time.RFC3339))
}

// SignUp registers username
func (a *App) SignUp(ctx context.Context, username, password string) error {
	password, err := a.password(password, "Password")
	if err != nil {
		return err
	}

	result, err := a.Client.SignUp(ctx, username, password)
	if err != nil {
		return err
	}

	if result.UserConfirmed {
		fmt.Fprintf(a.Out, "User %s registered and confirmed\n", result.Username)
		return nil
	}
	a.printDelivery(fmt.Sprintf("User %s registered", result.Username), result.CodeDelivery)
	return nil
}

// Confirm activates username with the code from sign-up
func (a *App) Confirm(ctx context.Context, username, code string) error {
	code, err := a.line(code, "Confirmation code")
	if err != nil {
		return err
	}

	if err := a.Client.ConfirmSignUp(ctx, username, code); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "User %s confirmed\n", username)
	return nil
}

// Login authenticates username and prints the resulting session
func (a *App) Login(ctx context.Context, username, password string) error {
	password, err := a.password(password, "Password")
	if err != nil {
		return err
	}

	s, err := a.Client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Logged in as %s\n", s.Username)
	a.printSession(s)
	return nil
}

// ConfirmLogin confirms username and logs in with one command
func (a *App) ConfirmLogin(ctx context.Context, username, code, password string) error {
	code, err := a.line(code, "Confirmation code")
	if err != nil {
		return err
	}
	password, err = a.password(password, "Password")
	if err != nil {
		return err
	}

	s, err := a.Client.ConfirmAndLogin(ctx, username, code, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "User %s confirmed and logged in\n", s.Username)
	a.printSession(s)
	return nil
}

// Logout forgets the current user, revoking its tokens when global is set
func (a *App) Logout(ctx context.Context, global bool) error {
	if global {
		if err := a.Client.GlobalLogout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "Signed out of all devices")
		return nil
	}

	if err := a.Client.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "Logged out")
	return nil
}

// Session prints the current session, refreshing it if needed
func (a *App) Session(ctx context.Context) error {
	s, err := a.Client.CurrentSession(ctx)
	if err != nil {
		if errors.Is(err, userpool.ErrNoCurrentUser) {
			return fmt.Errorf("not logged in: %w", err)
		}
		return err
	}
	a.printSession(s)
	return nil
}

// ResendCode sends the confirmation code for username again
func (a *App) ResendCode(ctx context.Context, username string) error {
	delivery, err := a.Client.ResendConfirmationCode(ctx, username)
	if err != nil {
		return err
	}
	a.printDelivery("Confirmation code resent", delivery)
	return nil
}

// ResetPassword runs the forgot-password flow. When code is empty the reset
// is started and the code is prompted for; an empty newPassword is prompted
// for as well.
func (a *App) ResetPassword(ctx context.Context, username, code, newPassword string) error {
	if code == "" {
		delivery, err := a.Client.ForgotPassword(ctx, username)
		if err != nil {
			return err
		}
		a.printDelivery("Password reset started", delivery)
	}

	code, err := a.line(code, "Verification code")
	if err != nil {
		return err
	}
	newPassword, err = a.password(newPassword, "New password")
	if err != nil {
		return err
	}

	if err := a.Client.ConfirmPassword(ctx, username, code, newPassword); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "Password changed")
	return nil
}

// PrintCredentials prints identity pool credentials as shell exports
func (a *App) PrintCredentials(ctx context.Context) error {
	if a.Credentials == nil {
		return fmt.Errorf("credentials are not available")
	}

	creds, err := a.Credentials.Credentials(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "export AWS_ACCESS_KEY_ID=%s\n", creds.AccessKeyID)
	fmt.Fprintf(a.Out, "export AWS_SECRET_ACCESS_KEY=%s\n", creds.SecretAccessKey)
	fmt.Fprintf(a.Out, "export AWS_SESSION_TOKEN=%s\n", creds.SessionToken)
	if creds.CanExpire {
		a.Log.V(1).Info("credentials expire", "expires", creds.Expires)
	}
	return nil
}
