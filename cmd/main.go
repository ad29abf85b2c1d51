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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/cogniteo/cognito-auth/internal/cli"
	"github.com/cogniteo/cognito-auth/internal/config"
	"github.com/cogniteo/cognito-auth/internal/logging"
	"github.com/cogniteo/cognito-auth/pkg/cognito"
	"github.com/cogniteo/cognito-auth/pkg/cognitofx"
	"github.com/cogniteo/cognito-auth/pkg/session"
)

var (
	app = kingpin.New("cognito-auth", "Sign up, sign in and manage sessions against an AWS Cognito user pool.")

	configPath   = app.Flag("config", "Path to a YAML config file.").Short('c').String()
	userPoolName = app.Flag("user-pool-name", "Resolve the user pool ID from its name (requires region).").String()
	sessionFile  = app.Flag("session-file", "File holding the current session.").String()
	development  = app.Flag("development", "Human-readable debug logging.").Bool()

	signupCmd      = app.Command("signup", "Register a new user; the username is also used as email.")
	signupUser     = signupCmd.Arg("username", "Username (email).").Required().String()
	signupPassword = signupCmd.Flag("password", "Password; prompted for when omitted.").String()

	confirmCmd  = app.Command("confirm", "Confirm a user with the code sent on sign-up.")
	confirmUser = confirmCmd.Arg("username", "Username.").Required().String()
	confirmCode = confirmCmd.Arg("code", "Confirmation code; prompted for when omitted.").String()

	loginCmd      = app.Command("login", "Log in and store the session.")
	loginUser     = loginCmd.Arg("username", "Username.").Required().String()
	loginPassword = loginCmd.Flag("password", "Password; prompted for when omitted.").String()

	logoutCmd    = app.Command("logout", "Forget the stored session.")
	logoutGlobal = logoutCmd.Flag("global", "Also revoke every token issued to the user.").Bool()

	sessionCmd = app.Command("session", "Show the current session, refreshing it when expired.")

	confirmLoginCmd      = app.Command("confirm-login", "Confirm a user and log in.")
	confirmLoginUser     = confirmLoginCmd.Arg("username", "Username.").Required().String()
	confirmLoginCode     = confirmLoginCmd.Arg("code", "Confirmation code; prompted for when omitted.").String()
	confirmLoginPassword = confirmLoginCmd.Flag("password", "Password; prompted for when omitted.").String()

	resendCmd  = app.Command("resend-code", "Send the confirmation code again.")
	resendUser = resendCmd.Arg("username", "Username.").Required().String()

	resetCmd      = app.Command("reset-password", "Reset a forgotten password.")
	resetUser     = resetCmd.Arg("username", "Username.").Required().String()
	resetCode     = resetCmd.Flag("code", "Verification code from an earlier reset; starts a new reset when omitted.").String()
	resetPassword = resetCmd.Flag("new-password", "New password; prompted for when omitted.").String()

	credentialsCmd = app.Command("credentials", "Print identity pool AWS credentials as shell exports (guest credentials when logged out).")
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	settings, err := config.Load(*configPath)
	app.FatalIfError(err, "load config")
	if *sessionFile != "" {
		settings.SessionFile = *sessionFile
	}
	if *development {
		settings.Development = true
	}

	log, zapLogger, err := logging.New(settings.Development)
	app.FatalIfError(err, "")
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *userPoolName != "" {
		resolved, err := cognito.NewAWSClientByName(ctx, *userPoolName, settings.Cognito, cognito.WithLogger(log))
		app.FatalIfError(err, "resolve user pool")
		settings.Cognito = resolved.Config()
		log.V(1).Info("resolved user pool", "name", *userPoolName, "userPoolId", settings.Cognito.UserPoolID)
	}

	var client *cognito.AWSClient
	fxApp := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zapLogger.With(zap.String("component", "fx"))}
		}),
		fx.Supply(settings.Cognito),
		fx.Provide(
			func() context.Context { return ctx },
			func() logr.Logger { return log },
			func() (session.Store, error) {
				store, err := session.NewFileStore(settings.SessionFile)
				if err != nil {
					return nil, err
				}
				return store, nil
			},
		),
		cognitofx.Module,
		fx.Populate(&client),
	)
	app.FatalIfError(fxApp.Err(), "configure Cognito client")

	runner := &cli.App{
		Client:      client,
		Credentials: client,
		Prompt:      cli.NewTerminalPrompter(),
		Out:         os.Stdout,
		Log:         log,
	}

	switch command {
	case signupCmd.FullCommand():
		err = runner.SignUp(ctx, *signupUser, *signupPassword)
	case confirmCmd.FullCommand():
		err = runner.Confirm(ctx, *confirmUser, *confirmCode)
	case loginCmd.FullCommand():
		err = runner.Login(ctx, *loginUser, *loginPassword)
	case logoutCmd.FullCommand():
		err = runner.Logout(ctx, *logoutGlobal)
	case sessionCmd.FullCommand():
		err = runner.Session(ctx)
	case confirmLoginCmd.FullCommand():
		err = runner.ConfirmLogin(ctx, *confirmLoginUser, *confirmLoginCode, *confirmLoginPassword)
	case resendCmd.FullCommand():
		err = runner.ResendCode(ctx, *resendUser)
	case resetCmd.FullCommand():
		err = runner.ResetPassword(ctx, *resetUser, *resetCode, *resetPassword)
	case credentialsCmd.FullCommand():
		err = runner.PrintCredentials(ctx)
	}
	if err != nil {
		log.V(1).Info("command failed", "command", command, "error", err.Error())
	}
	app.FatalIfError(err, "%s", command)
}
