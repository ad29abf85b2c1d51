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

// Package cognitofx registers a Cognito user pool client with an fx
// application. Components receive the client by declaring a
// userpool.Client (or *cognito.AWSClient) dependency.
package cognitofx

import (
	"context"

	"github.com/go-logr/logr"
	"go.uber.org/fx"

	"github.com/cogniteo/cognito-auth/pkg/cognito"
	"github.com/cogniteo/cognito-auth/pkg/session"
	"github.com/cogniteo/cognito-auth/pkg/userpool"
)

// Params are the dependencies of the Cognito client
type Params struct {
	fx.In

	// Context bounds loading the AWS configuration; defaults to
	// context.Background
	Context  context.Context     `optional:"true"`
	Config   cognito.Config
	Logger   logr.Logger         `optional:"true"`
	Store    session.Store       `optional:"true"`
	API      cognito.CognitoAPI  `optional:"true"`
	Identity cognito.IdentityAPI `optional:"true"`
}

// Result exposes the configured client under both its concrete and
// interface types
type Result struct {
	fx.Out

	Client   *cognito.AWSClient
	UserPool userpool.Client
}

// Module provides the Cognito client
var Module = fx.Module("cognito",
	fx.Provide(New),
)

// New builds the client from the injected configuration
func New(p Params) (Result, error) {
	var opts []cognito.Option
	if p.Logger.GetSink() != nil {
		opts = append(opts, cognito.WithLogger(p.Logger.WithName("cognito")))
	}
	if p.Store != nil {
		opts = append(opts, cognito.WithStore(p.Store))
	}
	if p.API != nil {
		opts = append(opts, cognito.WithCognitoAPI(p.API))
	}
	if p.Identity != nil {
		opts = append(opts, cognito.WithIdentityAPI(p.Identity))
	}

	ctx := p.Context
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := cognito.NewAWSClient(ctx, p.Config, opts...)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Client:   client,
		UserPool: client,
	}, nil
}
