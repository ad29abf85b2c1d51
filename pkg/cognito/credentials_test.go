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
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	identitytypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentity/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cogniteo/cognito-auth/pkg/cognito/mocks"
	"github.com/cogniteo/cognito-auth/pkg/userpool"
)

func TestAWSClient_Credentials(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig
	cfg.IdentityPoolID = "us-east-1:11111111-2222-3333-4444-555555555555"
	providerName := "cognito-idp.us-east-1.amazonaws.com/us-east-1_ABC123"

	loggedIn := func(t *testing.T, client *AWSClient) {
		require.NoError(t, client.store.Save(ctx, &userpool.Session{
			Username:    "test-sub-123",
			IDToken:     "id-token",
			AccessToken: "access-token",
			ExpiresAt:   testNow.Add(time.Hour),
		}))
	}

	t.Run("identity pool not configured", func(t *testing.T) {
		client := newTestClient(mocks.NewMockCognitoAPI(t), testConfig)

		_, err := client.Credentials(ctx)
		require.ErrorIs(t, err, ErrNoIdentityPool)
	})

	t.Run("guest credentials without a current user", func(t *testing.T) {
		identityAPI := mocks.NewMockIdentityAPI(t)
		identityAPI.On("GetId", mock.Anything, mock.MatchedBy(func(in *cognitoidentity.GetIdInput) bool {
			return aws.ToString(in.IdentityPoolId) == cfg.IdentityPoolID && len(in.Logins) == 0
		})).Return(&cognitoidentity.GetIdOutput{
			IdentityId: aws.String("us-east-1:guest-1"),
		}, nil)
		identityAPI.On("GetCredentialsForIdentity", mock.Anything, mock.MatchedBy(func(in *cognitoidentity.GetCredentialsForIdentityInput) bool {
			return aws.ToString(in.IdentityId) == "us-east-1:guest-1" && len(in.Logins) == 0
		})).Return(&cognitoidentity.GetCredentialsForIdentityOutput{
			IdentityId: aws.String("us-east-1:guest-1"),
			Credentials: &identitytypes.Credentials{
				AccessKeyId:  aws.String("ASIAGUEST"),
				SecretKey:    aws.String("guest-secret"),
				SessionToken: aws.String("guest-token"),
			},
		}, nil)

		client := newTestClient(mocks.NewMockCognitoAPI(t), cfg)
		client.identity = identityAPI

		creds, err := client.Credentials(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ASIAGUEST", creds.AccessKeyID)
		assert.False(t, creds.CanExpire)
	})

	t.Run("expired session without refresh token", func(t *testing.T) {
		identityAPI := mocks.NewMockIdentityAPI(t)
		client := newTestClient(mocks.NewMockCognitoAPI(t), cfg)
		client.identity = identityAPI
		require.NoError(t, client.store.Save(ctx, &userpool.Session{
			Username:    "test-sub-123",
			IDToken:     "id-token",
			AccessToken: "access-token",
			ExpiresAt:   testNow.Add(-time.Minute),
		}))

		_, err := client.Credentials(ctx)
		require.ErrorIs(t, err, userpool.ErrInvalidSession)
		identityAPI.AssertNotCalled(t, "GetId", mock.Anything, mock.Anything)
	})

	t.Run("exchanges the ID token for credentials", func(t *testing.T) {
		expiration := testNow.Add(time.Hour)
		identityAPI := mocks.NewMockIdentityAPI(t)
		identityAPI.On("GetId", mock.Anything, mock.MatchedBy(func(in *cognitoidentity.GetIdInput) bool {
			return aws.ToString(in.IdentityPoolId) == cfg.IdentityPoolID &&
				in.Logins[providerName] == "id-token"
		})).Return(&cognitoidentity.GetIdOutput{
			IdentityId: aws.String("us-east-1:identity-1"),
		}, nil)
		identityAPI.On("GetCredentialsForIdentity", mock.Anything, mock.MatchedBy(func(in *cognitoidentity.GetCredentialsForIdentityInput) bool {
			return aws.ToString(in.IdentityId) == "us-east-1:identity-1" &&
				in.Logins[providerName] == "id-token"
		})).Return(&cognitoidentity.GetCredentialsForIdentityOutput{
			IdentityId: aws.String("us-east-1:identity-1"),
			Credentials: &identitytypes.Credentials{
				AccessKeyId:  aws.String("ASIATEST"),
				SecretKey:    aws.String("secret"),
				SessionToken: aws.String("session-token"),
				Expiration:   aws.Time(expiration),
			},
		}, nil)

		client := newTestClient(mocks.NewMockCognitoAPI(t), cfg)
		client.identity = identityAPI
		loggedIn(t, client)

		creds, err := client.Credentials(ctx)
		require.NoError(t, err)
		assert.Equal(t, aws.Credentials{
			AccessKeyID:     "ASIATEST",
			SecretAccessKey: "secret",
			SessionToken:    "session-token",
			Source:          "CognitoIdentity",
			CanExpire:       true,
			Expires:         expiration,
		}, creds)
	})

	t.Run("identity lookup failure", func(t *testing.T) {
		identityAPI := mocks.NewMockIdentityAPI(t)
		identityAPI.On("GetId", mock.Anything, mock.Anything).Return(nil, errors.New("AWS error"))

		client := newTestClient(mocks.NewMockCognitoAPI(t), cfg)
		client.identity = identityAPI
		loggedIn(t, client)

		_, err := client.Credentials(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get identity")
		identityAPI.AssertNotCalled(t, "GetCredentialsForIdentity", mock.Anything, mock.Anything)
	})

	t.Run("provider retrieves through the cache", func(t *testing.T) {
		identityAPI := mocks.NewMockIdentityAPI(t)
		identityAPI.On("GetId", mock.Anything, mock.Anything).Return(&cognitoidentity.GetIdOutput{
			IdentityId: aws.String("us-east-1:identity-1"),
		}, nil).Once()
		identityAPI.On("GetCredentialsForIdentity", mock.Anything, mock.Anything).Return(&cognitoidentity.GetCredentialsForIdentityOutput{
			Credentials: &identitytypes.Credentials{
				AccessKeyId:  aws.String("ASIATEST"),
				SecretKey:    aws.String("secret"),
				SessionToken: aws.String("session-token"),
				Expiration:   aws.Time(time.Now().Add(time.Hour)),
			},
		}, nil).Once()

		client := newTestClient(mocks.NewMockCognitoAPI(t), cfg)
		client.identity = identityAPI
		loggedIn(t, client)

		provider := client.CredentialsProvider()
		first, err := provider.Retrieve(ctx)
		require.NoError(t, err)
		second, err := provider.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.AccessKeyID, second.AccessKeyID)
	})
	t.Run("logout drops cached credentials", func(t *testing.T) {
		identityAPI := mocks.NewMockIdentityAPI(t)
		identityAPI.On("GetId", mock.Anything, mock.MatchedBy(func(in *cognitoidentity.GetIdInput) bool {
			return in.Logins[providerName] == "id-token"
		})).Return(&cognitoidentity.GetIdOutput{
			IdentityId: aws.String("us-east-1:identity-1"),
		}, nil).Once()
		identityAPI.On("GetCredentialsForIdentity", mock.Anything, mock.MatchedBy(func(in *cognitoidentity.GetCredentialsForIdentityInput) bool {
			return aws.ToString(in.IdentityId) == "us-east-1:identity-1"
		})).Return(&cognitoidentity.GetCredentialsForIdentityOutput{
			Credentials: &identitytypes.Credentials{
				AccessKeyId:  aws.String("ASIAUSER"),
				SecretKey:    aws.String("secret"),
				SessionToken: aws.String("session-token"),
				Expiration:   aws.Time(time.Now().Add(time.Hour)),
			},
		}, nil).Once()
		identityAPI.On("GetId", mock.Anything, mock.MatchedBy(func(in *cognitoidentity.GetIdInput) bool {
			return len(in.Logins) == 0
		})).Return(&cognitoidentity.GetIdOutput{
			IdentityId: aws.String("us-east-1:guest-1"),
		}, nil).Once()
		identityAPI.On("GetCredentialsForIdentity", mock.Anything, mock.MatchedBy(func(in *cognitoidentity.GetCredentialsForIdentityInput) bool {
			return aws.ToString(in.IdentityId) == "us-east-1:guest-1"
		})).Return(&cognitoidentity.GetCredentialsForIdentityOutput{
			Credentials: &identitytypes.Credentials{
				AccessKeyId:  aws.String("ASIAGUEST"),
				SecretKey:    aws.String("guest-secret"),
				SessionToken: aws.String("guest-token"),
				Expiration:   aws.Time(time.Now().Add(time.Hour)),
			},
		}, nil).Once()

		client := newTestClient(mocks.NewMockCognitoAPI(t), cfg)
		client.identity = identityAPI
		loggedIn(t, client)

		provider := client.CredentialsProvider()
		assert.Same(t, provider, client.CredentialsProvider())

		user, err := provider.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ASIAUSER", user.AccessKeyID)

		require.NoError(t, client.Logout(ctx))

		guest, err := provider.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ASIAGUEST", guest.AccessKeyID)
	})
}
