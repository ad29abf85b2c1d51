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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"

	"github.com/cogniteo/cognito-auth/pkg/userpool"
)

// ErrNoIdentityPool is returned when credentials are requested from a client
// configured without an identity pool
var ErrNoIdentityPool = errors.New("identity pool is not configured")

const credentialsSource = "CognitoIdentity"

// Credentials returns temporary AWS credentials from the configured identity
// pool. The current user's ID token is exchanged when someone is logged in;
// otherwise the pool issues unauthenticated guest credentials.
func (c *AWSClient) Credentials(ctx context.Context) (aws.Credentials, error) {
	if c.cfg.IdentityPoolID == "" || c.identity == nil {
		return aws.Credentials{}, ErrNoIdentityPool
	}

	var logins map[string]string
	principal := "guest"
	s, err := c.CurrentSession(ctx)
	switch {
	case err == nil:
		logins = map[string]string{
			c.cfg.ProviderName(): s.IDToken,
		}
		principal = s.Username
	case errors.Is(err, userpool.ErrNoCurrentUser):
	default:
		return aws.Credentials{}, err
	}

	idOutput, err := c.identity.GetId(ctx, &cognitoidentity.GetIdInput{
		IdentityPoolId: aws.String(c.cfg.IdentityPoolID),
		Logins:         logins,
	})
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("failed to get identity for %s: %w", principal, err)
	}

	output, err := c.identity.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: idOutput.IdentityId,
		Logins:     logins,
	})
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("failed to get credentials for identity %s: %w",
			aws.ToString(idOutput.IdentityId), err)
	}
	if output.Credentials == nil {
		return aws.Credentials{}, fmt.Errorf("no credentials returned for identity %s",
			aws.ToString(idOutput.IdentityId))
	}

	creds := aws.Credentials{
		AccessKeyID:     aws.ToString(output.Credentials.AccessKeyId),
		SecretAccessKey: aws.ToString(output.Credentials.SecretKey),
		SessionToken:    aws.ToString(output.Credentials.SessionToken),
		Source:          credentialsSource,
	}
	if output.Credentials.Expiration != nil {
		creds.CanExpire = true
		creds.Expires = *output.Credentials.Expiration
	}

	c.log.V(1).Info("retrieved identity pool credentials", "principal", principal,
		"identityId", aws.ToString(idOutput.IdentityId), "expires", creds.Expires)
	return creds, nil
}

// CredentialsProvider returns the client's cached aws.CredentialsProvider
// backed by Credentials, suitable for aws.Config.Credentials. The cache is
// dropped on Login and Logout so it never outlives the user it was issued to.
func (c *AWSClient) CredentialsProvider() aws.CredentialsProvider {
	c.credsMu.Lock()
	defer c.credsMu.Unlock()

	if c.creds == nil {
		c.creds = aws.NewCredentialsCache(aws.CredentialsProviderFunc(c.Credentials))
	}
	return c.creds
}

func (c *AWSClient) invalidateCredentials() {
	c.credsMu.Lock()
	defer c.credsMu.Unlock()

	if c.creds != nil {
		c.creds.Invalidate()
	}
}
