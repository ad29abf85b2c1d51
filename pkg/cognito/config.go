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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

// Config is the user pool configuration consumed at setup
type Config struct {
	UserPoolID     string `mapstructure:"user_pool_id"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	Region         string `mapstructure:"region"`
	IdentityPoolID string `mapstructure:"identity_pool_id"`
}

// Validate checks that the fields required by every call are present
func (c Config) Validate() error {
	if c.UserPoolID == "" {
		return fmt.Errorf("userPoolID cannot be empty")
	}
	if c.ClientID == "" {
		return fmt.Errorf("clientID cannot be empty")
	}
	if c.ResolvedRegion() == "" {
		return fmt.Errorf("region cannot be determined from user pool ID %s", c.UserPoolID)
	}
	return nil
}

// ResolvedRegion returns Region, or the region prefix of the user pool ID
// ("eu-west-1_AbC" -> "eu-west-1") when Region is unset.
func (c Config) ResolvedRegion() string {
	if c.Region != "" {
		return c.Region
	}
	region, _, found := strings.Cut(c.UserPoolID, "_")
	if !found {
		return ""
	}
	return region
}

// ProviderName is the identity pool login key for this user pool
func (c Config) ProviderName() string {
	return fmt.Sprintf("cognito-idp.%s.amazonaws.com/%s", c.ResolvedRegion(), c.UserPoolID)
}

// secretHash computes the SECRET_HASH parameter required by app clients
// that have a secret. Returns nil when the client has none.
func (c Config) secretHash(username string) *string {
	if c.ClientSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(c.ClientSecret))
	mac.Write([]byte(username + c.ClientID))
	hash := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return &hash
}
