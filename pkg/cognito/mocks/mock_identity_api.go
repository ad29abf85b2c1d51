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

package mocks

import (
	context "context"

	cognitoidentity "github.com/aws/aws-sdk-go-v2/service/cognitoidentity"

	mock "github.com/stretchr/testify/mock"
)

// MockIdentityAPI is a mock type for the IdentityAPI type
type MockIdentityAPI struct {
	mock.Mock
}

// GetId provides a mock function with given fields: ctx, params
func (_m *MockIdentityAPI) GetId(ctx context.Context, params *cognitoidentity.GetIdInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetIdOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentity.GetIdInput) (*cognitoidentity.GetIdOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentity.GetIdOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentity.GetIdOutput)
	}

	return r0, ret.Error(1)
}

// GetCredentialsForIdentity provides a mock function with given fields: ctx, params
func (_m *MockIdentityAPI) GetCredentialsForIdentity(ctx context.Context, params *cognitoidentity.GetCredentialsForIdentityInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetCredentialsForIdentityOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentity.GetCredentialsForIdentityInput) (*cognitoidentity.GetCredentialsForIdentityOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentity.GetCredentialsForIdentityOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentity.GetCredentialsForIdentityOutput)
	}

	return r0, ret.Error(1)
}

// NewMockIdentityAPI creates a new instance of MockIdentityAPI. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockIdentityAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIdentityAPI {
	m := &MockIdentityAPI{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
