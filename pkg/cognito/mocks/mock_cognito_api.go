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

// Package mocks holds testify mocks of the Cognito SDK interfaces.
// Expectations match on ctx and params; SDK option functions are not recorded.
package mocks

import (
	context "context"

	cognitoidentityprovider "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"

	mock "github.com/stretchr/testify/mock"
)

// MockCognitoAPI is a mock type for the CognitoAPI type
type MockCognitoAPI struct {
	mock.Mock
}

// SignUp provides a mock function with given fields: ctx, params
func (_m *MockCognitoAPI) SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentityprovider.SignUpInput) (*cognitoidentityprovider.SignUpOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentityprovider.SignUpOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentityprovider.SignUpOutput)
	}

	return r0, ret.Error(1)
}

// ConfirmSignUp provides a mock function with given fields: ctx, params
func (_m *MockCognitoAPI) ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentityprovider.ConfirmSignUpInput) (*cognitoidentityprovider.ConfirmSignUpOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentityprovider.ConfirmSignUpOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentityprovider.ConfirmSignUpOutput)
	}

	return r0, ret.Error(1)
}

// InitiateAuth provides a mock function with given fields: ctx, params
func (_m *MockCognitoAPI) InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentityprovider.InitiateAuthInput) (*cognitoidentityprovider.InitiateAuthOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentityprovider.InitiateAuthOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentityprovider.InitiateAuthOutput)
	}

	return r0, ret.Error(1)
}

// GlobalSignOut provides a mock function with given fields: ctx, params
func (_m *MockCognitoAPI) GlobalSignOut(ctx context.Context, params *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentityprovider.GlobalSignOutInput) (*cognitoidentityprovider.GlobalSignOutOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentityprovider.GlobalSignOutOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentityprovider.GlobalSignOutOutput)
	}

	return r0, ret.Error(1)
}

// ResendConfirmationCode provides a mock function with given fields: ctx, params
func (_m *MockCognitoAPI) ResendConfirmationCode(ctx context.Context, params *cognitoidentityprovider.ResendConfirmationCodeInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ResendConfirmationCodeOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentityprovider.ResendConfirmationCodeInput) (*cognitoidentityprovider.ResendConfirmationCodeOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentityprovider.ResendConfirmationCodeOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentityprovider.ResendConfirmationCodeOutput)
	}

	return r0, ret.Error(1)
}

// ForgotPassword provides a mock function with given fields: ctx, params
func (_m *MockCognitoAPI) ForgotPassword(ctx context.Context, params *cognitoidentityprovider.ForgotPasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ForgotPasswordOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentityprovider.ForgotPasswordInput) (*cognitoidentityprovider.ForgotPasswordOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentityprovider.ForgotPasswordOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentityprovider.ForgotPasswordOutput)
	}

	return r0, ret.Error(1)
}

// ConfirmForgotPassword provides a mock function with given fields: ctx, params
func (_m *MockCognitoAPI) ConfirmForgotPassword(ctx context.Context, params *cognitoidentityprovider.ConfirmForgotPasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmForgotPasswordOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentityprovider.ConfirmForgotPasswordInput) (*cognitoidentityprovider.ConfirmForgotPasswordOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentityprovider.ConfirmForgotPasswordOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentityprovider.ConfirmForgotPasswordOutput)
	}

	return r0, ret.Error(1)
}

// ListUserPools provides a mock function with given fields: ctx, params
func (_m *MockCognitoAPI) ListUserPools(ctx context.Context, params *cognitoidentityprovider.ListUserPoolsInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUserPoolsOutput, error) {
	ret := _m.Called(ctx, params)

	if rf, ok := ret.Get(0).(func(context.Context, *cognitoidentityprovider.ListUserPoolsInput) (*cognitoidentityprovider.ListUserPoolsOutput, error)); ok {
		return rf(ctx, params)
	}

	var r0 *cognitoidentityprovider.ListUserPoolsOutput
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*cognitoidentityprovider.ListUserPoolsOutput)
	}

	return r0, ret.Error(1)
}

// NewMockCognitoAPI creates a new instance of MockCognitoAPI. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockCognitoAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCognitoAPI {
	m := &MockCognitoAPI{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
