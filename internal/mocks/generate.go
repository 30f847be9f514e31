// Package mocks provides mock implementations for testing the client core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the backend API ports. The generated mocks are checked in; regenerate them
// after interface changes with:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().Profile(gomock.Any(), "token").Return(profile, nil)
//
// Hand-written doubles for the state store and navigator live in
// internal/mocks/state.
package mocks

// Generate mocks for the backend API ports from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=api_mock.go github.com/cafetec/cafetec-client/internal/ports AuthAPI,CatalogAPI,OrderAPI,ReportAPI,AdminAPI
