// Package mocks provides mock implementations for testing the console services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mock for UserRepository interface from internal/ports package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// Upsert, GetByID, GetByEmail, List, Count, SetRole, SetActive, SetPasswordHash, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/algocare/ops-console/internal/ports UserRepository

// Generate mock for DeliveryRepository interface from internal/ports package.
// This creates MockDeliveryRepository with methods for all DeliveryRepository interface methods:
// Create, GetByID, GetByTrackingNo, List, Update, Delete, StatusCounts
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=delivery_repository_mock.go github.com/algocare/ops-console/internal/ports DeliveryRepository
