// Package mocks provides mock implementations for testing the page view service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	runner := mocks.NewMockReportRunner(ctrl)
//	runner.EXPECT().RunReport(gomock.Any(), gomock.Any()).Return(result, nil)
package mocks

// Generate mock for ReportRunner interface from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=report_runner_mock.go github.com/target/pageviews-api/internal/ports ReportRunner

// Generate mock for CacheRepository interface from internal/ports package.
// This creates MockCacheRepository with methods Get, Set, Health.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/target/pageviews-api/internal/ports CacheRepository
