// Package middleware wraps an [ai.Provider] with cross-cutting behaviour:
// retries, deadlines and logging of completion requests.
//
//	provider := middleware.Chain(backend,
//	    middleware.Timeout(30*time.Second),
//	    middleware.Retry(middleware.RetryConfig{MaxRetries: 3}),
//	    middleware.Logging(observer, middleware.LogLevelStandard),
//	)
//
// Middlewares execute outermost-first: a request travels
//
//	Timeout → Retry → Logging → backend
//
// and the response travels back in reverse.
package middleware
