// Package middleware decorates a ports.DocumentStore.
//
// Middlewares compose with Chain:
//
//	docs := middleware.Chain(file.New(dir),
//		middleware.NewLoggingMiddleware(logger),
//		middleware.NewValidationMiddleware(),
//		middleware.NewCanonicalMiddleware(),
//	)
package middleware
