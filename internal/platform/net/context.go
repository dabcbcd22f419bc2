// Package net provides utilities for working with request contexts and transport envelopes
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keySubjectID ctxKey = "subject_id"

// WithRequestID sets the chi request id so chimw.GetReqID can retrieve it
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// WithSubject annotates context with the authenticated subject id
func WithSubject(ctx context.Context, subjectID string) context.Context {
	if subjectID == "" {
		return ctx
	}
	return context.WithValue(ctx, keySubjectID, subjectID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// SubjectID returns the authenticated subject id on the context if present
func SubjectID(ctx context.Context) string {
	if v, ok := ctx.Value(keySubjectID).(string); ok {
		return v
	}
	return ""
}
