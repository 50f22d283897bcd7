package id

import "context"

type contextKey string

const (
	logKey    contextKey = "teacherbot_log_id"
	updateKey contextKey = "teacherbot_update_id"
	chatKey   contextKey = "teacherbot_chat_id"
)

// IDs captures the identifiers propagated while one update is handled.
type IDs struct {
	LogID    string
	UpdateID string
	ChatID   string
}

// WithLogID stores the provided log identifier on the context.
func WithLogID(ctx context.Context, logID string) context.Context {
	if logID == "" {
		return ctx
	}
	return context.WithValue(ctx, logKey, logID)
}

// WithUpdateID stores the platform update identifier on the context.
func WithUpdateID(ctx context.Context, updateID string) context.Context {
	if updateID == "" {
		return ctx
	}
	return context.WithValue(ctx, updateKey, updateID)
}

// WithChatID stores the originating chat identifier on the context.
func WithChatID(ctx context.Context, chatID string) context.Context {
	if chatID == "" {
		return ctx
	}
	return context.WithValue(ctx, chatKey, chatID)
}

// WithIDs stores any provided identifiers on the context.
func WithIDs(ctx context.Context, ids IDs) context.Context {
	ctx = WithLogID(ctx, ids.LogID)
	ctx = WithUpdateID(ctx, ids.UpdateID)
	ctx = WithChatID(ctx, ids.ChatID)
	return ctx
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// LogIDFromContext extracts the log identifier from context.
func LogIDFromContext(ctx context.Context) string {
	return stringValue(ctx, logKey)
}

// UpdateIDFromContext extracts the update identifier from context.
func UpdateIDFromContext(ctx context.Context) string {
	return stringValue(ctx, updateKey)
}

// ChatIDFromContext extracts the chat identifier from context.
func ChatIDFromContext(ctx context.Context) string {
	return stringValue(ctx, chatKey)
}

// IDsFromContext collects all known identifiers from the context.
func IDsFromContext(ctx context.Context) IDs {
	return IDs{
		LogID:    LogIDFromContext(ctx),
		UpdateID: UpdateIDFromContext(ctx),
		ChatID:   ChatIDFromContext(ctx),
	}
}

// EnsureLogID guarantees a log identifier is present on the context.
// It returns the updated context and the resulting identifier.
func EnsureLogID(ctx context.Context, generator func() string) (context.Context, string) {
	if existing := LogIDFromContext(ctx); existing != "" {
		return ctx, existing
	}
	next := ""
	if generator != nil {
		next = generator()
	}
	if next == "" {
		return ctx, ""
	}
	return WithLogID(ctx, next), next
}
