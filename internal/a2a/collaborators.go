package a2a

import "context"

// Executor runs the work described by a request. Returning an *RPCError
// controls the error member of the response; any other error is reported as
// an internal error.
type Executor interface {
	Execute(ctx context.Context, req RequestEnvelope) (TaskResult, error)
}

// Notifier delivers a task update to a push notification target.
type Notifier interface {
	Notify(ctx context.Context, target PushNotificationConfig, result TaskResult) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, req RequestEnvelope) (TaskResult, error)

// Execute calls f(ctx, req).
func (f ExecutorFunc) Execute(ctx context.Context, req RequestEnvelope) (TaskResult, error) {
	return f(ctx, req)
}

// PushTarget returns the push notification target of a message/send request,
// if any.
func (r RequestEnvelope) PushTarget() (PushNotificationConfig, bool) {
	if r.Params.Kind != ParamsMessage || r.Params.Message == nil {
		return PushNotificationConfig{}, false
	}
	cfg := r.Params.Message.Configuration
	if cfg == nil || cfg.PushNotificationConfig == nil {
		return PushNotificationConfig{}, false
	}
	return *cfg.PushNotificationConfig, true
}
