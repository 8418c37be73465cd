package logging

import "context"

// WithLogRequestID добавляет request ID в контекст.
func WithLogRequestID(ctx context.Context, requestID string) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.RequestID = requestID
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{RequestID: requestID})
}

// WithLogRequestPath добавляет путь запроса в контекст.
func WithLogRequestPath(ctx context.Context, path string) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.Path = path
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{Path: path})
}

// WithLogRequestMethod добавляет метод запроса в контекст.
func WithLogRequestMethod(ctx context.Context, method string) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.Method = method
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{Method: method})
}

// WithLogRequestStatus добавляет статус ответа в контекст.
func WithLogRequestStatus(ctx context.Context, status int) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.Status = status
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{Status: status})
}

// WithLogRequestDuration добавляет длительность запроса в контекст.
func WithLogRequestDuration(ctx context.Context, duration string) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.RequestDuration = duration
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{RequestDuration: duration})
}

// WithLogProjectID добавляет ID проекта в контекст.
func WithLogProjectID(ctx context.Context, projectID string) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.ProjectID = projectID
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{ProjectID: projectID})
}

// WithLogTeamID добавляет ID команды в контекст.
func WithLogTeamID(ctx context.Context, teamID string) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.TeamID = teamID
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{TeamID: teamID})
}

// WithLogSprintID добавляет ID спринта в контекст.
func WithLogSprintID(ctx context.Context, sprintID string) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.SprintID = sprintID
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{SprintID: sprintID})
}

// WithLogReleaseID добавляет ID релиза в контекст.
func WithLogReleaseID(ctx context.Context, releaseID string) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.ReleaseID = releaseID
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{ReleaseID: releaseID})
}

// WithLogJobKind добавляет тип пакетного задания в контекст.
func WithLogJobKind(ctx context.Context, kind string) context.Context {
	if c, ok := ctx.Value(key).(logCtx); ok {
		c.JobKind = kind
		return context.WithValue(ctx, key, c)
	}
	return context.WithValue(ctx, key, logCtx{JobKind: kind})
}
