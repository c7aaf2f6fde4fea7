package middlewarectx

import "context"

// UserIDFromContext извлекает идентификатор пользователя, положенный в
// контекст JWTMiddleware. Второй результат ложен, если запрос прошёл
// мимо middleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserID).(int64)
	return id, ok
}

// EmailFromContext извлекает почту пользователя из контекста запроса.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(Email).(string)
	return email, ok
}
