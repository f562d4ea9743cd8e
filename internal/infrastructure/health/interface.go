package health

import "context"

// Reporter возвращает текущее состояние сервиса
type Reporter interface {
	Status(ctx context.Context) Status
}
