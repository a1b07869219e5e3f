package notifier

import "errors"

var (
	// ErrInternal возвращается при ошибках выполнения запроса к сервису уведомлений
	ErrInternal = errors.New("notifier.client: internal error")

	// ErrInvalidResponse возвращается при неожиданном ответе сервиса уведомлений
	ErrInvalidResponse = errors.New("notifier.client: invalid response")
)
