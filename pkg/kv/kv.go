// Package kv описывает строковое хранилище ключ-значение для коллекции истории.
package kv

import "context"

// Store это минимальная абстракция ключ-значение. Отсутствующий ключ
// возвращается как ok=false и nil-ошибка.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
