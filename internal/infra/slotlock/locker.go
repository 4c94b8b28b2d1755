// Package slotlock даёт распределенную блокировку на уровне слота.
//
// Блокировка не отвечает за корректность: её гарантирует условный UPDATE
// в БД. Она лишь сериализует конкурентов на горячем слоте до входа в
// транзакцию, снижая число откатов по конфликту сериализации.
package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired возвращается, когда слот уже заблокирован другим запросом
var ErrLockNotAcquired = errors.New("slotlock: slot is locked by another request")

// Locker сериализует работу с одним слотом между инстансами сервиса
type Locker interface {
	// WithSlotLock выполняет fn под блокировкой слота.
	// Если блокировка занята, возвращает ErrLockNotAcquired не вызывая fn.
	WithSlotLock(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context) error) error
}

// Сравнить токен и удалить атомарно, чтобы не снять чужую блокировку,
// захваченную после истечения нашего TTL
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker блокировка слота через Redis SET NX с TTL
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker создает блокировщик поверх подключения к Redis
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// WithSlotLock захватывает блокировку слота, выполняет fn и снимает блокировку.
// Токен защищает от снятия блокировки, перехваченной после истечения TTL.
func (l *RedisLocker) WithSlotLock(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context) error) error {
	key := lockKey(slotID)
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("slotlock: acquire %s: %w", key, err)
	}
	if !acquired {
		return ErrLockNotAcquired
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}()

	return fn(ctx)
}

func lockKey(slotID uuid.UUID) string {
	return "slotlock:" + slotID.String()
}

// NoopLocker используется, когда Redis выключен в конфигурации.
// Вся конкуренция разрешается на уровне БД.
type NoopLocker struct{}

// NewNoopLocker создает блокировщик-заглушку
func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

// WithSlotLock сразу выполняет fn без блокировки
func (l *NoopLocker) WithSlotLock(ctx context.Context, slotID uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
