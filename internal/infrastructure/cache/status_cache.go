package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/VentasCampo-api/internal/application/fulfillment"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/pkg/logger"
)

const statusTTL = 5 * time.Minute

var _ fulfillment.StatusCache = (*RedisStatusCache)(nil)

// RedisStatusCache cache de estado de pedidos en Redis. Los vendedores en campo
// consultan estado con frecuencia; este cache absorbe ese polling sin tocar la BD.
// Cualquier falla de Redis se loguea y se absorbe: la BD sigue siendo la verdad.
type RedisStatusCache struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisStatusCache(client *redis.Client, log *logger.Logger) *RedisStatusCache {
	return &RedisStatusCache{client: client, log: log}
}

// statusKey clave calificada por tenant: un tenant nunca puede leer entradas de otro
// aunque adivine el UUID del pedido.
func statusKey(tenantID, orderID string) string {
	return fmt.Sprintf("order_status:%s:%s", tenantID, orderID)
}

func (c *RedisStatusCache) SetStatus(ctx context.Context, tenantID, orderID string, status entity.OrderStatus) {
	if err := c.client.Set(ctx, statusKey(tenantID, orderID), string(status), statusTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("order_id", orderID).Msg("no se pudo cachear estado del pedido")
	}
}

func (c *RedisStatusCache) GetStatus(ctx context.Context, tenantID, orderID string) (entity.OrderStatus, bool) {
	val, err := c.client.Get(ctx, statusKey(tenantID, orderID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("order_id", orderID).Msg("lectura de cache de estado falló")
		}
		return "", false
	}
	status, ok := entity.ParseOrderStatus(val)
	if !ok {
		// Valor corrupto: se ignora y la lectura cae a la BD.
		return "", false
	}
	return status, true
}

var _ fulfillment.StatusCache = NoopCache{}

// NoopCache cache nulo para cuando REDIS_ADDR no está configurado.
type NoopCache struct{}

func (NoopCache) SetStatus(ctx context.Context, tenantID, orderID string, status entity.OrderStatus) {
}

func (NoopCache) GetStatus(ctx context.Context, tenantID, orderID string) (entity.OrderStatus, bool) {
	return "", false
}
