package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/config"
	"github.com/likeUMR/I-Wanna-Be-A-Judge/infrastructures/log"

	"github.com/redis/go-redis/v9"
)

var (
	defaultCache *Cache
	initOnce     sync.Once
)

// ErrKeyNotFound 表示Redis中不存在指定的key
var ErrKeyNotFound = errors.New("key not found")

// Cache 统一的缓存管理器。批处理多进程并行时用它共享
// 行政区划映射结果，避免各进程重复解析同样的法院名。
type Cache struct {
	client *redis.Client
	ctx    context.Context
}

// GetInstance 获取缓存单例，如果未初始化则自动初始化
func GetInstance() *Cache {
	initOnce.Do(func() {
		redisConfig, exists := config.GetInstance().Redises["General"]
		if !exists {
			panic("Redis configuration 'General' not found in config.toml")
		}

		// 设置默认值（只在配置文件未设置时生效）
		if redisConfig.PoolSize == 0 {
			redisConfig.PoolSize = 10
		}
		if redisConfig.MaxRetries == 0 {
			redisConfig.MaxRetries = 3
		}
		if redisConfig.DialTimeout == 0 {
			redisConfig.DialTimeout = 5
		}
		if redisConfig.ReadTimeout == 0 {
			redisConfig.ReadTimeout = 3
		}
		if redisConfig.WriteTimeout == 0 {
			redisConfig.WriteTimeout = 3
		}

		var client *redis.Client
		dial := time.Duration(redisConfig.DialTimeout) * time.Second
		read := time.Duration(redisConfig.ReadTimeout) * time.Second
		write := time.Duration(redisConfig.WriteTimeout) * time.Second

		if redisConfig.UseSentinel {
			if len(redisConfig.SentinelAddrs) == 0 {
				panic("Redis sentinel mode enabled but sentinelAddrs is empty")
			}
			if redisConfig.MasterName == "" {
				panic("Redis sentinel mode enabled but masterName is empty")
			}
			client = redis.NewFailoverClient(&redis.FailoverOptions{
				MasterName:       redisConfig.MasterName,
				SentinelAddrs:    redisConfig.SentinelAddrs,
				SentinelPassword: redisConfig.SentinelPassword,
				Username:         redisConfig.User,
				Password:         redisConfig.Password,
				DB:               redisConfig.DB,
				PoolSize:         redisConfig.PoolSize,
				MinIdleConns:     redisConfig.MinIdleConns,
				DialTimeout:      dial,
				ReadTimeout:      read,
				WriteTimeout:     write,
				MaxRetries:       redisConfig.MaxRetries,
			})
		} else {
			client = redis.NewClient(&redis.Options{
				Addr:         redisConfig.Addr,
				Username:     redisConfig.User,
				Password:     redisConfig.Password,
				DB:           redisConfig.DB,
				PoolSize:     redisConfig.PoolSize,
				MinIdleConns: redisConfig.MinIdleConns,
				MaxRetries:   redisConfig.MaxRetries,
				DialTimeout:  dial,
				ReadTimeout:  read,
				WriteTimeout: write,
			})
		}

		ctx := context.Background()

		if err := pingWithRetry(ctx, client, 3); err != nil {
			panic(fmt.Sprintf("failed to connect to redis: %v", err))
		}

		defaultCache = &Cache{
			client: client,
			ctx:    ctx,
		}

		if redisConfig.UseSentinel {
			log.Infof("Cache initialized via sentinel %s (master=%s)", strings.Join(redisConfig.SentinelAddrs, ","), redisConfig.MasterName)
		} else {
			log.Infof("Cache initialized: %s", redisConfig.Addr)
		}
	})

	return defaultCache
}

// NewWithClient 用现成的redis客户端构造缓存实例，测试用
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client, ctx: context.Background()}
}

func pingWithRetry(ctx context.Context, client *redis.Client, maxRetries int) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := client.Ping(ctx).Err(); err != nil {
			lastErr = err
			if !isRetryableRedisErr(err) || attempt == maxRetries-1 {
				return err
			}
			time.Sleep(50 * time.Millisecond)
			continue
		}
		return nil
	}
	return lastErr
}

func isRetryableRedisErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// Close 关闭Redis连接
func (c *Cache) Close() error {
	return c.client.Close()
}

// ============ 核心API ============

// Store 存储对象（自动JSON序列化）
func (c *Cache) Store(key string, val any, timeout time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal failed for key %s: %w", key, err)
	}
	err = c.client.Set(c.ctx, key, data, timeout).Err()
	if err != nil {
		return fmt.Errorf("store failed for key %s: %w", key, err)
	}
	return nil
}

// StoreString 直接存储字符串（不进行JSON序列化）
func (c *Cache) StoreString(key string, val string, timeout time.Duration) error {
	err := c.client.Set(c.ctx, key, val, timeout).Err()
	if err != nil {
		return fmt.Errorf("store string failed for key %s: %w", key, err)
	}
	return nil
}

// Fetch 获取对象（自动JSON反序列化）
func (c *Cache) Fetch(key string, dest any) error {
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return fmt.Errorf("fetch failed for key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal failed for key %s: %w", key, err)
	}
	return nil
}

// FetchString 获取字符串
func (c *Cache) FetchString(key string) (string, error) {
	val, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return "", fmt.Errorf("fetch string failed for key %s: %w", key, err)
	}
	return val, nil
}

// Delete 删除键
func (c *Cache) Delete(key string) error {
	err := c.client.Del(c.ctx, key).Err()
	if err != nil {
		return fmt.Errorf("delete failed for key %s: %w", key, err)
	}
	return nil
}

// Exists 检查键是否存在
func (c *Cache) Exists(key string) bool {
	count, err := c.client.Exists(c.ctx, key).Result()
	if err != nil {
		log.Errorf("check exists failed: %v, key: %s", err, key)
		return false
	}
	return count > 0
}

// ============ 行政区划映射缓存 ============

// adCodeTTL 区划表基本不变，映射结果保留一周
const adCodeTTL = 7 * 24 * time.Hour

// StoreAdCode 缓存(地区, 法院)对应的区划代码。空代码同样缓存，
// 避免对解析不出来的法院名反复做全索引扫描。
func (c *Cache) StoreAdCode(region, court, adcode string) error {
	return c.StoreString(adCodeKey(region, court), adcode, adCodeTTL)
}

// FetchAdCode 查询缓存的区划代码。第二个返回值表示是否命中。
func (c *Cache) FetchAdCode(region, court string) (string, bool) {
	val, err := c.FetchString(adCodeKey(region, court))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Errorf("fetch adcode failed: %v", err)
		}
		return "", false
	}
	return val, true
}

func adCodeKey(region, court string) string {
	return fmt.Sprintf("judge:adcode:%s:%s", region, court)
}
