package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

// ValkeyClient tracks which submissions have already been collected so a
// restarted run does not refetch or republish them.
type ValkeyClient struct {
	Client valkey.Client
}

// Collected keys expire after a week; a thread revisited later than that is
// worth refreshing anyway.
const collectedKeyTTLSeconds = 7 * 86400

func valkeyOptions() valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress:      []string{os.Getenv("VALKEY_INIT_ADDRESS")},
		Password:         os.Getenv("VALKEY_PASSWORD"),
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if os.Getenv("VALKEY_TLS") == "true" {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		client, err := valkey.NewClient(valkeyOptions())
		if err != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		c := client.Do(ctx, client.B().Ping().Build())
		if c.Error() != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", c.Error()))
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")

		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

func GetValkeyClient() *ValkeyClient {
	if valkeyInstance == nil {
		panic("[ValkeyClient] Error: Valkey client is not initialized")
	}
	return valkeyInstance
}

func keyFromSource(source string) string {
	return fmt.Sprintf("%s:collected_threads", source)
}

// MarkCollected records that a thread's raw documents were archived and
// published.
func (vc *ValkeyClient) MarkCollected(ctx context.Context, source string, key string) error {
	sourceKey := keyFromSource(source)
	commands := []valkey.Completed{
		vc.Client.B().Sadd().Key(sourceKey).Member(key).Build(),
		vc.Client.B().Expire().Key(sourceKey).Seconds(collectedKeyTTLSeconds).Build(),
	}

	for _, resp := range vc.Client.DoMulti(ctx, commands...) {
		if err := resp.Error(); err != nil {
			return err
		}
	}

	return nil
}

// IsCollected reports whether a thread was already archived in a previous
// run. Lookup failures count as "not collected" so a flaky cache can only
// cause duplicate work, never data loss.
func (vc *ValkeyClient) IsCollected(ctx context.Context, source string, key string) bool {
	sourceKey := keyFromSource(source)
	res := vc.Client.Do(ctx, vc.Client.B().Sismember().Key(sourceKey).Member(key).Build())

	if err := res.Error(); err != nil {
		slog.Warn("[ValkeyClient] Dedupe lookup failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}

	ok, err := res.AsBool()
	if err != nil {
		return false
	}
	return ok
}
