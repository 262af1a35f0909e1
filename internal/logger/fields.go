package logger

import (
	"time"

	"go.uber.org/zap"
)

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field { return zap.String("method", v) }
func Path(v string) zap.Field { return zap.String("path", v) }
func Status(v int) zap.Field { return zap.Int("status", v) }
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }
func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field { return zap.String("op", v) }
func Layer(v string) zap.Field { return zap.String("layer", v) }
func UserID(v int64) zap.Field { return zap.Int64("user_id", v) }
func Username(v string) zap.Field { return zap.String("username", v) }
func EntityID(v int64) zap.Field { return zap.Int64("id", v) }
func Count(v int) zap.Field { return zap.Int("count", v) }
func Err(err error) zap.Field { return zap.Error(err) }

// LatencyMs reports a duration in fractional milliseconds.
func LatencyMs(d time.Duration) zap.Field {
	return zap.Float64("latency_ms", float64(d.Microseconds())/1000.0)
}
