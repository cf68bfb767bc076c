package tracing

import (
	"fmt"

	"screener_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
	jCfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
)

var serviceName = "screener-bot"

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName
	return oldName
}

type Config struct {
	Host string
	Port int
}

// InitTracer поднимает Jaeger-трейсер (const-сэмплер) и ставит его
// глобальным. Если host пустой — трейсинг выключен, ставим NoopTracer.
func InitTracer(conf Config) (opentracing.Tracer, func(), error) {
	if conf.Host == "" {
		tracer := opentracing.NoopTracer{}
		opentracing.SetGlobalTracer(tracer)
		return tracer, func() {}, nil
	}

	cfg := &jCfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jCfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jCfg.ReporterConfig{
			LocalAgentHostPort: fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		},
	}

	tracer, closer, err := cfg.NewTracer(
		jCfg.Metrics(metrics.NullFactory),
	)
	if err != nil {
		return nil, nil, err
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, func() {
		if err := closer.Close(); err != nil {
			logger.Error("ошибка закрытия Jaeger-трейсера: %v", err)
		}
	}, nil
}
