package notify

import (
	"atlas/pkg/log"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewNotifierFromConfig 日志和 websocket 总是启用，其余按 notify.* 开关
func NewNotifierFromConfig(conf *viper.Viper, logger *log.Logger, hub *Hub) (*Notifier, func(), error) {
	env := conf.GetString("env")
	sinks := []Sink{NewLogSink(logger), hub}
	cleanup := func() {}

	if conf.GetBool("notify.slack.enabled") {
		channel := conf.GetString("notify.slack.channel")
		if env == "local" && conf.GetString("notify.slack.username") != "" {
			channel = "@" + conf.GetString("notify.slack.username")
		}
		sinks = append(sinks, NewSlackSink(conf.GetString("notify.slack.url"), "Atlas", channel))
	}
	if conf.GetBool("notify.email.enabled") {
		sinks = append(sinks, NewEmailSink(EmailConfig{
			Host:     conf.GetString("notify.email.host"),
			Port:     conf.GetInt("notify.email.port"),
			Username: conf.GetString("notify.email.username"),
			Password: conf.GetString("notify.email.password"),
			From:     conf.GetString("notify.email.from"),
			Domain:   conf.GetString("notify.email.domain"),
		}))
	}
	if url := conf.GetString("notify.nats.url"); url != "" {
		ns, err := NewNATSSink(url, logger)
		if err != nil {
			// NATS 不可用时继续启动，只少一个出口
			logger.Warn("nats sink disabled", zap.Error(err))
		} else {
			sinks = append(sinks, ns)
			cleanup = ns.Close
		}
	}
	return NewNotifier(env, logger, sinks...), cleanup, nil
}
