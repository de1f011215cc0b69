package server

import (
	"os"
	"strings"

	"github.com/raystack/salt/log"

	"github.com/odpf/meridian/config"
)

func createLogger(conf config.LogConfig) *log.Logrus {
	return log.NewLogrus(
		log.LogrusWithLevel(strings.ToLower(conf.Level)),
		log.LogrusWithWriter(os.Stderr),
	)
}
