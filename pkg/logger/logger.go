package logger

import "go.uber.org/zap"

// New returns a JSON production logger for env "prod" and a console
// development logger for anything else.
func New(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
