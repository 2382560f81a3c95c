package logfields

import "go.uber.org/zap"

func Event(val string) zap.Field {
	return zap.String("event", val)
}

// Step names the pipeline step a log message belongs to, e.g.
// "link_github_action" or "register_branches".
func Step(val string) zap.Field {
	return zap.String("step", val)
}

func Mode(val string) zap.Field {
	return zap.String("devbird.mode", val)
}

func Service(val string) zap.Field {
	return zap.String("delino.service", val)
}
