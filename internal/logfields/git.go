package logfields

import "go.uber.org/zap"

func Repository(val string) zap.Field {
	return zap.String("git.repository", val)
}

func RepositoryOwner(val string) zap.Field {
	return zap.String("github.repository_owner", val)
}

func BaseBranch(val string) zap.Field {
	return zap.String("git.base_branch", val)
}

func Branches(val []string) zap.Field {
	return zap.Strings("git.branches", val)
}

func RunID(val string) zap.Field {
	return zap.String("github.run_id", val)
}

func PlanFile(val string) zap.Field {
	return zap.String("plan_file", val)
}
