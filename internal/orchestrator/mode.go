package orchestrator

// Mode selects what postprocess reports to DevBird besides linking the run.
type Mode int

const (
	// ModeDevelop registers the branches of the repository.
	ModeDevelop Mode = iota
	// ModePlan uploads the plan files of the repository.
	ModePlan
)

// ParseMode converts the devbird_mode input to a Mode.
// Every value except "plan" is ModeDevelop.
func ParseMode(s string) Mode {
	if s == "plan" {
		return ModePlan
	}

	return ModeDevelop
}

func (m Mode) String() string {
	switch m {
	case ModeDevelop:
		return "develop"
	case ModePlan:
		return "plan"
	default:
		return "undefined"
	}
}
