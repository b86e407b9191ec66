package ir

// Protocol constants shared by the scanner, generator, and transformer.
// These name the JavaScript-side contract: which call requests scheduling,
// which packages the generated code imports, and how generated names are
// derived.
const (
	// ScheduleIdent is the scheduling-call identifier users import and call.
	ScheduleIdent = "cronStart"

	// SchedulePackage is the module specifier the scheduling call must be
	// imported from for a call site to qualify.
	SchedulePackage = "cronweave"

	// StartIdent and WorkflowPackage name the task-start primitive injected
	// into rewritten call sites and generated wrappers. Starting a workflow
	// produces a new independent execution with its own run identity.
	StartIdent      = "start"
	WorkflowPackage = "workflow"

	// SleepIdent and RuntimePackage name the cron-sleep primitive the
	// generated loop delegates to. cronweave never evaluates cron
	// expressions itself.
	SleepIdent     = "sleepUntilNextCron"
	RuntimePackage = "cronweave/runtime"

	// ArgsKey is the property under which the positional-arguments node is
	// folded into the configuration object during call rewriting.
	ArgsKey = "args"

	// WrapperPrefix and ContainerDirPrefix derive the wrapper identifier and
	// its container subdirectory from a scheduled function's name.
	WrapperPrefix      = "cron_"
	ContainerDirPrefix = "cron-"

	// ContainerName is the generated directory created beneath the project's
	// routable source tree (src/app or app).
	ContainerName = "cron"
)

// OnError policies recognized on the scheduling options object. The generated
// loop treats anything other than OnErrorStop as OnErrorContinue.
const (
	OnErrorContinue = "continue"
	OnErrorStop     = "stop"
)
