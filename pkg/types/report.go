package types

// Action describes the mutation applied to one agent during a run
type Action string

const (
	ActionNone         Action = "none"
	ActionLinked       Action = "linked"
	ActionUnlinked     Action = "unlinked"
	ActionDownloaded   Action = "downloaded"
	ActionPruned       Action = "pruned"
	ActionDeduplicated Action = "deduplicated"
	ActionLinkRemoved  Action = "link-removed"
)

// Outcome is the per-agent result of a reconciliation run. When Err is set
// the agent keeps its pre-run Status so the report never hides a failure
// behind a stale classification.
type Outcome struct {
	Name   string
	Status AgentStatus
	Action Action
	Err    error
}

// Failed reports whether the agent's processing failed
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Report collects every per-agent outcome of one invocation. The reconciler
// never stops at the first error; all agents are processed and reported
// together.
type Report struct {
	Outcomes      []Outcome
	ConfigChanged bool

	// Cancelled is set when the user declined an interactive confirmation
	Cancelled bool
}

// Add appends an outcome
func (r *Report) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Failed returns the outcomes that carry an error
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Mutations counts the outcomes that applied a filesystem or config change
func (r *Report) Mutations() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action != ActionNone && !o.Failed() {
			n++
		}
	}
	return n
}
