package tasks

import "fmt"

// Phase identifies which stage of the pipeline a progress update belongs to.
type Phase int

const (
	SuggestPhase Phase = iota
	ResolvePhase
	SavePhase
	FollowPhase
)

func (p Phase) String() string {
	switch p {
	case SuggestPhase:
		return "suggest"
	case ResolvePhase:
		return "resolve"
	case SavePhase:
		return "save"
	case FollowPhase:
		return "follow"
	default:
		return "unknown"
	}
}

// ProgressUpdate is a point-in-time report emitted on the progress channel.
type ProgressUpdate struct {
	Phase   Phase
	Step    int
	Total   int
	Item    string
	Matched bool
	Message string
}

func suggestingUpdate(backend string) ProgressUpdate {
	return ProgressUpdate{Phase: SuggestPhase, Message: fmt.Sprintf("asking %s for suggestions", backend)}
}

func resolvedUpdate(step, total int, item string, matched bool) ProgressUpdate {
	return ProgressUpdate{Phase: ResolvePhase, Step: step, Total: total, Item: item, Matched: matched}
}

func savingUpdate(title string) ProgressUpdate {
	return ProgressUpdate{Phase: SavePhase, Message: fmt.Sprintf("saving %q", title)}
}

func followingUpdate(step, total int, item string) ProgressUpdate {
	return ProgressUpdate{Phase: FollowPhase, Step: step, Total: total, Item: item}
}

// sendProgress delivers an update without blocking. Slow or absent consumers
// drop updates rather than stalling the pipeline.
func sendProgress(ch chan<- ProgressUpdate, update ProgressUpdate) {
	if ch == nil {
		return
	}

	select {
	case ch <- update:
	default:
	}
}
