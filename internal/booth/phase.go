package booth

import "fmt"

// PhaseKind enumerates the lighting modes of the booth. Each corresponds to
// one stage of the photo session, plus the two control notifications
// (Reconfigure and Terminate) that are delivered over the same queue.
type PhaseKind int

const (
	PhaseReconfigure PhaseKind = iota + 1
	PhaseWait
	PhaseWaitOrPrint
	PhaseChoose
	PhaseChosen
	PhasePreview
	PhaseCapture
	PhaseProcessing
	PhasePrint
	PhaseFinish
	PhaseFailsafe
	PhaseTerminate
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseReconfigure:
		return "reconfigure"
	case PhaseWait:
		return "wait"
	case PhaseWaitOrPrint:
		return "wait_or_print"
	case PhaseChoose:
		return "choose"
	case PhaseChosen:
		return "chosen"
	case PhasePreview:
		return "preview"
	case PhaseCapture:
		return "capture"
	case PhaseProcessing:
		return "processing"
	case PhasePrint:
		return "print"
	case PhaseFinish:
		return "finish"
	case PhaseFailsafe:
		return "failsafe"
	case PhaseTerminate:
		return "terminate"
	default:
		return fmt.Sprintf("phase(%d)", int(k))
	}
}

// Phase is the value delivered on a notification. Captures is only
// meaningful for PhaseChosen and is fixed at the moment the host produces
// the notification.
type Phase struct {
	Kind     PhaseKind
	Captures int
}

// Chosen builds a chosen-phase value carrying the number of captures taken
// so far.
func Chosen(captures int) Phase {
	return Phase{Kind: PhaseChosen, Captures: captures}
}

func (p Phase) String() string {
	if p.Kind == PhaseChosen {
		return fmt.Sprintf("chosen(%d)", p.Captures)
	}
	return p.Kind.String()
}
