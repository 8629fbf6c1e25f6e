package sim

import "fmt"

// NodeID identifies one of the three nodes of the service.
// A is the origin of truth; B and C serve through caches filled from A.
type NodeID int

const (
	NodeA NodeID = iota
	NodeB
	NodeC
)

// NodeCount is the fixed size of the topology.
const NodeCount = 3

// Nodes lists every node in a stable order.
var Nodes = [NodeCount]NodeID{NodeA, NodeB, NodeC}

func (n NodeID) String() string {
	switch n {
	case NodeA:
		return "A"
	case NodeB:
		return "B"
	case NodeC:
		return "C"
	default:
		return fmt.Sprintf("node(%d)", int(n))
	}
}

// Timer is a nullable minute. An unarmed timer is "null": no outage pending,
// or a warm cache.
type Timer struct {
	At    int64
	Armed bool
}

// ArmAt returns a timer expiring at t.
func ArmAt(t int64) Timer {
	return Timer{At: t, Armed: true}
}

// Active reports whether the timer is still pending.
func (t Timer) Active() bool {
	return t.Armed
}

// expireAt disarms the timer if it expires exactly at now.
func (t *Timer) expireAt(now int64) bool {
	if t.Armed && t.At == now {
		*t = Timer{}
		return true
	}
	return false
}

func (t Timer) String() string {
	if !t.Armed {
		return "none"
	}
	return fmt.Sprintf("%d", t.At)
}
